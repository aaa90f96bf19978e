package db

import (
	"context"

	"github.com/tgienger/firmdesk/internal/models"
)

const clientColumns = `id, name, contact_person, phone, email, address, notes, created_at`

// CreateClient creates a new client and returns its id
func (db *DB) CreateClient(ctx context.Context, in models.ClientInput) (int64, error) {
	fs := []field{{"name", in.Name}}
	fs = opt(fs, "contact_person", in.ContactPerson, text)
	fs = opt(fs, "phone", in.Phone, text)
	fs = opt(fs, "email", in.Email, text)
	fs = opt(fs, "address", in.Address, text)
	fs = opt(fs, "notes", in.Notes, text)
	return db.insert(ctx, "clients", fs)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanClient(s scanner, c *models.Client) error {
	return s.Scan(&c.ID, &c.Name, &c.ContactPerson, &c.Phone, &c.Email, &c.Address, &c.Notes, &c.CreatedAt)
}

// GetClient retrieves a client by ID
func (db *DB) GetClient(ctx context.Context, id int64) (*models.Client, error) {
	c := &models.Client{}
	row := db.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = ?`, id)
	if err := scanClient(row, c); err != nil {
		return nil, notFound(err, "client", id)
	}
	return c, nil
}

// ListClients returns all clients ordered by name
func (db *DB) ListClients(ctx context.Context) ([]models.Client, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY name COLLATE NOCASE, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		var c models.Client
		if err := scanClient(rows, &c); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// DeleteClient deletes a client. Its tasks are kept since they refer to the client by name.
func (db *DB) DeleteClient(ctx context.Context, id int64) error {
	return db.delete(ctx, "clients", id)
}

// ClientNames returns the distinct client names for suggestion lists
func (db *DB) ClientNames(ctx context.Context) ([]string, error) {
	return db.names(ctx, "clients", "name")
}
