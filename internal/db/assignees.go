package db

import (
	"context"

	"github.com/tgienger/firmdesk/internal/models"
)

// CreateAssignee creates a new assignee team and returns its id
func (db *DB) CreateAssignee(ctx context.Context, in models.AssigneeInput) (int64, error) {
	fs := []field{{"name", in.Name}}
	fs = opt(fs, "captain", in.Captain, text)
	return db.insert(ctx, "assignees", fs)
}

// GetAssignee retrieves an assignee by ID
func (db *DB) GetAssignee(ctx context.Context, id int64) (*models.Assignee, error) {
	a := &models.Assignee{}
	err := db.QueryRowContext(ctx, `
		SELECT id, name, captain, created_at FROM assignees WHERE id = ?
	`, id).Scan(&a.ID, &a.Name, &a.Captain, &a.CreatedAt)
	if err != nil {
		return nil, notFound(err, "assignee", id)
	}
	return a, nil
}

// ListAssignees returns all assignees ordered by name
func (db *DB) ListAssignees(ctx context.Context) ([]models.Assignee, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, captain, created_at
		FROM assignees ORDER BY name COLLATE NOCASE, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignees []models.Assignee
	for rows.Next() {
		var a models.Assignee
		if err := rows.Scan(&a.ID, &a.Name, &a.Captain, &a.CreatedAt); err != nil {
			return nil, err
		}
		assignees = append(assignees, a)
	}
	return assignees, rows.Err()
}

// DeleteAssignee deletes an assignee
func (db *DB) DeleteAssignee(ctx context.Context, id int64) error {
	return db.delete(ctx, "assignees", id)
}

// AssigneeNames returns the distinct assignee names for suggestion lists
func (db *DB) AssigneeNames(ctx context.Context) ([]string, error) {
	return db.names(ctx, "assignees", "name")
}
