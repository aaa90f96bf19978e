package db

import (
	"context"
	"database/sql"

	"github.com/tgienger/firmdesk/internal/models"
)

// CreateTodo creates a new todo and returns its id
func (db *DB) CreateTodo(ctx context.Context, in models.TodoInput) (int64, error) {
	fs := []field{
		{"title", in.Title},
		{"completed", in.Completed},
	}
	fs = opt(fs, "description", in.Description, text)
	fs = opt(fs, "due_date", in.DueDate, millis)
	fs = opt(fs, "priority", in.Priority, func(p int) any { return p })
	return db.insert(ctx, "todos", fs)
}

func scanTodo(s scanner, t *models.Todo) error {
	var due sql.NullInt64
	if err := s.Scan(&t.ID, &t.Title, &t.Description, &due, &t.Completed, &t.Priority, &t.CreatedAt); err != nil {
		return err
	}
	t.DueDate = dateFrom(due)
	return nil
}

// GetTodo retrieves a todo by ID
func (db *DB) GetTodo(ctx context.Context, id int64) (*models.Todo, error) {
	t := &models.Todo{}
	row := db.QueryRowContext(ctx, `
		SELECT id, title, description, due_date, completed, priority, created_at
		FROM todos WHERE id = ?
	`, id)
	if err := scanTodo(row, t); err != nil {
		return nil, notFound(err, "todo", id)
	}
	return t, nil
}

// ListTodos returns open todos before completed ones, by priority (desc) then due date
func (db *DB) ListTodos(ctx context.Context) ([]models.Todo, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, title, description, due_date, completed, priority, created_at
		FROM todos
		ORDER BY completed, priority DESC, due_date IS NULL, due_date, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []models.Todo
	for rows.Next() {
		var t models.Todo
		if err := scanTodo(rows, &t); err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// DeleteTodo deletes a todo
func (db *DB) DeleteTodo(ctx context.Context, id int64) error {
	return db.delete(ctx, "todos", id)
}
