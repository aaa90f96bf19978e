package db

import (
	"context"
	"database/sql"

	"github.com/tgienger/firmdesk/internal/models"
)

const taskColumns = `id, client_name, task_category, sub_category, status, comment, assigned_name,
	due_date, assignment_date, completion_date, bill, advance_received, outstanding_amount,
	payment_status, created_at`

// CreateTask creates a new task and returns its id
func (db *DB) CreateTask(ctx context.Context, in models.TaskInput) (int64, error) {
	fs := []field{
		{"client_name", in.ClientName},
		{"task_category", in.TaskCategory},
		{"sub_category", in.SubCategory},
	}
	fs = opt(fs, "status", in.Status, func(s models.TaskStatus) any { return string(s) })
	fs = opt(fs, "comment", in.Comment, text)
	fs = opt(fs, "assigned_name", in.AssignedName, text)
	fs = opt(fs, "due_date", in.DueDate, millis)
	fs = opt(fs, "assignment_date", in.AssignmentDate, millis)
	fs = opt(fs, "completion_date", in.CompletionDate, millis)
	fs = opt(fs, "bill", in.Bill, amount)
	fs = opt(fs, "advance_received", in.AdvanceReceived, amount)
	fs = opt(fs, "outstanding_amount", in.OutstandingAmount, amount)
	fs = opt(fs, "payment_status", in.PaymentStatus, text)
	return db.insert(ctx, "tasks", fs)
}

func scanTask(s scanner, t *models.Task) error {
	var due, assigned, completed sql.NullInt64
	var status string
	err := s.Scan(
		&t.ID, &t.ClientName, &t.TaskCategory, &t.SubCategory, &status, &t.Comment, &t.AssignedName,
		&due, &assigned, &completed, &t.Bill, &t.AdvanceReceived, &t.OutstandingAmount,
		&t.PaymentStatus, &t.CreatedAt,
	)
	if err != nil {
		return err
	}
	t.Status = models.TaskStatus(status)
	t.DueDate = dateFrom(due)
	t.AssignmentDate = dateFrom(assigned)
	t.CompletionDate = dateFrom(completed)
	return nil
}

// GetTask retrieves a task by ID
func (db *DB) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	t := &models.Task{}
	row := db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	if err := scanTask(row, t); err != nil {
		return nil, notFound(err, "task", id)
	}
	return t, nil
}

// ListTasks returns all tasks, soonest due first, undated tasks last
func (db *DB) ListTasks(ctx context.Context) ([]models.Task, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		ORDER BY due_date IS NULL, due_date, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		if err := scanTask(rows, &t); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// DeleteTask deletes a task
func (db *DB) DeleteTask(ctx context.Context, id int64) error {
	return db.delete(ctx, "tasks", id)
}
