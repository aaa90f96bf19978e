package db

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	gerrors "github.com/go-faster/errors"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

//go:embed schema.sql
var schema string

// ErrNotFound is returned by the Get methods when no row has the given id
var ErrNotFound = gerrors.New("record not found")

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// New opens (creating if needed) the database at path and initializes the schema
func New(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, gerrors.Wrap(err, "create data directory")
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, gerrors.Wrap(err, "open database")
	}
	// Bulk imports create rows concurrently; sqlite allows one writer.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, gerrors.Wrap(err, "initialize schema")
	}

	return &DB{db}, nil
}

// field is one column assignment of an INSERT
type field struct {
	col string
	val any
}

// opt appends col only when v is set, leaving the column to its default otherwise
func opt[T any](fs []field, col string, v *T, enc func(T) any) []field {
	if v == nil {
		return fs
	}
	return append(fs, field{col, enc(*v)})
}

func text(s string) any { return s }

func millis(t time.Time) any { return t.UTC().UnixMilli() }

func amount(d decimal.Decimal) any { return d.String() }

func (db *DB) insert(ctx context.Context, table string, fs []field) (int64, error) {
	cols := make([]string, len(fs))
	marks := make([]string, len(fs))
	args := make([]any, len(fs))
	for i, f := range fs {
		cols[i] = f.col
		marks[i] = "?"
		args[i] = f.val
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), strings.Join(marks, ", "))
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, gerrors.Wrapf(err, "insert into %s", table)
	}
	return result.LastInsertId()
}

func (db *DB) delete(ctx context.Context, table string, id int64) error {
	result, err := db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return gerrors.Wrapf(err, "delete from %s", table)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return gerrors.Wrapf(ErrNotFound, "%s %d", strings.TrimSuffix(table, "s"), id)
	}
	return nil
}

// names returns the distinct non-empty values of col, sorted
func (db *DB) names(ctx context.Context, table, col string) ([]string, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(
		"SELECT DISTINCT %[1]s FROM %[2]s WHERE %[1]s <> '' ORDER BY %[1]s COLLATE NOCASE", col, table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

func notFound(err error, what string, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return gerrors.Wrapf(ErrNotFound, "%s %d", what, id)
	}
	return err
}

func dateFrom(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	t := time.UnixMilli(n.Int64).UTC()
	return &t
}
