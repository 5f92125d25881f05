package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"pkt.systems/todoagent/schema"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS todos (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	title       TEXT NOT NULL,
	description TEXT,
	created_at  TEXT NOT NULL,
	updated_at  TEXT
);
CREATE INDEX IF NOT EXISTS idx_todos_created_at ON todos(created_at);
`

// SQLite is a file-backed todo store.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (and creates if needed) the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// modernc's driver serializes writes through a single connection.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// List returns all todos ordered by creation time, then id.
func (s *SQLite) List(ctx context.Context) ([]schema.Todo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, created_at, updated_at
		FROM todos ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	todos := make([]schema.Todo, 0)
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	return todos, rows.Err()
}

// Get returns one todo by id.
func (s *SQLite) Get(ctx context.Context, id schema.TodoID) (schema.Todo, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, created_at, updated_at
		FROM todos WHERE id = ?`, int64(id))
	todo, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return schema.Todo{}, schema.ErrTodoNotFound
	}
	return todo, err
}

// Create inserts a todo and returns it with its assigned id.
func (s *SQLite) Create(ctx context.Context, title, description string) (schema.Todo, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO todos (title, description, created_at) VALUES (?, ?, ?)`,
		title, nullableString(description), now.Format(time.RFC3339Nano))
	if err != nil {
		return schema.Todo{}, fmt.Errorf("create todo: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return schema.Todo{}, fmt.Errorf("create todo id: %w", err)
	}
	return schema.Todo{
		ID:          schema.TodoID(id),
		Title:       title,
		Description: description,
		CreatedAt:   now,
	}, nil
}

// Update modifies the provided fields and stamps updated_at.
func (s *SQLite) Update(ctx context.Context, id schema.TodoID, title, description *string) (schema.Todo, error) {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)
	if title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *title)
	}
	if description != nil {
		sets = append(sets, "description = ?")
		args = append(args, nullableString(*description))
	}
	now := time.Now().UTC()
	sets = append(sets, "updated_at = ?")
	args = append(args, now.Format(time.RFC3339Nano))
	args = append(args, int64(id))

	res, err := s.db.ExecContext(ctx,
		"UPDATE todos SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return schema.Todo{}, fmt.Errorf("update todo: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return schema.Todo{}, fmt.Errorf("update todo rows: %w", err)
	}
	if affected == 0 {
		return schema.Todo{}, schema.ErrTodoNotFound
	}
	return s.Get(ctx, id)
}

// Delete removes a todo and returns the removed record.
func (s *SQLite) Delete(ctx context.Context, id schema.TodoID) (schema.Todo, error) {
	todo, err := s.Get(ctx, id)
	if err != nil {
		return schema.Todo{}, err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, int64(id)); err != nil {
		return schema.Todo{}, fmt.Errorf("delete todo: %w", err)
	}
	return todo, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (schema.Todo, error) {
	var (
		id          int64
		title       string
		description sql.NullString
		createdAt   string
		updatedAt   sql.NullString
	)
	if err := row.Scan(&id, &title, &description, &createdAt, &updatedAt); err != nil {
		return schema.Todo{}, err
	}
	todo := schema.Todo{ID: schema.TodoID(id), Title: title}
	if description.Valid {
		todo.Description = description.String
	}
	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return schema.Todo{}, fmt.Errorf("parse created_at: %w", err)
	}
	todo.CreatedAt = created
	if updatedAt.Valid {
		updated, err := time.Parse(time.RFC3339Nano, updatedAt.String)
		if err != nil {
			return schema.Todo{}, fmt.Errorf("parse updated_at: %w", err)
		}
		todo.UpdatedAt = &updated
	}
	return todo, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
