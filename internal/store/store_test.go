package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"pkt.systems/todoagent/core"
	"pkt.systems/todoagent/schema"
)

func TestMemoryStoreCRUD(t *testing.T) {
	runStoreCRUD(t, NewMemory())
}

func TestSQLiteStoreCRUD(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "todos.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer func() { _ = s.Close() }()
	runStoreCRUD(t, s)
}

func runStoreCRUD(t *testing.T, s core.Store) {
	t.Helper()
	ctx := context.Background()

	first, err := s.Create(ctx, "buy milk", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if first.UpdatedAt != nil {
		t.Fatalf("updated_at must be nil on create")
	}

	second, err := s.Create(ctx, "study for exam", "calculus midterm")
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	todos, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(todos) != 2 {
		t.Fatalf("expected 2 todos, got %d", len(todos))
	}
	if todos[len(todos)-1].ID != second.ID {
		t.Fatalf("expected newest todo last, got %+v", todos)
	}

	got, err := s.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "buy milk" {
		t.Fatalf("unexpected title %q", got.Title)
	}

	newTitle := "buy oat milk"
	updated, err := s.Update(ctx, first.ID, &newTitle, nil)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != newTitle {
		t.Fatalf("title not updated: %q", updated.Title)
	}
	if updated.UpdatedAt == nil {
		t.Fatalf("expected updated_at set after update")
	}
	if updated.Description != "" {
		t.Fatalf("description changed unexpectedly: %q", updated.Description)
	}

	deleted, err := s.Delete(ctx, second.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.Title != "study for exam" {
		t.Fatalf("unexpected deleted record: %+v", deleted)
	}

	todos, err = s.List(ctx)
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(todos) != 1 {
		t.Fatalf("expected 1 todo after delete, got %d", len(todos))
	}
}

func TestStoreNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	if _, err := s.Get(ctx, 42); !errors.Is(err, schema.ErrTodoNotFound) {
		t.Fatalf("get: expected ErrTodoNotFound, got %v", err)
	}
	title := "x"
	if _, err := s.Update(ctx, 42, &title, nil); !errors.Is(err, schema.ErrTodoNotFound) {
		t.Fatalf("update: expected ErrTodoNotFound, got %v", err)
	}
	if _, err := s.Delete(ctx, 42); !errors.Is(err, schema.ErrTodoNotFound) {
		t.Fatalf("delete: expected ErrTodoNotFound, got %v", err)
	}
}
