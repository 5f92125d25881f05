package core_test

import (
	"context"
	"errors"
	"testing"

	"pkt.systems/todoagent/core"
	"pkt.systems/todoagent/internal/store"
	"pkt.systems/todoagent/schema"
)

func newService(t *testing.T) core.Service {
	t.Helper()
	svc, err := core.NewService(schema.ServiceConfig{}, core.ServiceDeps{Store: store.NewMemory()})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestServiceCreateNormalizesTitle(t *testing.T) {
	svc := newService(t)
	resp, err := svc.CreateTodo(context.Background(), schema.CreateTodoRequest{Title: "  buy milk  "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.Todo.Title != "buy milk" {
		t.Fatalf("expected trimmed title, got %q", resp.Todo.Title)
	}
}

func TestServiceCreateRejectsBlankTitle(t *testing.T) {
	svc := newService(t)
	if _, err := svc.CreateTodo(context.Background(), schema.CreateTodoRequest{Title: "   "}); !errors.Is(err, schema.ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
}

func TestServiceUpdateRequiresFields(t *testing.T) {
	svc := newService(t)
	resp, err := svc.CreateTodo(context.Background(), schema.CreateTodoRequest{Title: "buy milk"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.UpdateTodo(context.Background(), schema.UpdateTodoRequest{ID: resp.Todo.ID}); !errors.Is(err, schema.ErrNoFields) {
		t.Fatalf("expected ErrNoFields, got %v", err)
	}
}

func TestServiceDeleteUnknown(t *testing.T) {
	svc := newService(t)
	if _, err := svc.DeleteTodo(context.Background(), schema.DeleteTodoRequest{ID: 99}); !errors.Is(err, schema.ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound, got %v", err)
	}
}
