package core

import (
	"context"

	"pkt.systems/todoagent/schema"
)

// Service is the transport-agnostic API over the todo store. Both the
// REST surface and the orchestrator's tool execution go through it.
type Service interface {
	ListTodos(ctx context.Context, req schema.ListTodosRequest) (schema.ListTodosResponse, error)
	GetTodo(ctx context.Context, req schema.GetTodoRequest) (schema.GetTodoResponse, error)
	CreateTodo(ctx context.Context, req schema.CreateTodoRequest) (schema.CreateTodoResponse, error)
	UpdateTodo(ctx context.Context, req schema.UpdateTodoRequest) (schema.UpdateTodoResponse, error)
	DeleteTodo(ctx context.Context, req schema.DeleteTodoRequest) (schema.DeleteTodoResponse, error)
}
