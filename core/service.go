package core

import (
	"context"
	"errors"

	"pkt.systems/pslog"
	"pkt.systems/todoagent/internal/logx"
	"pkt.systems/todoagent/schema"
)

// ServiceDeps captures dependencies required to build the service.
type ServiceDeps struct {
	Store  Store
	Logger pslog.Logger
}

// NewService constructs the todo service.
func NewService(cfg schema.ServiceConfig, deps ServiceDeps) (Service, error) {
	normalized, err := schema.NormalizeServiceConfig(cfg)
	if err != nil {
		return nil, err
	}
	if deps.Store == nil {
		return nil, errors.New("store dependency is required")
	}
	return &service{cfg: normalized, store: deps.Store}, nil
}

type service struct {
	cfg   schema.ServiceConfig
	store Store
}

func (s *service) ListTodos(ctx context.Context, _ schema.ListTodosRequest) (schema.ListTodosResponse, error) {
	todos, err := s.store.List(ctx)
	if err != nil {
		return schema.ListTodosResponse{}, err
	}
	return schema.ListTodosResponse{Todos: todos}, nil
}

func (s *service) GetTodo(ctx context.Context, req schema.GetTodoRequest) (schema.GetTodoResponse, error) {
	todo, err := s.store.Get(ctx, req.ID)
	if err != nil {
		return schema.GetTodoResponse{}, err
	}
	return schema.GetTodoResponse{Todo: todo}, nil
}

func (s *service) CreateTodo(ctx context.Context, req schema.CreateTodoRequest) (schema.CreateTodoResponse, error) {
	title, err := schema.NormalizeTitle(req.Title)
	if err != nil {
		return schema.CreateTodoResponse{}, err
	}
	todo, err := s.store.Create(ctx, title, schema.NormalizeDescription(req.Description))
	if err != nil {
		return schema.CreateTodoResponse{}, err
	}
	logx.WithTodo(ctx, todo.ID).Info("todo created", "title", todo.Title)
	return schema.CreateTodoResponse{Todo: todo}, nil
}

func (s *service) UpdateTodo(ctx context.Context, req schema.UpdateTodoRequest) (schema.UpdateTodoResponse, error) {
	if req.Title == nil && req.Description == nil {
		return schema.UpdateTodoResponse{}, schema.ErrNoFields
	}
	if req.Title != nil {
		title, err := schema.NormalizeTitle(*req.Title)
		if err != nil {
			return schema.UpdateTodoResponse{}, err
		}
		req.Title = &title
	}
	if req.Description != nil {
		desc := schema.NormalizeDescription(*req.Description)
		req.Description = &desc
	}
	todo, err := s.store.Update(ctx, req.ID, req.Title, req.Description)
	if err != nil {
		return schema.UpdateTodoResponse{}, err
	}
	logx.WithTodo(ctx, todo.ID).Info("todo updated")
	return schema.UpdateTodoResponse{Todo: todo}, nil
}

func (s *service) DeleteTodo(ctx context.Context, req schema.DeleteTodoRequest) (schema.DeleteTodoResponse, error) {
	todo, err := s.store.Delete(ctx, req.ID)
	if err != nil {
		return schema.DeleteTodoResponse{}, err
	}
	logx.WithTodo(ctx, todo.ID).Info("todo deleted", "title", todo.Title)
	return schema.DeleteTodoResponse{ID: todo.ID, Title: todo.Title}, nil
}
