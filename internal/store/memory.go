// Package store provides the persistence implementations behind the
// core todo store interface: an in-memory map for tests and db-less
// runs, and a SQLite file for everything else. Both list oldest-first
// so a fresh create is always the snapshot's last element.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"pkt.systems/todoagent/schema"
)

// Memory is an in-memory todo store.
type Memory struct {
	mu     sync.Mutex
	nextID schema.TodoID
	todos  map[schema.TodoID]schema.Todo
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{nextID: 1, todos: make(map[schema.TodoID]schema.Todo)}
}

// List returns all todos ordered by creation time, then id.
func (m *Memory) List(_ context.Context) ([]schema.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	todos := make([]schema.Todo, 0, len(m.todos))
	for _, todo := range m.todos {
		todos = append(todos, todo)
	}
	sort.Slice(todos, func(i, j int) bool {
		if !todos[i].CreatedAt.Equal(todos[j].CreatedAt) {
			return todos[i].CreatedAt.Before(todos[j].CreatedAt)
		}
		return todos[i].ID < todos[j].ID
	})
	return todos, nil
}

// Get returns one todo by id.
func (m *Memory) Get(_ context.Context, id schema.TodoID) (schema.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	todo, ok := m.todos[id]
	if !ok {
		return schema.Todo{}, schema.ErrTodoNotFound
	}
	return todo, nil
}

// Create adds a todo and assigns the next id.
func (m *Memory) Create(_ context.Context, title, description string) (schema.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	todo := schema.Todo{
		ID:          m.nextID,
		Title:       title,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	m.nextID++
	m.todos[todo.ID] = todo
	return todo, nil
}

// Update modifies the provided fields of an existing todo.
func (m *Memory) Update(_ context.Context, id schema.TodoID, title, description *string) (schema.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	todo, ok := m.todos[id]
	if !ok {
		return schema.Todo{}, schema.ErrTodoNotFound
	}
	if title != nil {
		todo.Title = *title
	}
	if description != nil {
		todo.Description = *description
	}
	now := time.Now().UTC()
	todo.UpdatedAt = &now
	m.todos[id] = todo
	return todo, nil
}

// Delete removes a todo and returns the removed record.
func (m *Memory) Delete(_ context.Context, id schema.TodoID) (schema.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	todo, ok := m.todos[id]
	if !ok {
		return schema.Todo{}, schema.ErrTodoNotFound
	}
	delete(m.todos, id)
	return todo, nil
}
