package client

import "pkt.systems/todoagent/schema"

// TodoList mirrors the server-owned collection. Every Apply replaces
// the whole collection with the snapshot; the client never merges,
// diffs, or patches.
//
// Not safe for concurrent use. Confine it to one event loop.
type TodoList struct {
	todos []schema.Todo
}

// NewTodoList constructs an empty mirror.
func NewTodoList() *TodoList {
	return &TodoList{}
}

// Apply replaces the collection wholesale with the snapshot.
func (l *TodoList) Apply(snapshot []schema.Todo) {
	l.todos = append(l.todos[:0:0], snapshot...)
}

// Todos returns a copy of the mirrored collection in snapshot order.
func (l *TodoList) Todos() []schema.Todo {
	return append([]schema.Todo(nil), l.todos...)
}

// Len reports the collection size.
func (l *TodoList) Len() int {
	return len(l.todos)
}
