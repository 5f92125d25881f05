package logx

import (
	"context"

	"pkt.systems/pslog"
	"pkt.systems/todoagent/schema"
)

type contextKey int

const (
	connKey contextKey = iota
	todoKey
)

// Ctx returns the logger bound to the provided context.
func Ctx(ctx context.Context) pslog.Logger {
	return pslog.Ctx(ctx)
}

// WithConn annotates the logger with the connection id if present.
func WithConn(ctx context.Context, connID string) pslog.Logger {
	log := pslog.Ctx(ctx)
	if connID != "" {
		if current, ok := ctx.Value(connKey).(string); ok && current == connID {
			return log
		}
		log = log.With("conn", connID)
	}
	return log
}

// WithTodo annotates the logger with a todo id when available.
func WithTodo(ctx context.Context, id schema.TodoID) pslog.Logger {
	log := pslog.Ctx(ctx)
	if id != 0 {
		if current, ok := ctx.Value(todoKey).(schema.TodoID); ok && current == id {
			return log
		}
		log = log.With("todo", int64(id))
	}
	return log
}

// ContextWithConn stores the connection marker on the context for log
// de-duplication.
func ContextWithConn(ctx context.Context, connID string) context.Context {
	if ctx == nil || connID == "" {
		return ctx
	}
	return context.WithValue(ctx, connKey, connID)
}

// ContextWithTodo stores the todo marker on the context for log
// de-duplication.
func ContextWithTodo(ctx context.Context, id schema.TodoID) context.Context {
	if ctx == nil || id == 0 {
		return ctx
	}
	return context.WithValue(ctx, todoKey, id)
}

// ContextWithConnLogger attaches the logger and connection marker to the
// context.
func ContextWithConnLogger(ctx context.Context, log pslog.Logger, connID string) context.Context {
	ctx = pslog.ContextWithLogger(ctx, log)
	return ContextWithConn(ctx, connID)
}
