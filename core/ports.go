package core

import (
	"context"

	"pkt.systems/todoagent/schema"
)

// Store is the persistence collaborator behind the todo collection.
// Implementations return schema.ErrTodoNotFound for unknown ids and own
// their own transactional consistency; the core only guarantees it
// re-reads a fresh snapshot after every mutation.
type Store interface {
	List(ctx context.Context) ([]schema.Todo, error)
	Get(ctx context.Context, id schema.TodoID) (schema.Todo, error)
	Create(ctx context.Context, title, description string) (schema.Todo, error)
	Update(ctx context.Context, id schema.TodoID, title, description *string) (schema.Todo, error)
	Delete(ctx context.Context, id schema.TodoID) (schema.Todo, error)
}

// Agent is the opaque collaborator that maps an utterance to a decision
// and produces the retrieval flow's synthesized answer.
type Agent interface {
	Decide(ctx context.Context, utterance string, history []schema.ChatTurn) (schema.Decision, error)
	Synthesize(ctx context.Context, utterance string, results []schema.ScoredTodo) (string, error)
}

// Searcher is the semantic lookup collaborator.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]schema.ScoredTodo, error)
}
