package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pkt.systems/pslog"
	"pkt.systems/todoagent/schema"
)

// EmitFunc delivers one outbound envelope to the transport. An error
// means the connection is gone and the stream must stop.
type EmitFunc func(schema.Envelope) error

// Orchestrator drives the agent collaborator for one utterance at a time
// and turns the outcome into the outbound envelope stream: thinking,
// zero or more tokens in production order, then exactly one terminal
// envelope. Agent, tool, and store failures are converted into a single
// error envelope; they never drop the connection.
type Orchestrator struct {
	cfg      schema.ServiceConfig
	service  Service
	agent    Agent
	searcher Searcher
}

// OrchestratorDeps captures the orchestrator's collaborators.
type OrchestratorDeps struct {
	Service  Service
	Agent    Agent
	Searcher Searcher
}

// NewOrchestrator constructs an orchestrator.
func NewOrchestrator(cfg schema.ServiceConfig, deps OrchestratorDeps) (*Orchestrator, error) {
	normalized, err := schema.NormalizeServiceConfig(cfg)
	if err != nil {
		return nil, err
	}
	if deps.Service == nil {
		return nil, errors.New("service dependency is required")
	}
	if deps.Agent == nil {
		return nil, errors.New("agent dependency is required")
	}
	if deps.Searcher == nil {
		return nil, errors.New("searcher dependency is required")
	}
	return &Orchestrator{
		cfg:      normalized,
		service:  deps.Service,
		agent:    deps.Agent,
		searcher: deps.Searcher,
	}, nil
}

// HandleUtterance runs one request cycle and returns the terminal
// envelope it emitted. The returned error is non-nil only when emit
// failed, i.e. the transport is dead.
func (o *Orchestrator) HandleUtterance(ctx context.Context, utterance string, history []schema.ChatTurn, emit EmitFunc) (schema.Envelope, error) {
	log := pslog.Ctx(ctx)
	if err := emit(schema.Envelope{Type: schema.EnvelopeThinking, Content: "Processing your request..."}); err != nil {
		return schema.Envelope{}, err
	}

	text, mutated, err := o.run(ctx, utterance, history)
	if err != nil {
		log.Warn("agent turn failed", "err", err)
		terminal := schema.Envelope{Type: schema.EnvelopeError, Content: errorText(err)}
		if emitErr := emit(terminal); emitErr != nil {
			return schema.Envelope{}, emitErr
		}
		return terminal, nil
	}

	for _, token := range tokenize(text) {
		if err := emit(schema.Envelope{Type: schema.EnvelopeToken, Content: token}); err != nil {
			return schema.Envelope{}, err
		}
	}

	terminal := schema.Envelope{Type: schema.EnvelopeComplete, Content: text}
	if mutated {
		resp, listErr := o.service.ListTodos(ctx, schema.ListTodosRequest{})
		if listErr != nil {
			log.Error("snapshot re-read failed", "err", listErr)
			terminal = schema.Envelope{Type: schema.EnvelopeError, Content: errorText(listErr)}
		} else {
			terminal.Todos = resp.Todos
		}
	}
	if err := emit(terminal); err != nil {
		return schema.Envelope{}, err
	}
	log.Debug("agent turn complete", "type", terminal.Type, "mutated", mutated)
	return terminal, nil
}

// run executes the selected flow and returns the final answer text and
// whether the store mutated.
func (o *Orchestrator) run(ctx context.Context, utterance string, history []schema.ChatTurn) (string, bool, error) {
	decision, err := o.agent.Decide(ctx, utterance, history)
	if err != nil {
		return "", false, err
	}
	switch decision.Kind {
	case schema.DecisionCreate:
		resp, err := o.service.CreateTodo(ctx, schema.CreateTodoRequest{
			Title:       decision.Title,
			Description: decision.Description,
		})
		if err != nil {
			return "", false, err
		}
		return fmt.Sprintf("Added %q to your list (ID %d).", resp.Todo.Title, resp.Todo.ID), true, nil
	case schema.DecisionList:
		resp, err := o.service.ListTodos(ctx, schema.ListTodosRequest{})
		if err != nil {
			return "", false, err
		}
		return renderList(resp.Todos), false, nil
	case schema.DecisionUpdate:
		req := schema.UpdateTodoRequest{ID: decision.ID}
		if decision.Title != "" {
			req.Title = &decision.Title
		}
		if decision.Description != "" {
			req.Description = &decision.Description
		}
		resp, err := o.service.UpdateTodo(ctx, req)
		if err != nil {
			return "", false, err
		}
		return fmt.Sprintf("Updated todo %d: %q.", resp.Todo.ID, resp.Todo.Title), true, nil
	case schema.DecisionDelete:
		resp, err := o.service.DeleteTodo(ctx, schema.DeleteTodoRequest{ID: decision.ID})
		if err != nil {
			return "", false, err
		}
		return fmt.Sprintf("Deleted todo %d: %q.", resp.ID, resp.Title), true, nil
	case schema.DecisionSearch:
		results, err := o.searcher.Search(ctx, decision.Query, o.cfg.SearchLimit)
		if err != nil {
			return "", false, err
		}
		answer, err := o.agent.Synthesize(ctx, utterance, results)
		if err != nil {
			return "", false, err
		}
		return answer, false, nil
	case schema.DecisionReply:
		return decision.Reply, false, nil
	default:
		return "", false, fmt.Errorf("unsupported decision kind %q", decision.Kind)
	}
}

// tokenize splits the final text into word fragments preserving order;
// joined back together the fragments equal the text.
func tokenize(text string) []string {
	words := strings.Fields(text)
	tokens := make([]string, 0, len(words))
	for i, word := range words {
		if i < len(words)-1 {
			word += " "
		}
		tokens = append(tokens, word)
	}
	return tokens
}

func renderList(todos []schema.Todo) string {
	if len(todos) == 0 {
		return "Your todo list is empty. Would you like to add a task?"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "You have %d todo(s):\n", len(todos))
	for _, todo := range todos {
		fmt.Fprintf(&b, "- [%d] %s", todo.ID, todo.Title)
		if todo.Description != "" {
			fmt.Fprintf(&b, " - %s", todo.Description)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func errorText(err error) string {
	switch {
	case errors.Is(err, schema.ErrTodoNotFound):
		return "I could not find that todo. It may have been deleted already."
	case errors.Is(err, schema.ErrEmptyTitle):
		return "I need a title to create that todo."
	default:
		return fmt.Sprintf("Agent error: %v", err)
	}
}
