package client

import (
	"context"
	"errors"
	"testing"

	"pkt.systems/todoagent/core"
	"pkt.systems/todoagent/internal/agent"
	"pkt.systems/todoagent/internal/search"
	"pkt.systems/todoagent/internal/store"
	"pkt.systems/todoagent/schema"
)

func connectedSession(send SendFunc) *Session {
	s := NewSession(send, NewTodoList())
	s.SetConnState(schema.ConnConnected)
	return s
}

func TestSubmitRequiresConnection(t *testing.T) {
	sent := 0
	s := NewSession(func(string) error { sent++; return nil }, nil)

	if err := s.Submit("add milk"); !errors.Is(err, schema.ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
	if sent != 0 || len(s.Turns()) != 0 {
		t.Fatalf("rejected submit must not send or record a turn")
	}
}

func TestSubmitRejectsBlank(t *testing.T) {
	s := connectedSession(func(string) error { t.Fatal("must not send"); return nil })
	if err := s.Submit("   "); !errors.Is(err, schema.ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestSubmitOpensCycleOptimistically(t *testing.T) {
	var sent string
	s := connectedSession(func(msg string) error { sent = msg; return nil })

	if err := s.Submit("  add milk  "); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sent != "add milk" {
		t.Fatalf("expected trimmed send, got %q", sent)
	}
	if s.State() != schema.SessionAwaiting {
		t.Fatalf("expected awaiting, got %q", s.State())
	}
	turns := s.Turns()
	if len(turns) != 1 || turns[0].Role != schema.RoleUser || turns[0].Content != "add milk" {
		t.Fatalf("expected optimistic user turn, got %+v", turns)
	}

	if err := s.Submit("another"); !errors.Is(err, schema.ErrSessionBusy) {
		t.Fatalf("expected ErrSessionBusy while awaiting, got %v", err)
	}
}

func TestSubmitSendFailureRecordsNothing(t *testing.T) {
	boom := errors.New("socket gone")
	s := connectedSession(func(string) error { return boom })

	if err := s.Submit("add milk"); !errors.Is(err, boom) {
		t.Fatalf("expected send error, got %v", err)
	}
	if s.State() != schema.SessionIdle || len(s.Turns()) != 0 {
		t.Fatalf("failed send must leave the session idle and turnless")
	}
}

func TestStreamingBufferConcatenatesTokens(t *testing.T) {
	s := connectedSession(func(string) error { return nil })
	if err := s.Submit("add milk"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	s.Apply(schema.Envelope{Type: schema.EnvelopeThinking, Content: "Processing your request..."})
	if s.State() != schema.SessionStreaming {
		t.Fatalf("expected streaming after thinking, got %q", s.State())
	}
	for _, token := range []string{"Added ", "milk ", "to ", "your ", "list."} {
		s.Apply(schema.Envelope{Type: schema.EnvelopeToken, Content: token})
	}
	if got := s.StreamingBuffer(); got != "Added milk to your list." {
		t.Fatalf("unexpected buffer: %q", got)
	}
}

func TestCompleteUsesEnvelopeContentAndForwardsSnapshot(t *testing.T) {
	s := connectedSession(func(string) error { return nil })
	if err := s.Submit("add milk"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	s.Apply(schema.Envelope{Type: schema.EnvelopeThinking})
	s.Apply(schema.Envelope{Type: schema.EnvelopeToken, Content: "partial "})

	final := "Added \"buy milk\" to your list (ID 1)."
	snapshot := []schema.Todo{{ID: 1, Title: "buy milk"}}
	s.Apply(schema.Envelope{Type: schema.EnvelopeComplete, Content: final, Todos: snapshot})

	if s.State() != schema.SessionIdle {
		t.Fatalf("expected idle after complete, got %q", s.State())
	}
	if s.StreamingBuffer() != "" {
		t.Fatalf("expected cleared buffer, got %q", s.StreamingBuffer())
	}
	turns := s.Turns()
	last := turns[len(turns)-1]
	if last.Role != schema.RoleAssistant || last.Content != final {
		t.Fatalf("expected assistant turn with final content, got %+v", last)
	}
	if s.Todos().Len() != 1 {
		t.Fatalf("expected snapshot forwarded to todo list")
	}
}

func TestErrorEnvelopeRecordsErrorTurn(t *testing.T) {
	s := connectedSession(func(string) error { return nil })
	if err := s.Submit("delete todo 42"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	s.Apply(schema.Envelope{Type: schema.EnvelopeThinking})
	s.Apply(schema.Envelope{Type: schema.EnvelopeError, Content: "I could not find that todo."})

	if s.State() != schema.SessionIdle {
		t.Fatalf("expected idle after error, got %q", s.State())
	}
	turns := s.Turns()
	last := turns[len(turns)-1]
	if last.Role != schema.RoleError {
		t.Fatalf("expected error turn, got %+v", last)
	}
	if s.Todos().Len() != 0 {
		t.Fatalf("error envelope must not touch the collection")
	}
}

func TestTodosUpdateOutsideCycle(t *testing.T) {
	s := connectedSession(func(string) error { return nil })
	s.Apply(schema.Envelope{
		Type:  schema.EnvelopeTodosUpdate,
		Todos: []schema.Todo{{ID: 1, Title: "water the plants"}},
	})
	if s.State() != schema.SessionIdle {
		t.Fatalf("todos_update must not change the cycle state")
	}
	if s.Todos().Len() != 1 {
		t.Fatalf("expected snapshot applied")
	}
	if len(s.Turns()) != 0 {
		t.Fatalf("todos_update must not add turns")
	}
}

func TestStaleEnvelopeAppliedAtFaceValue(t *testing.T) {
	// No request correlation exists, so a terminal envelope arriving
	// while idle still lands in the transcript.
	s := connectedSession(func(string) error { return nil })
	s.Apply(schema.Envelope{Type: schema.EnvelopeComplete, Content: "late answer"})
	turns := s.Turns()
	if len(turns) != 1 || turns[0].Content != "late answer" {
		t.Fatalf("expected stale complete recorded, got %+v", turns)
	}
}

func TestDeleteLastTodoEmptiesMirror(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	if _, err := st.Create(ctx, "buy milk", ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	svc, err := core.NewService(schema.ServiceConfig{}, core.ServiceDeps{Store: st})
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	orch, err := core.NewOrchestrator(schema.ServiceConfig{}, core.OrchestratorDeps{
		Service:  svc,
		Agent:    agent.NewRuleAgent(),
		Searcher: search.NewIndex(st),
	})
	if err != nil {
		t.Fatalf("orchestrator: %v", err)
	}

	s := connectedSession(func(string) error { return nil })
	s.Todos().Apply([]schema.Todo{{ID: 1, Title: "buy milk"}})
	if err := s.Submit("Delete todo 1"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	// Every envelope crosses the wire codec so an elided snapshot key
	// would surface here, not just in direct struct handoff.
	_, err = orch.HandleUtterance(ctx, "Delete todo 1", nil, func(env schema.Envelope) error {
		payload, err := schema.EncodeEnvelope(env)
		if err != nil {
			return err
		}
		decoded, err := schema.DecodeEnvelope(payload)
		if err != nil {
			return err
		}
		s.Apply(decoded)
		return nil
	})
	if err != nil {
		t.Fatalf("handle utterance: %v", err)
	}

	if s.State() != schema.SessionIdle {
		t.Fatalf("expected idle after terminal envelope, got %q", s.State())
	}
	if got := s.Todos().Len(); got != 0 {
		t.Fatalf("client still shows %d todo(s) after deleting the last one", got)
	}
}

func TestConnDropMidCycleReturnsToIdle(t *testing.T) {
	s := connectedSession(func(string) error { return nil })
	if err := s.Submit("add milk"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	s.Apply(schema.Envelope{Type: schema.EnvelopeThinking})
	s.Apply(schema.Envelope{Type: schema.EnvelopeToken, Content: "Add"})

	s.SetConnState(schema.ConnErrored)
	if s.State() != schema.SessionIdle {
		t.Fatalf("expected idle after transport drop, got %q", s.State())
	}
	if s.StreamingBuffer() != "" {
		t.Fatalf("expected abandoned buffer cleared")
	}
}
