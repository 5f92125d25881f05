package client

import (
	"strings"
	"time"

	"pkt.systems/todoagent/schema"
)

// SendFunc delivers one encoded utterance to the transport.
type SendFunc func(message string) error

// Session is the client-side request cycle state machine. One request
// may be outstanding at a time; Submit is rejected while a cycle runs.
// Envelopes are applied at face value: the protocol carries no request
// correlation identifier, so a stale post-reconnect envelope is
// indistinguishable from a fresh one and is processed like any other.
//
// Not safe for concurrent use. Confine it to one event loop.
type Session struct {
	send      SendFunc
	todos     *TodoList
	connState schema.ConnState
	state     schema.SessionState
	buffer    strings.Builder
	turns     []schema.ChatTurn
}

// NewSession constructs an idle session bound to a transport send
// function and a todo synchronizer.
func NewSession(send SendFunc, todos *TodoList) *Session {
	if todos == nil {
		todos = NewTodoList()
	}
	return &Session{
		send:      send,
		todos:     todos,
		connState: schema.ConnDisconnected,
		state:     schema.SessionIdle,
	}
}

// State returns the current request cycle state.
func (s *Session) State() schema.SessionState {
	return s.state
}

// ConnState returns the last observed transport state.
func (s *Session) ConnState() schema.ConnState {
	return s.connState
}

// Todos returns the synchronizer holding the mirrored collection.
func (s *Session) Todos() *TodoList {
	return s.todos
}

// StreamingBuffer returns the provisional text accumulated from token
// envelopes in the current cycle.
func (s *Session) StreamingBuffer() string {
	return s.buffer.String()
}

// Turns returns a copy of the transcript in insertion order.
func (s *Session) Turns() []schema.ChatTurn {
	return append([]schema.ChatTurn(nil), s.turns...)
}

// SetConnState records a transport state transition. A drop mid-cycle
// returns the session to idle; the interrupted response is abandoned.
func (s *Session) SetConnState(state schema.ConnState) {
	s.connState = state
	if state != schema.ConnConnected && s.state != schema.SessionIdle {
		s.buffer.Reset()
		s.state = schema.SessionIdle
	}
}

// Submit sends one utterance and opens a request cycle. The user turn
// is recorded optimistically, before any server acknowledgement.
func (s *Session) Submit(message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return schema.ErrEmptyMessage
	}
	if s.state != schema.SessionIdle {
		return schema.ErrSessionBusy
	}
	if s.connState != schema.ConnConnected {
		return schema.ErrNotConnected
	}
	if err := s.send(message); err != nil {
		return err
	}
	s.appendTurn(schema.RoleUser, message)
	s.state = schema.SessionAwaiting
	return nil
}

// Apply folds one server envelope into session state.
func (s *Session) Apply(env schema.Envelope) {
	switch env.Type {
	case schema.EnvelopeThinking:
		s.buffer.Reset()
		s.state = schema.SessionStreaming
	case schema.EnvelopeToken:
		s.buffer.WriteString(env.Content)
	case schema.EnvelopeComplete:
		// The final content replaces the provisional buffer.
		s.appendTurn(schema.RoleAssistant, env.Content)
		s.buffer.Reset()
		if env.Todos != nil {
			s.todos.Apply(env.Todos)
		}
		s.state = schema.SessionIdle
	case schema.EnvelopeError:
		s.appendTurn(schema.RoleError, env.Content)
		s.buffer.Reset()
		s.state = schema.SessionIdle
	case schema.EnvelopeTodosUpdate:
		if env.Todos != nil {
			s.todos.Apply(env.Todos)
		}
	}
}

func (s *Session) appendTurn(role schema.Role, content string) {
	s.turns = append(s.turns, schema.ChatTurn{Role: role, Content: content, At: time.Now()})
}
