package schema

import "time"

// TodoID identifies a todo record. IDs are server-assigned and stable.
type TodoID int64

// Todo is a task record owned by the server-side store. Clients hold a
// read-only projection and never originate todo data.
type Todo struct {
	ID          TodoID     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// Role classifies a chat turn.
type Role string

const (
	// RoleUser marks a turn authored by the user.
	RoleUser Role = "user"
	// RoleAssistant marks a turn authored by the agent.
	RoleAssistant Role = "assistant"
	// RoleError marks a turn carrying an agent-side failure.
	RoleError Role = "error"
)

// ChatTurn is one immutable entry in a conversation. Insertion order is
// significant and preserved.
type ChatTurn struct {
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// ScoredTodo pairs a todo with a search relevance score in [0,1].
type ScoredTodo struct {
	Todo  Todo    `json:"todo"`
	Score float64 `json:"score"`
}

// DecisionKind names the action the agent collaborator selected.
type DecisionKind string

const (
	// DecisionCreate adds a todo.
	DecisionCreate DecisionKind = "create"
	// DecisionList reads the full todo list.
	DecisionList DecisionKind = "list"
	// DecisionUpdate modifies an existing todo.
	DecisionUpdate DecisionKind = "update"
	// DecisionDelete removes an existing todo.
	DecisionDelete DecisionKind = "delete"
	// DecisionSearch runs a semantic lookup followed by a synthesis call.
	DecisionSearch DecisionKind = "search"
	// DecisionReply answers directly without touching the store.
	DecisionReply DecisionKind = "reply"
)

// Decision is the agent collaborator's verdict for one utterance.
// Only the fields relevant to Kind are populated.
type Decision struct {
	Kind        DecisionKind
	Title       string
	Description string
	ID          TodoID
	Query       string
	Reply       string
}

// ConnState describes the client transport state.
type ConnState string

const (
	// ConnDisconnected means no transport is open and none is pending.
	ConnDisconnected ConnState = "disconnected"
	// ConnConnecting means a dial or scheduled reconnect is in flight.
	ConnConnecting ConnState = "connecting"
	// ConnConnected means the transport is open.
	ConnConnected ConnState = "connected"
	// ConnErrored means the transport failed and a reconnect may follow.
	ConnErrored ConnState = "errored"
)

// SessionState describes the client request cycle.
type SessionState string

const (
	// SessionIdle accepts new submissions.
	SessionIdle SessionState = "idle"
	// SessionAwaiting has sent an utterance and waits for the stream to open.
	SessionAwaiting SessionState = "awaiting"
	// SessionStreaming is receiving token envelopes.
	SessionStreaming SessionState = "streaming"
)
