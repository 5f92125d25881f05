package core

import (
	"time"

	"pkt.systems/todoagent/schema"
)

// History is a bounded, append-only conversation log for one connection.
// When the limit is exceeded the oldest turns are discarded.
type History struct {
	limit int
	turns []schema.ChatTurn
}

// NewHistory constructs a history with the given turn limit.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = schema.DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Append records a turn, trimming to the limit.
func (h *History) Append(role schema.Role, content string) {
	h.turns = append(h.turns, schema.ChatTurn{Role: role, Content: content, At: time.Now()})
	if len(h.turns) > h.limit {
		h.turns = h.turns[len(h.turns)-h.limit:]
	}
}

// Turns returns a copy of the recorded turns in insertion order.
func (h *History) Turns() []schema.ChatTurn {
	return append([]schema.ChatTurn(nil), h.turns...)
}

// Len reports the number of retained turns.
func (h *History) Len() int {
	return len(h.turns)
}
