package schema

import (
	"encoding/json"
	"strings"
)

// EnvelopeType is the discriminator for server-to-client envelopes.
type EnvelopeType string

const (
	// EnvelopeThinking opens a response cycle before any token.
	EnvelopeThinking EnvelopeType = "thinking"
	// EnvelopeToken carries one partial text fragment.
	EnvelopeToken EnvelopeType = "token"
	// EnvelopeComplete terminates a cycle with the final answer text.
	EnvelopeComplete EnvelopeType = "complete"
	// EnvelopeTodosUpdate carries a full todo snapshot outside a cycle.
	EnvelopeTodosUpdate EnvelopeType = "todos_update"
	// EnvelopeError terminates a cycle with a human-readable failure.
	EnvelopeError EnvelopeType = "error"
)

// Envelope is the server-to-client message unit. Todos, when present, is
// always the complete ordered collection, never a delta. A nil Todos
// marshals to null (no snapshot); an empty slice marshals to [] and is
// a valid snapshot meaning the collection is empty.
type Envelope struct {
	Type    EnvelopeType `json:"type"`
	Content string       `json:"content,omitempty"`
	Todos   []Todo       `json:"todos"`
}

// Terminal reports whether the envelope ends a request cycle.
func (e Envelope) Terminal() bool {
	return e.Type == EnvelopeComplete || e.Type == EnvelopeError
}

// ChatRequest is the single client-to-server envelope shape.
type ChatRequest struct {
	Message string `json:"message"`
}

// EncodeEnvelope serializes an outbound envelope to a UTF-8 text frame.
func EncodeEnvelope(env Envelope) ([]byte, error) {
	return json.Marshal(env)
}

// DecodeEnvelope parses a transport payload into an envelope. Payloads
// that fail to parse return ErrInvalidEnvelope; payloads without a
// recognized discriminator return ErrUnknownEnvelope. Callers discard
// both with a logged warning rather than surfacing them to session state.
func DecodeEnvelope(payload []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return Envelope{}, ErrInvalidEnvelope
	}
	switch env.Type {
	case EnvelopeThinking, EnvelopeToken, EnvelopeComplete, EnvelopeTodosUpdate, EnvelopeError:
		return env, nil
	default:
		return Envelope{}, ErrUnknownEnvelope
	}
}

// EncodeChatRequest serializes a user utterance for the wire.
func EncodeChatRequest(message string) ([]byte, error) {
	return json.Marshal(ChatRequest{Message: message})
}

// DecodeChatRequest parses an inbound payload. The message is trimmed;
// unparsable payloads return ErrInvalidEnvelope and blank messages
// return ErrEmptyMessage.
func DecodeChatRequest(payload []byte) (ChatRequest, error) {
	var req ChatRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return ChatRequest{}, ErrInvalidEnvelope
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		return ChatRequest{}, ErrEmptyMessage
	}
	return req, nil
}
