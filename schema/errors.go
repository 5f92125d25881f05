package schema

import "errors"

var (
	// ErrTodoNotFound indicates the requested todo id does not exist.
	ErrTodoNotFound = errors.New("todo not found")
	// ErrEmptyTitle indicates a create or update with a blank title.
	ErrEmptyTitle = errors.New("empty title")
	// ErrNoFields indicates an update request with nothing to change.
	ErrNoFields = errors.New("no fields to update")
	// ErrEmptyMessage indicates a chat request with a blank message.
	ErrEmptyMessage = errors.New("empty message")
	// ErrInvalidEnvelope indicates a payload that is not valid JSON.
	ErrInvalidEnvelope = errors.New("invalid envelope")
	// ErrUnknownEnvelope indicates a payload without a recognized type.
	ErrUnknownEnvelope = errors.New("unknown envelope type")
	// ErrNotConnected indicates an operation that requires an open transport.
	ErrNotConnected = errors.New("not connected")
	// ErrSessionBusy indicates a submission while a request cycle is active.
	ErrSessionBusy = errors.New("session busy")
)
