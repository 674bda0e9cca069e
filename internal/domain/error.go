package domain

import (
	"errors"
	"strings"
)

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrConflict           = errors.New("concurrent update conflict")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrBadParameter       = errors.New("bad request parameter")
	ErrInvalidExecContext = errors.New("invalid execution context")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrRateLimited        = errors.New("rate limit exceeded")
	ErrUnauthenticated    = errors.New("missing or invalid session")
)

// Message is a localizable, user-visible message: a catalogue key plus its arguments.
type Message struct {
	Key  string
	Args []any
}

// NewMessage builds a Message.
func NewMessage(key string, args ...any) Message {
	return Message{Key: key, Args: args}
}

// ValidationError collects user-visible validation failures. It is returned when a
// submitted form cannot be applied; nothing has been persisted when it is seen.
type ValidationError struct {
	Messages []Message
}

func NewValidationError(key string, args ...any) *ValidationError {
	return &ValidationError{Messages: []Message{NewMessage(key, args...)}}
}

func (e *ValidationError) Add(key string, args ...any) {
	e.Messages = append(e.Messages, NewMessage(key, args...))
}

func (e *ValidationError) Empty() bool { return e == nil || len(e.Messages) == 0 }

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Messages))
	for _, m := range e.Messages {
		keys = append(keys, m.Key)
	}
	return "validation failed: " + strings.Join(keys, ", ")
}

// PermissionError aborts a request the current user is not allowed to perform.
// Title and Summary are catalogue keys shown to the user.
type PermissionError struct {
	Reason  string
	Title   string
	Summary string
}

func (e *PermissionError) Error() string { return "permission denied: " + e.Reason }

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
