package core

import (
	"errors"
	"fmt"
)

// ErrSessionBusy is returned when a second turn arrives for a session whose
// previous turn has not completed. Callers should retry after the in-flight
// turn finishes.
var ErrSessionBusy = errors.New("a turn is already in progress for this session")

// ValidationError reports bad action arguments with a field-level reason.
// It is recovered locally: the router surfaces it to the model as a
// correctable action result, state stays untouched.
type ValidationError struct {
	Field   string `json:"field"`
	Value   any    `json:"value,omitempty"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// NewValidationError constructs a ValidationError for a single field.
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ModelError reports a failed model call (timeout, refusal, malformed
// output). The router recovers it with an apologetic terminal reply; it is
// never fatal to the turn.
type ModelError struct {
	Provider string
	Err      error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model call failed (%s): %v", e.Provider, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// PersistenceError reports a checkpoint store I/O failure. The turn that
// observes it is not committed and must be retried by the caller; in-memory
// state is not rolled back.
type PersistenceError struct {
	Op        string
	SessionID string
	Err       error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("checkpoint %s failed for session %s: %v", e.Op, e.SessionID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// LoopGuardError records that the per-turn action-hop guard forced a
// terminal reply. Committed mutations from earlier hops remain persisted.
type LoopGuardError struct {
	Hops int
}

func (e *LoopGuardError) Error() string {
	return fmt.Sprintf("action hop limit reached after %d hops", e.Hops)
}
