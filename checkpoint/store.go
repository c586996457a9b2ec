package checkpoint

import (
	"context"

	"github.com/Blaqadonis/azaman/core"
)

// Store is the durable checkpoint interface used by the turn router.
//
// Contract:
//   - Load never fails on an unknown session id: it returns a fresh default
//     state instead, so the first turn of a session needs no special casing
//   - Save replaces the previous snapshot atomically; loading immediately
//     after a save returns an equal state
//   - Failures are reported as *core.PersistenceError
type Store interface {
	// Load returns the latest snapshot for the session, or a fresh default
	// state when none has been saved yet.
	Load(ctx context.Context, sessionID string) (*core.ConversationState, error)

	// Save replaces the session's snapshot with st.
	Save(ctx context.Context, sessionID string, st *core.ConversationState) error

	// Delete removes the session's snapshot. Deleting an unknown session is
	// not an error.
	Delete(ctx context.Context, sessionID string) error

	// Sessions lists the ids of all persisted sessions.
	Sessions(ctx context.Context) ([]string, error)

	// Close releases underlying resources.
	Close() error
}
