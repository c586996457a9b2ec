package checkpoint

import (
	"context"
	"sort"
	"sync"

	"github.com/Blaqadonis/azaman/core"
)

// InMemoryStore keeps snapshots in a map. It is used in tests and for
// throwaway sessions; nothing survives a restart. Snapshots are deep-copied
// on both save and load so callers never share mutable state with the store.
type InMemoryStore struct {
	mu     sync.RWMutex
	states map[string]*core.ConversationState
}

var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore constructs an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{states: make(map[string]*core.ConversationState)}
}

// Load returns a copy of the session's snapshot, or a fresh default state.
func (s *InMemoryStore) Load(_ context.Context, sessionID string) (*core.ConversationState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.states[sessionID]
	if !ok {
		return core.NewState(""), nil
	}
	return st.Clone(), nil
}

// Save stores a copy of st under the session id.
func (s *InMemoryStore) Save(_ context.Context, sessionID string, st *core.ConversationState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[sessionID] = st.Clone()
	return nil
}

// Delete removes the session's snapshot.
func (s *InMemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, sessionID)
	return nil
}

// Sessions lists persisted session ids in sorted order.
func (s *InMemoryStore) Sessions(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.states))
	for id := range s.states {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Close is a no-op.
func (s *InMemoryStore) Close() error { return nil }
