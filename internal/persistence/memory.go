package persistence

import (
	"context"
	"sync"

	"github.com/ballotworks/syncrun/internal/political"
)

// MemoryStore keeps toggle states and the coalition event log in process.
// It is the default when no database DSN is configured; durability is then
// limited to the process lifetime, which the engine treats as acceptable
// degradation rather than an error.
type MemoryStore struct {
	mu      sync.Mutex
	toggles map[string]map[string]bool
	events  []political.EventRecord
}

// NewMemoryStore builds an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{toggles: make(map[string]map[string]bool)}
}

// SaveToggle records a toggle state.
func (s *MemoryStore) SaveToggle(_ context.Context, topicID, toggleID string, state bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.toggles[topicID] == nil {
		s.toggles[topicID] = make(map[string]bool)
	}
	s.toggles[topicID][toggleID] = state
	return nil
}

// LoadToggles returns all recorded toggle states.
func (s *MemoryStore) LoadToggles(_ context.Context) (map[string]map[string]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]map[string]bool, len(s.toggles))
	for topicID, states := range s.toggles {
		cp := make(map[string]bool, len(states))
		for k, v := range states {
			cp[k] = v
		}
		out[topicID] = cp
	}
	return out, nil
}

// AppendEvent records a coalition event.
func (s *MemoryStore) AppendEvent(_ context.Context, ev political.EventRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

// ListEvents returns the most recent events, newest first.
func (s *MemoryStore) ListEvents(_ context.Context, limit int) ([]political.EventRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.events)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]political.EventRecord, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.events[i])
	}
	return out, nil
}
