package explorer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrUnknownToggle is returned when a toggle id does not exist for a topic.
var ErrUnknownToggle = errors.New("unknown toggle")

// Toggle is one boolean what-if input affecting a single topic's risk.
type Toggle struct {
	ID            string  `json:"toggle_id"`
	Question      string  `json:"question"`
	Description   string  `json:"description"`
	State         bool    `json:"current_state"`
	ImpactIfTrue  float64 `json:"impact_if_true"`
	ImpactIfFalse float64 `json:"impact_if_false"`
}

// Impact returns the toggle's current contribution to topic risk.
func (t Toggle) Impact() float64 {
	if t.State {
		return t.ImpactIfTrue
	}
	return t.ImpactIfFalse
}

// Repo persists toggle states across restarts. Implementations live in
// internal/persistence.
type Repo interface {
	SaveToggle(ctx context.Context, topicID, toggleID string, state bool) error
	LoadToggles(ctx context.Context) (map[string]map[string]bool, error)
}

// Store holds mutable per-topic toggle state. Applications against the same
// topic are serialized by a per-topic mutex so no evaluation ever observes a
// half-applied mutation; unrelated topics do not contend.
type Store struct {
	mu     sync.RWMutex
	topics map[string]*topicState

	repo     Repo
	onChange func(topicID string)
}

type topicState struct {
	mu      sync.Mutex
	toggles []Toggle
}

// NewStore builds the store from the fixed toggle table. repo may be nil
// (no durability); onChange may be nil (no cache to invalidate).
func NewStore(repo Repo, onChange func(topicID string)) *Store {
	s := &Store{
		topics:   make(map[string]*topicState),
		repo:     repo,
		onChange: onChange,
	}
	for topicID, toggles := range defaultToggles() {
		s.topics[topicID] = &topicState{toggles: toggles}
	}
	return s
}

// SetOnChange installs the invalidation hook after construction. The engine
// owns the cache, and the store is built before the engine, so the hook is
// wired late.
func (s *Store) SetOnChange(fn func(topicID string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Restore loads persisted states into the store. Called once at startup,
// before the store is shared.
func (s *Store) Restore(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	saved, err := s.repo.LoadToggles(ctx)
	if err != nil {
		return fmt.Errorf("load toggle states: %w", err)
	}
	for topicID, states := range saved {
		ts, ok := s.topics[topicID]
		if !ok {
			continue
		}
		ts.mu.Lock()
		for i := range ts.toggles {
			if st, ok := states[ts.toggles[i].ID]; ok {
				ts.toggles[i].State = st
			}
		}
		ts.mu.Unlock()
	}
	return nil
}

// Toggles returns a copy of the topic's toggles, or nil for topics without
// any.
func (s *Store) Toggles(topicID string) []Toggle {
	s.mu.RLock()
	ts, ok := s.topics[topicID]
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	ts.mu.Lock()
	defer ts.mu.Unlock()
	out := make([]Toggle, len(ts.toggles))
	copy(out, ts.toggles)
	return out
}

// Apply mutates a toggle's state and returns the contribution value the
// what-if provider will produce on the next evaluation. The mutation
// invalidates any memoized result for the topic before returning.
func (s *Store) Apply(ctx context.Context, topicID, toggleID string, newState bool) (float64, error) {
	s.mu.RLock()
	ts, ok := s.topics[topicID]
	s.mu.RUnlock()
	if !ok {
		return 0, fmt.Errorf("%w: topic %s has no toggles", ErrUnknownToggle, topicID)
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()

	for i := range ts.toggles {
		if ts.toggles[i].ID != toggleID {
			continue
		}
		ts.toggles[i].State = newState
		delta := ts.toggles[i].Impact()

		if s.repo != nil {
			if err := s.repo.SaveToggle(ctx, topicID, toggleID, newState); err != nil {
				// Persistence is best-effort; in-memory state is authoritative.
				log.Warn().Err(err).Str("topic", topicID).Str("toggle", toggleID).
					Msg("toggle state not persisted")
			}
		}
		if s.onChange != nil {
			s.onChange(topicID)
		}
		return delta, nil
	}
	return 0, fmt.Errorf("%w: %s/%s", ErrUnknownToggle, topicID, toggleID)
}

// CurrentImpact sums the active impact of every toggle on the topic.
func (s *Store) CurrentImpact(topicID string) float64 {
	s.mu.RLock()
	ts, ok := s.topics[topicID]
	s.mu.RUnlock()
	if !ok {
		return 0
	}
	ts.mu.Lock()
	defer ts.mu.Unlock()
	total := 0.0
	for _, t := range ts.toggles {
		total += t.Impact()
	}
	return total
}

// defaultToggles is the fixed what-if table per topic.
func defaultToggles() map[string][]Toggle {
	return map[string][]Toggle{
		"article-82": {{
			ID:            "census_sync",
			Question:      "Is a census synchronization mechanism implemented?",
			Description:   "Synchronizing census readjustment with the unified cycle removes most reallocation risk.",
			ImpactIfTrue:  -35.0,
			ImpactIfFalse: 5.0,
		}},
		"article-83": {{
			ID:            "co_terminus",
			Question:      "Is a co-terminus provision implemented?",
			Description:   "A co-terminus provision makes the lower house and state assemblies expire together.",
			ImpactIfTrue:  -40.0,
			ImpactIfFalse: 10.0,
		}},
		"article-85": {{
			ID:            "simultaneous_dissolution",
			Question:      "Is a simultaneous dissolution protocol defined?",
			Description:   "Protocol for dissolving the lower house and state assemblies at the same time.",
			ImpactIfTrue:  -30.0,
			ImpactIfFalse: 7.0,
		}},
		"article-172": {{
			ID:            "state_sync",
			Question:      "Is state assembly synchronization completed?",
			Description:   "All 28 state assemblies synchronized to a common expiry date.",
			ImpactIfTrue:  -40.0,
			ImpactIfFalse: 12.0,
		}},
		"article-174": {{
			ID:            "governor_restriction",
			Question:      "Are gubernatorial dissolution powers restricted during the cycle?",
			Description:   "Constitutional safeguard preventing arbitrary dissolution by governors.",
			ImpactIfTrue:  -35.0,
			ImpactIfFalse: 9.0,
		}},
		"article-356": {{
			ID:            "presidents_rule_procedure",
			Question:      "Is the President's Rule election procedure defined?",
			Description:   "Procedure for conducting elections in states under President's Rule during the cycle.",
			ImpactIfTrue:  -60.0,
			ImpactIfFalse: 5.0,
		}},
	}
}
