package political

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Seat thresholds for the 543-seat lower house.
const (
	SimpleMajority     = 272
	AmendmentThreshold = 362 // two-thirds majority for constitutional amendments
)

// State reflects the coalition's health, derived purely from seat surplus
// over the simple majority.
type State string

const (
	StateStable     State = "STABLE"     // surplus >= 30
	StateVulnerable State = "VULNERABLE" // surplus >= 5
	StateCritical   State = "CRITICAL"   // surplus >= 0
	StateFractured  State = "FRACTURED"  // below majority
)

// EventKind names the operations that mutate coalition composition.
type EventKind string

const (
	EventDefection  EventKind = "defection"
	EventWithdrawal EventKind = "coalition_withdrawal"
	EventScandal    EventKind = "scandal"
)

// Party is one named bloc with its seat strength and behavioral estimates.
type Party struct {
	Name          string  `json:"name" yaml:"name"`
	Seats         int     `json:"seats" yaml:"seats"`
	DefectionRisk float64 `json:"defection_risk" yaml:"defection_risk"` // 0-1 per period
	Leverage      float64 `json:"leverage" yaml:"leverage"`             // 0-1 bargaining power
}

// EventRecord is one immutable entry of the append-only audit log.
type EventRecord struct {
	ID        string    `json:"id"`
	Kind      EventKind `json:"event"`
	Timestamp time.Time `json:"date"`
	Party     string    `json:"party"`
	SeatDelta int       `json:"seat_change"`
	Reason    string    `json:"reason"`
	Response  string    `json:"response"`
}

// EventRepo persists the audit log. Implementations live in
// internal/persistence.
type EventRepo interface {
	AppendEvent(ctx context.Context, ev EventRecord) error
	ListEvents(ctx context.Context, limit int) ([]EventRecord, error)
}

// Tracker models parliamentary support for the amendment programme. All
// mutations go through Defect, Realign and Scandal, each of which appends an
// event and recomputes derived stability under one lock.
type Tracker struct {
	mu         sync.Mutex
	coalition  map[string]*Party
	opposition map[string]*Party
	// unaligned accumulates seats removed by defections and scandals so
	// they are accounted for rather than vanishing.
	unaligned int
	events    []EventRecord
	stability float64
	now       func() time.Time

	repo    EventRepo
	onEvent func(EventRecord)
}

// Composition is the static starting layout, loaded from configuration.
type Composition struct {
	Coalition  []Party `yaml:"coalition"`
	Opposition []Party `yaml:"opposition"`
}

// DefaultComposition reflects the post-2024 seat distribution the
// assessment is calibrated against.
func DefaultComposition() Composition {
	return Composition{
		Coalition: []Party{
			{Name: "BJP", Seats: 240, DefectionRisk: 0.02, Leverage: 0.80},
			{Name: "TDP", Seats: 16, DefectionRisk: 0.08, Leverage: 0.90},
			{Name: "JD(U)", Seats: 12, DefectionRisk: 0.08, Leverage: 0.85},
			{Name: "Shiv Sena (Shinde)", Seats: 7, DefectionRisk: 0.10, Leverage: 0.75},
			{Name: "Other allies", Seats: 18, DefectionRisk: 0.12, Leverage: 0.60},
		},
		Opposition: []Party{
			{Name: "INC", Seats: 99, DefectionRisk: 0.05, Leverage: 0.60},
			{Name: "Regional bloc", Seats: 135, DefectionRisk: 0.08, Leverage: 0.50},
		},
	}
}

// NewTracker builds a tracker from the given composition. repo and onEvent
// may be nil.
func NewTracker(comp Composition, repo EventRepo, onEvent func(EventRecord)) *Tracker {
	t := &Tracker{
		coalition:  make(map[string]*Party, len(comp.Coalition)),
		opposition: make(map[string]*Party, len(comp.Opposition)),
		now:        time.Now,
		repo:       repo,
		onEvent:    onEvent,
	}
	for _, p := range comp.Coalition {
		cp := p
		t.coalition[p.Name] = &cp
	}
	for _, p := range comp.Opposition {
		op := p
		t.opposition[p.Name] = &op
	}
	t.stability = t.calcStability()
	return t
}

// SetClock overrides the event timestamp source, for tests.
func (t *Tracker) SetClock(now func() time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.now = now
}

// CoalitionSeats returns the coalition's total seat count.
func (t *Tracker) CoalitionSeats() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.coalitionSeatsLocked()
}

// OppositionSeats returns the opposition's total seat count.
func (t *Tracker) OppositionSeats() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.oppositionSeatsLocked()
}

func (t *Tracker) coalitionSeatsLocked() int {
	total := 0
	for _, p := range t.coalition {
		total += p.Seats
	}
	return total
}

func (t *Tracker) oppositionSeatsLocked() int {
	total := 0
	for _, p := range t.opposition {
		total += p.Seats
	}
	return total
}

// Defect removes count seats from a coalition party, clamped to the seats
// the party actually holds. A request that resolves to zero seats is a
// no-op: no event is appended and nil is returned.
func (t *Tracker) Defect(ctx context.Context, partyName string, count int, reason string) (*EventRecord, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	party, ok := t.coalition[partyName]
	if !ok {
		return nil, fmt.Errorf("party %q is not in the coalition", partyName)
	}
	actual := count
	if actual > party.Seats {
		actual = party.Seats
	}
	if actual <= 0 {
		return nil, nil
	}

	party.Seats -= actual
	t.unaligned += actual

	response := "Coalition absorbs defection. Majority maintained."
	if t.isCriticalLocked(partyName) || t.coalitionSeatsLocked() < SimpleMajority {
		response = "Coalition at risk. Government seeking negotiations for support."
	}

	ev := t.appendLocked(ctx, EventRecord{
		Kind:      EventDefection,
		Party:     partyName,
		SeatDelta: -actual,
		Reason:    reason,
		Response:  response,
	})
	return &ev, nil
}

// Realign withdraws a party wholesale from the coalition. If joinOpposition
// is set the party enters the opposition registry with its remaining seats
// intact; otherwise its seats leave the tracked registries.
func (t *Tracker) Realign(ctx context.Context, partyName string, joinOpposition bool, reason string) (*EventRecord, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	party, ok := t.coalition[partyName]
	if !ok {
		return nil, fmt.Errorf("party %q is not in the coalition", partyName)
	}
	delete(t.coalition, partyName)
	if joinOpposition {
		moved := *party
		t.opposition[partyName] = &moved
	} else {
		t.unaligned += party.Seats
	}

	response := "Coalition partner withdraws. "
	if t.coalitionSeatsLocked() >= SimpleMajority {
		response += "Government remains viable."
	} else {
		response += "Government may fall."
	}

	ev := t.appendLocked(ctx, EventRecord{
		Kind:      EventWithdrawal,
		Party:     partyName,
		SeatDelta: -party.Seats,
		Reason:    reason,
		Response:  response,
	})
	return &ev, nil
}

// Scandal removes seats from one party, or spreads the loss pro-rata across
// the whole coalition when partyName is empty.
func (t *Tracker) Scandal(ctx context.Context, partyName string, seatLoss int, reason string) (*EventRecord, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var actual int
	var response string
	affected := partyName

	if partyName != "" {
		party, ok := t.coalition[partyName]
		if !ok {
			return nil, fmt.Errorf("party %q is not in the coalition", partyName)
		}
		actual = seatLoss
		if actual > party.Seats {
			actual = party.Seats
		}
		party.Seats -= actual
		response = fmt.Sprintf("Scandal affects %s. Coalition seeks to manage the fallout.", partyName)
	} else {
		// A fully drained coalition has nothing left to lose; dividing by
		// its zero total would poison every seat count.
		total := t.coalitionSeatsLocked()
		if total > 0 {
			for _, name := range t.coalitionNamesLocked() {
				party := t.coalition[name]
				if party.Seats <= 0 {
					continue
				}
				loss := int(float64(seatLoss) * float64(party.Seats) / float64(total))
				if loss > party.Seats {
					loss = party.Seats
				}
				party.Seats -= loss
				actual += loss
			}
		}
		affected = "COALITION"
		response = "Government-wide credibility hit. Opposition gains from public sentiment."
	}
	t.unaligned += actual

	ev := t.appendLocked(ctx, EventRecord{
		Kind:      EventScandal,
		Party:     affected,
		SeatDelta: -actual,
		Reason:    reason,
		Response:  response,
	})
	return &ev, nil
}

// appendLocked stamps and records an event, recomputes stability, and
// notifies subscribers. Caller holds the lock.
func (t *Tracker) appendLocked(ctx context.Context, ev EventRecord) EventRecord {
	ev.ID = uuid.New().String()
	ev.Timestamp = t.now()
	t.events = append(t.events, ev)
	t.stability = t.calcStability()

	if t.repo != nil {
		if err := t.repo.AppendEvent(ctx, ev); err != nil {
			log.Warn().Err(err).Str("event", string(ev.Kind)).Msg("coalition event not persisted")
		}
	}
	if t.onEvent != nil {
		t.onEvent(ev)
	}
	return ev
}

// Events returns a copy of the audit log, oldest first.
func (t *Tracker) Events() []EventRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]EventRecord, len(t.events))
	copy(out, t.events)
	return out
}

// coalitionNamesLocked returns coalition party names sorted for
// deterministic iteration.
func (t *Tracker) coalitionNamesLocked() []string {
	names := make([]string, 0, len(t.coalition))
	for name := range t.coalition {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// isCriticalLocked reports whether losing the named partner entirely would
// drop the coalition below the simple majority.
func (t *Tracker) isCriticalLocked(partyName string) bool {
	party, ok := t.coalition[partyName]
	if !ok {
		return false
	}
	return t.coalitionSeatsLocked()-party.Seats < SimpleMajority
}

// calcStability scores coalition health in [0,1]: a weighted mix of surplus
// above majority (normalized over 100 seats), a penalty for >50% dependency
// on a single partner, and mean partner leverage. Caller holds the lock.
func (t *Tracker) calcStability() float64 {
	seats := t.coalitionSeatsLocked()
	surplus := float64(seats - SimpleMajority)
	surplusFactor := math.Min(1, math.Max(0, surplus/100))

	dependencyFactor := 1.0
	if seats > 0 {
		largest := 0
		for _, p := range t.coalition {
			if p.Seats > largest {
				largest = p.Seats
			}
		}
		if float64(largest)/float64(seats) >= 0.5 {
			dependencyFactor = 0.5
		}
	}

	leverageFactor := 1.0
	if len(t.coalition) > 0 {
		sum := 0.0
		for _, p := range t.coalition {
			sum += p.Leverage
		}
		leverageFactor = 1 - (sum/float64(len(t.coalition)))*0.3
	}

	stability := surplusFactor*0.4 + dependencyFactor*0.4 + leverageFactor*0.2
	return math.Round(stability*100) / 100
}
