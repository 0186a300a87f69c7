package political

import (
	"math"
	"sort"
)

// Support is the full seat-arithmetic snapshot the HTTP layer and the
// provider report.
type Support struct {
	CoalitionSeats  int     `json:"coalition_seats"`
	OppositionSeats int     `json:"opposition_seats"`
	UnalignedSeats  int     `json:"unaligned_seats"`
	TotalSeats      int     `json:"total_seats"`
	SupportPercent  float64 `json:"support_percent"`

	SimpleMajorityThreshold int  `json:"simple_majority_threshold"`
	SimpleMajorityGap       int  `json:"simple_majority_gap"`
	HasSimpleMajority       bool `json:"has_simple_majority"`

	AmendmentThreshold int  `json:"amendment_threshold"`
	AmendmentGap       int  `json:"amendment_support_gap"`
	CanAmend           bool `json:"can_amend_constitution"`

	State            State          `json:"coalition_state"`
	Stability        float64        `json:"stability_score"`
	CriticalPartners []string       `json:"critical_partners,omitempty"`
	Coalition        map[string]int `json:"coalition_breakdown"`
	Opposition       map[string]int `json:"opposition_breakdown"`
}

// Snapshot computes the current support metrics under one lock acquisition,
// so no half-applied mutation is ever observed.
func (t *Tracker) Snapshot() Support {
	t.mu.Lock()
	defer t.mu.Unlock()

	coalition := t.coalitionSeatsLocked()
	opposition := t.oppositionSeatsLocked()
	total := coalition + opposition + t.unaligned

	s := Support{
		CoalitionSeats:          coalition,
		OppositionSeats:         opposition,
		UnalignedSeats:          t.unaligned,
		TotalSeats:              total,
		SimpleMajorityThreshold: SimpleMajority,
		SimpleMajorityGap:       max(0, SimpleMajority-coalition),
		HasSimpleMajority:       coalition >= SimpleMajority,
		AmendmentThreshold:      AmendmentThreshold,
		AmendmentGap:            max(0, AmendmentThreshold-coalition),
		CanAmend:                coalition >= AmendmentThreshold,
		State:                   stateFor(coalition - SimpleMajority),
		Stability:               t.stability,
		Coalition:               make(map[string]int, len(t.coalition)),
		Opposition:              make(map[string]int, len(t.opposition)),
	}
	if total > 0 {
		s.SupportPercent = math.Round(float64(coalition)/float64(total)*1000) / 10
	}

	for name, p := range t.coalition {
		s.Coalition[name] = p.Seats
		if coalition-p.Seats < SimpleMajority {
			s.CriticalPartners = append(s.CriticalPartners, name)
		}
	}
	sort.Strings(s.CriticalPartners)
	for name, p := range t.opposition {
		s.Opposition[name] = p.Seats
	}
	return s
}

// stateFor maps seat surplus over the simple majority onto a coalition
// state. Boundaries are inclusive on the lower bound.
func stateFor(surplus int) State {
	switch {
	case surplus >= 30:
		return StateStable
	case surplus >= 5:
		return StateVulnerable
	case surplus >= 0:
		return StateCritical
	default:
		return StateFractured
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
