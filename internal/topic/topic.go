package topic

import (
	"time"

	"github.com/ballotworks/syncrun/internal/signal"
)

// Status is the derived risk tier for a topic. Boundaries are inclusive on
// the lower bound of each tier.
type Status string

const (
	StatusNormal          Status = "NORMAL"
	StatusWarning         Status = "WARNING"
	StatusHighRisk        Status = "HIGH_RISK"
	StatusCriticalBlocker Status = "CRITICAL_BLOCKER"
)

// StatusFor maps a clamped final risk onto its tier.
func StatusFor(finalRisk float64) Status {
	switch {
	case finalRisk >= 80:
		return StatusCriticalBlocker
	case finalRisk >= 60:
		return StatusHighRisk
	case finalRisk >= 30:
		return StatusWarning
	default:
		return StatusNormal
	}
}

// Definition is the immutable declarative record for one topic: which
// constitutional article it covers, its base risk, and which sub-signals
// apply to it.
type Definition struct {
	ID          string
	Name        string
	Description string
	BaseRisk    float64
	Signals     []signal.Kind
}

// Topic is one evaluated unit of risk analysis. PriorityRank is zero until
// batch ranking assigns it.
type Topic struct {
	ID             string                `json:"id"`
	Name           string                `json:"name"`
	Description    string                `json:"description"`
	BaseRisk       float64               `json:"base_risk"`
	FinalRisk      float64               `json:"final_risk"`
	Status         Status                `json:"status"`
	PriorityRank   int                   `json:"priority_rank,omitempty"`
	PriorityScore  float64               `json:"priority_score,omitempty"`
	Contributions  []signal.Contribution `json:"contributions"`
	Recommendation string                `json:"recommendation"`
	Warnings       []string              `json:"warnings,omitempty"`
	EvaluatedAt    time.Time             `json:"evaluated_at"`
}

// Degraded reports whether any contribution fell back to its deterministic
// estimate because an enrichment source was unavailable.
func (t *Topic) Degraded() bool {
	for _, c := range t.Contributions {
		if c.Degraded {
			return true
		}
	}
	return false
}
