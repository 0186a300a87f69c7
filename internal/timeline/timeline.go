package timeline

import (
	"context"
	"fmt"
	"math"

	"github.com/ballotworks/syncrun/internal/scenario"
	"github.com/ballotworks/syncrun/internal/signal"
)

// Detail reports the feasibility arithmetic behind the contribution.
type Detail struct {
	MonthsNeeded    int     `json:"months_needed"`
	MonthsAvailable int     `json:"months_available"`
	TargetYear      int     `json:"target_year"`
	Feasible        bool    `json:"feasible"`
	RiskImpact      float64 `json:"risk_impact"`
	Analysis        string  `json:"analysis"`
}

// Config tunes the shortfall scaling. PointsPerMonth converts shortfall
// months into risk points; MaxImpact caps the contribution.
type Config struct {
	PointsPerMonth float64 `yaml:"points_per_month"`
	MaxImpact      float64 `yaml:"max_impact"`
}

// DefaultConfig matches the committee tuning: two points per shortfall
// month, capped at ten.
func DefaultConfig() Config {
	return Config{PointsPerMonth: 2.0, MaxImpact: 10.0}
}

// Provider assesses whether each topic's amendment can be completed before
// its deadline. Complexity is a fixed per-topic table of months; the window
// comes from the scenario.
type Provider struct {
	cfg          Config
	monthsNeeded map[string]int
	targetYears  map[string]int
}

// NewProvider builds the provider from the fixed complexity tables.
func NewProvider(cfg Config) *Provider {
	return &Provider{
		cfg: cfg,
		monthsNeeded: map[string]int{
			"article-82":  8,
			"article-83":  12,
			"article-85":  6,
			"article-172": 15, // requires state ratification
			"article-174": 6,
			"article-356": 12,
		},
		targetYears: map[string]int{
			"article-82":  2031,
			"article-83":  2027,
			"article-85":  2029,
			"article-172": 2027,
			"article-174": 2029,
			"article-356": 2027,
		},
	}
}

func (p *Provider) Kind() signal.Kind { return signal.Timeline }

// Evaluate computes the shortfall-proportional contribution. A constrained
// supply ratio stretches the months needed: half supply roughly doubles the
// procurement-bound phases.
func (p *Provider) Evaluate(ctx context.Context, topicID string, scn scenario.Input) (signal.Contribution, error) {
	needed, ok := p.monthsNeeded[topicID]
	if !ok {
		needed = 12
	}
	target, ok := p.targetYears[topicID]
	if !ok {
		target = scn.TargetYear
	}
	// The caller's target year only tightens a deadline, never relaxes the
	// per-topic constitutional one.
	if scn.TargetYear != 0 && scn.TargetYear < target {
		target = scn.TargetYear
	}

	if scn.SupplyRatio > 0 && scn.SupplyRatio < 100 {
		needed = int(math.Ceil(float64(needed) * 100.0 / scn.SupplyRatio))
	}

	available := (target-scenario.AnchorYear)*12 - scenario.AnchorMonth
	feasible := available >= needed

	var impact float64
	var analysis string
	if feasible {
		analysis = fmt.Sprintf("Amendment can be completed with %d months of buffer before the deadline.", available-needed)
	} else {
		shortfall := needed - available
		impact = math.Min(float64(shortfall)*p.cfg.PointsPerMonth, p.cfg.MaxImpact)
		analysis = fmt.Sprintf("Amendment requires %d months but only %d are available. Shortfall of %d months.",
			needed, available, shortfall)
	}

	return signal.Contribution{
		Kind:  signal.Timeline,
		Value: impact,
		Detail: Detail{
			MonthsNeeded:    needed,
			MonthsAvailable: available,
			TargetYear:      target,
			Feasible:        feasible,
			RiskImpact:      impact,
			Analysis:        analysis,
		},
	}, nil
}
