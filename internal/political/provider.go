package political

import (
	"context"
	"math"

	"github.com/ballotworks/syncrun/internal/scenario"
	"github.com/ballotworks/syncrun/internal/signal"
)

// Config tunes the risk-contribution formula. The gap divisor scales the
// amendment seat gap into GapCap points; these are configuration because
// the tuning shifted across assessment revisions.
type Config struct {
	GapDivisor      float64 `yaml:"gap_divisor"`
	GapCap          float64 `yaml:"gap_cap"`
	InstabilityMult float64 `yaml:"instability_mult"`
	MaxContribution float64 `yaml:"max_contribution"`
}

// DefaultConfig scales a 362-seat amendment gap into [0,25] and instability
// into [0,10], bounded at 35 total.
func DefaultConfig() Config {
	return Config{
		GapDivisor:      14.48,
		GapCap:          25.0,
		InstabilityMult: 10.0,
		MaxContribution: 35.0,
	}
}

// Provider turns coalition arithmetic into a risk contribution:
// gap-to-amendment-threshold scaled into [0,GapCap] plus
// (1-stability) x InstabilityMult, bounded at MaxContribution.
type Provider struct {
	cfg     Config
	tracker *Tracker
}

// NewProvider wraps a tracker as a contribution provider.
func NewProvider(cfg Config, tracker *Tracker) *Provider {
	return &Provider{cfg: cfg, tracker: tracker}
}

func (p *Provider) Kind() signal.Kind { return signal.Political }

// Evaluate reports the amendment-feasibility risk for the topic.
func (p *Provider) Evaluate(ctx context.Context, topicID string, _ scenario.Input) (signal.Contribution, error) {
	support := p.tracker.Snapshot()

	gapRisk := math.Min(p.cfg.GapCap, float64(support.AmendmentGap)/p.cfg.GapDivisor)
	stabilityRisk := (1 - support.Stability) * p.cfg.InstabilityMult

	total := gapRisk + stabilityRisk
	if total > p.cfg.MaxContribution {
		total = p.cfg.MaxContribution
	}

	return signal.Contribution{
		Kind:   signal.Political,
		Value:  math.Round(total*100) / 100,
		Detail: support,
	}, nil
}
