package montecarlo

import (
	"context"
	"math"
	"sort"

	"github.com/ballotworks/syncrun/internal/scenario"
	"github.com/ballotworks/syncrun/internal/signal"
)

// Result summarizes the empirical distribution of one simulation run.
type Result struct {
	Trials      int        `json:"trials"`
	Mean        float64    `json:"mean"`
	StdDev      float64    `json:"std_dev"`
	CI95        [2]float64 `json:"confidence_interval_95"`
	ExceedHigh  float64    `json:"p_exceed_high_risk"` // mass above the HIGH_RISK tier boundary
	RiskWeight  float64    `json:"risk_weight"`
	Contributed float64    `json:"risk_contribution"`
}

// Config tunes the simulation. RiskWeight converts the probability of
// landing in the HIGH_RISK tier into contribution points; zero keeps the
// simulation purely informational, which is the assessment's default.
type Config struct {
	Trials     int     `yaml:"trials"`
	RiskWeight float64 `yaml:"risk_weight"`
}

// DefaultConfig runs 1000 trials with an informational-only contribution.
func DefaultConfig() Config {
	return Config{Trials: 1000, RiskWeight: 0}
}

// Provider runs the per-topic closed-form uncertainty models. Each model is
// base risk plus weighted bounded draws; the topic contribution is derived
// from the empirical exceedance probability, scaled by config.
type Provider struct {
	cfg Config
}

// NewProvider builds the simulation provider.
func NewProvider(cfg Config) *Provider {
	if cfg.Trials <= 0 {
		cfg.Trials = DefaultConfig().Trials
	}
	return &Provider{cfg: cfg}
}

func (p *Provider) Kind() signal.Kind { return signal.MonteCarlo }

// Evaluate simulates the topic's risk distribution under the scenario seed.
func (p *Provider) Evaluate(ctx context.Context, topicID string, scn scenario.Input) (signal.Contribution, error) {
	res := p.Run(topicID, scn.Seed)
	return signal.Contribution{
		Kind:   signal.MonteCarlo,
		Value:  res.Contributed,
		Detail: res,
	}, nil
}

// Run executes the topic's model for the configured number of trials.
func (p *Provider) Run(topicID string, seed int64) Result {
	s := newSampler(seed)
	samples := make([]float64, p.cfg.Trials)
	for i := range samples {
		samples[i] = p.draw(topicID, s)
	}
	return p.summarize(samples)
}

// draw produces one simulated risk outcome for the topic.
//
// Models, per topic:
//   - article-356: base 35 + court-challenge U(0.70,0.90)x40 +
//     min(disruptions Poisson(1.7)x3, 15) + opposition (1-U(0.55,0.75))x25
//   - article-83: base 20 + court-challenge U(0.50,0.90)x25 +
//     federalism Beta(3,2)x20
//   - article-172: base 25 + court-challenge U(0.55,0.85)x25 +
//     autonomy Beta(3.5,2)x22
//   - default: base 15 + N(0,5)
func (p *Provider) draw(topicID string, s *sampler) float64 {
	switch topicID {
	case "article-356":
		court := s.uniform(0.70, 0.90)
		disruption := math.Min(float64(s.poisson(1.7))*3, 15)
		support := s.uniform(0.55, 0.75)
		return 35.0 + court*40 + disruption + (1-support)*25
	case "article-83":
		court := s.uniform(0.50, 0.90)
		federalism := s.beta(3, 2)
		return 20.0 + court*25 + federalism*20
	case "article-172":
		court := s.uniform(0.55, 0.85)
		autonomy := s.beta(3.5, 2)
		return 25.0 + court*25 + autonomy*22
	default:
		return 15.0 + s.normal(0, 5)
	}
}

func (p *Provider) summarize(samples []float64) Result {
	n := float64(len(samples))
	sum := 0.0
	for _, v := range samples {
		sum += v
	}
	mean := sum / n

	varSum := 0.0
	exceed := 0
	for _, v := range samples {
		d := v - mean
		varSum += d * d
		if v >= 60 {
			exceed++
		}
	}

	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	pExceed := float64(exceed) / n

	return Result{
		Trials:      len(samples),
		Mean:        round2(mean),
		StdDev:      round2(math.Sqrt(varSum / n)),
		CI95:        [2]float64{round2(percentile(sorted, 2.5)), round2(percentile(sorted, 97.5))},
		ExceedHigh:  round2(pExceed),
		RiskWeight:  p.cfg.RiskWeight,
		Contributed: round2(p.cfg.RiskWeight * pExceed),
	}
}

// percentile interpolates the pth percentile of a sorted sample.
func percentile(sorted []float64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := pct / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
