package precedent

import (
	"context"
	"sort"

	"github.com/ballotworks/syncrun/internal/scenario"
	"github.com/ballotworks/syncrun/internal/signal"
)

// Case is one apex-court precedent bearing on a topic. Higher impact scores
// mean a higher chance of a successful constitutional challenge.
type Case struct {
	Name     string  `json:"case_name"`
	Year     int     `json:"year"`
	Impact   float64 `json:"impact_score"`
	Relevant string  `json:"relevance"`
	Summary  string  `json:"summary,omitempty"`
}

// Detail is the provider's supporting payload: the matched cases sorted by
// impact, plus the cap that bounded the contribution.
type Detail struct {
	Cases []Case  `json:"cases"`
	Cap   float64 `json:"cap"`
}

// Provider computes the precedent sub-signal. The contribution is the sum of
// matched case impacts, bounded by a per-topic cap from configuration.
type Provider struct {
	cases map[string][]Case
	caps  map[string]float64
	// defaultCap bounds topics without an explicit cap entry.
	defaultCap float64
}

// Config carries the per-topic caps. Caps are configuration because the
// tuning differs across assessment revisions.
type Config struct {
	Caps       map[string]float64 `yaml:"caps"`
	DefaultCap float64            `yaml:"default_cap"`
}

// DefaultConfig mirrors the committee assessment: the primary blocker may
// draw up to 15 points from precedent, the federalism articles up to 6, the
// rest up to 3.
func DefaultConfig() Config {
	return Config{
		Caps: map[string]float64{
			"article-356": 15.0,
			"article-83":  6.0,
			"article-172": 6.0,
		},
		DefaultCap: 3.0,
	}
}

// NewProvider builds the provider over the fixed case table.
func NewProvider(cfg Config) *Provider {
	return &Provider{
		cases:      defaultCases(),
		caps:       cfg.Caps,
		defaultCap: cfg.DefaultCap,
	}
}

func (p *Provider) Kind() signal.Kind { return signal.Precedent }

// Evaluate sums case impacts for the topic and clamps at the topic's cap.
func (p *Provider) Evaluate(ctx context.Context, topicID string, _ scenario.Input) (signal.Contribution, error) {
	matched := p.Cases(topicID)

	total := 0.0
	for _, c := range matched {
		total += c.Impact
	}

	limit := p.defaultCap
	if c, ok := p.caps[topicID]; ok {
		limit = c
	}
	if total > limit {
		total = limit
	}

	return signal.Contribution{
		Kind:   signal.Precedent,
		Value:  total,
		Detail: Detail{Cases: matched, Cap: limit},
	}, nil
}

// Cases returns the topic's precedents sorted by impact descending.
func (p *Provider) Cases(topicID string) []Case {
	src := p.cases[topicID]
	out := make([]Case, len(src))
	copy(out, src)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Impact > out[j].Impact })
	return out
}

func defaultCases() map[string][]Case {
	return map[string][]Case{
		"article-356": {
			{
				Name:     "S.R. Bommai v. Union of India",
				Year:     1994,
				Impact:   5.0,
				Relevant: "Judicial review of President's Rule; federalism is basic structure.",
				Summary:  "Established that proclamations under Article 356 are justiciable and that federalism cannot be abrogated.",
			},
			{
				Name:     "State of Rajasthan v. Union of India",
				Year:     1977,
				Impact:   5.0,
				Relevant: "Scope of central power to dissolve state assemblies.",
			},
			{
				Name:     "Rameshwar Prasad v. Union of India",
				Year:     2006,
				Impact:   5.0,
				Relevant: "Dissolution before first assembly sitting held unconstitutional.",
			},
		},
		"article-83": {
			{
				Name:     "Kesavananda Bharati v. State of Kerala",
				Year:     1973,
				Impact:   4.0,
				Relevant: "Basic structure doctrine limits term-alteration amendments.",
			},
			{
				Name:     "Indira Nehru Gandhi v. Raj Narain",
				Year:     1975,
				Impact:   3.0,
				Relevant: "Free and fair elections are part of the basic structure.",
			},
		},
		"article-172": {
			{
				Name:     "Kesavananda Bharati v. State of Kerala",
				Year:     1973,
				Impact:   4.0,
				Relevant: "Curtailing state terms engages the federal balance.",
			},
			{
				Name:     "S.R. Bommai v. Union of India",
				Year:     1994,
				Impact:   3.5,
				Relevant: "State autonomy protections constrain forced synchronization.",
			},
		},
	}
}
