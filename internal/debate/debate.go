package debate

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ballotworks/syncrun/internal/scenario"
	"github.com/ballotworks/syncrun/internal/signal"
)

// Turn is one entry of the debate transcript.
type Turn struct {
	Speaker  string `json:"speaker"`
	Argument string `json:"argument"`
	Type     string `json:"type"`
}

// Detail is the debate provider's supporting payload.
type Detail struct {
	Vulnerability float64 `json:"vulnerability_score"`
	Government    string  `json:"government_argument"`
	Court         string  `json:"court_argument"`
	Transcript    []Turn  `json:"transcript"`
	Degraded      bool    `json:"degraded"`
}

// Config carries the per-topic vulnerability assessments and risk weights.
// Contribution = vulnerability x weight.
type Config struct {
	Vulnerability        map[string]float64 `yaml:"vulnerability"`
	DefaultVulnerability float64            `yaml:"default_vulnerability"`
	Weights              map[string]float64 `yaml:"weights"`
	DefaultWeight        float64            `yaml:"default_weight"`
}

// DefaultConfig mirrors the assessment's litigation-risk estimates.
func DefaultConfig() Config {
	return Config{
		Vulnerability: map[string]float64{
			"article-83":  0.68,
			"article-172": 0.72,
			"article-356": 0.85,
		},
		DefaultVulnerability: 0.65,
		Weights: map[string]float64{
			"article-356": 40.0,
		},
		DefaultWeight: 25.0,
	}
}

// Provider simulates a government-versus-court constitutional debate. The
// numeric contribution is always the deterministic vulnerability estimate;
// the enrichment backend only replaces the argument prose. A failing backend
// marks the contribution degraded, never errors.
type Provider struct {
	cfg    Config
	client *Client
}

// NewProvider builds the debate provider. client may be nil, in which case
// every evaluation uses the static transcript.
func NewProvider(cfg Config, client *Client) *Provider {
	return &Provider{cfg: cfg, client: client}
}

func (p *Provider) Kind() signal.Kind { return signal.Debate }

// Evaluate runs the debate for the topic.
func (p *Provider) Evaluate(ctx context.Context, topicID string, _ scenario.Input) (signal.Contribution, error) {
	vuln := p.cfg.DefaultVulnerability
	if v, ok := p.cfg.Vulnerability[topicID]; ok {
		vuln = v
	}
	weight := p.cfg.DefaultWeight
	if w, ok := p.cfg.Weights[topicID]; ok {
		weight = w
	}

	gov, court := fallbackArguments(topicID)
	degraded := true
	if p.client != nil {
		g, gErr := p.client.Generate(ctx, governmentPrompt(topicID))
		c, cErr := p.client.Generate(ctx, courtPrompt(topicID))
		if gErr == nil && cErr == nil {
			gov, court = g, c
			degraded = false
		} else {
			log.Debug().Str("topic", topicID).AnErr("gov_err", gErr).AnErr("court_err", cErr).
				Msg("debate enrichment unavailable, using static arguments")
		}
	}

	detail := Detail{
		Vulnerability: vuln,
		Government:    gov,
		Court:         court,
		Transcript: []Turn{
			{Speaker: "GOVERNMENT", Argument: gov, Type: "position"},
			{Speaker: "SUPREME COURT", Argument: court, Type: "counter"},
			{Speaker: "ASSESSMENT", Argument: fmt.Sprintf("Vulnerability score %.2f", vuln), Type: "assessment"},
		},
		Degraded: degraded,
	}

	return signal.Contribution{
		Kind:     signal.Debate,
		Value:    vuln * weight,
		Degraded: degraded,
		Detail:   detail,
	}, nil
}

func fallbackArguments(topicID string) (gov, court string) {
	govArgs := map[string]string{
		"article-83":  "A unified cycle reduces costs and improves governance efficiency. The co-terminus provision is within Parliament's amending competence.",
		"article-172": "States can consent to synchronization. This is procedural reform, not a substantive change to federalism.",
		"article-356": "An administrator can represent a state during synchronized elections; precedent exists for elections held under President's Rule.",
	}
	courtArgs := map[string]string{
		"article-83":  "Forcing state assemblies to align with the lower-house term undermines state legislative independence, part of the basic structure.",
		"article-172": "States hold autonomy over their legislative terms. Mandatory synchronization violates the federal structure even with consent.",
		"article-356": "A suspended state government cannot participate in synchronized elections as an equal partner; the text is silent on this scenario.",
	}
	gov, ok := govArgs[topicID]
	if !ok {
		gov = "The proposed amendment is constitutionally sound and necessary for the synchronized cycle."
	}
	court, ok = courtArgs[topicID]
	if !ok {
		court = "The amendment conflicts with basic structure doctrine and federalism principles."
	}
	return gov, court
}

func governmentPrompt(topicID string) string {
	return fmt.Sprintf("Present the government's position on why amending %s for electoral synchronization is feasible and legally sound, in two to three sentences.", topicID)
}

func courtPrompt(topicID string) string {
	return fmt.Sprintf("Present the strongest constitutional challenges to amending %s for electoral synchronization, in two to three sentences.", topicID)
}
