package rank

import (
	"fmt"
	"sort"

	"github.com/ballotworks/syncrun/internal/topic"
)

// Config carries the static per-topic impact weights: how much overall risk
// reduction would follow from resolving the topic.
type Config struct {
	ImpactWeights map[string]float64 `yaml:"impact_weights"`
	DefaultWeight float64            `yaml:"default_weight"`
}

// DefaultConfig mirrors the committee's impact assessment.
func DefaultConfig() Config {
	return Config{
		ImpactWeights: map[string]float64{
			"article-356": 47.0,
			"article-172": 35.0,
			"article-83":  30.0,
			"article-82":  15.0,
			"article-174": 12.0,
			"article-85":  10.0,
		},
		DefaultWeight: 10.0,
	}
}

// Ranker assigns priority ranks across a batch of evaluated topics.
type Ranker struct {
	cfg Config
}

// NewRanker builds a ranker from the impact-weight table.
func NewRanker(cfg Config) *Ranker {
	if cfg.DefaultWeight == 0 {
		cfg.DefaultWeight = DefaultConfig().DefaultWeight
	}
	return &Ranker{cfg: cfg}
}

// ImpactWeight returns the topic's static multiplier.
func (r *Ranker) ImpactWeight(topicID string) float64 {
	if w, ok := r.cfg.ImpactWeights[topicID]; ok {
		return w
	}
	return r.cfg.DefaultWeight
}

// Rank sets priority_score and priority_rank on every topic and returns the
// slice reordered by rank ascending. priority_score = final_risk x
// impact_weight; ties break by topic id ascending so the order is a total
// one and ranks always form the permutation 1..N.
func (r *Ranker) Rank(topics []*topic.Topic) []*topic.Topic {
	for _, t := range topics {
		t.PriorityScore = t.FinalRisk * r.ImpactWeight(t.ID)
	}

	ranked := make([]*topic.Topic, len(topics))
	copy(ranked, topics)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].PriorityScore != ranked[j].PriorityScore {
			return ranked[i].PriorityScore > ranked[j].PriorityScore
		}
		return ranked[i].ID < ranked[j].ID
	})

	for i, t := range ranked {
		t.PriorityRank = i + 1
		if t.PriorityRank == 1 {
			t.Recommendation = "PRIORITY 1 - CRITICAL BLOCKER: " + t.Recommendation
		}
	}
	return ranked
}

// Recommendation produces the one-line priority guidance for a ranked topic.
func Recommendation(topicID string, rank int) string {
	switch {
	case rank == 1:
		return fmt.Sprintf("PRIORITY 1 - CRITICAL BLOCKER: %s must be addressed immediately; it is the primary obstacle to the synchronized cycle.", topicID)
	case rank <= 3:
		return fmt.Sprintf("PRIORITY %d - HIGH IMPORTANCE: %s requires urgent attention to keep the reform feasible.", rank, topicID)
	default:
		return fmt.Sprintf("PRIORITY %d: %s should be addressed but is not a critical blocker.", rank, topicID)
	}
}
