package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ballotworks/syncrun/internal/topic"
)

func TestRank_OrdersByPriorityScore(t *testing.T) {
	r := NewRanker(DefaultConfig())

	topics := []*topic.Topic{
		{ID: "article-82", FinalRisk: 80, Recommendation: "fix 82"},   // 80 x 15 = 1200
		{ID: "article-356", FinalRisk: 50, Recommendation: "fix 356"}, // 50 x 47 = 2350
		{ID: "article-85", FinalRisk: 90, Recommendation: "fix 85"},   // 90 x 10 = 900
	}
	ranked := r.Rank(topics)

	require.Len(t, ranked, 3)
	assert.Equal(t, "article-356", ranked[0].ID)
	assert.Equal(t, "article-82", ranked[1].ID)
	assert.Equal(t, "article-85", ranked[2].ID)

	assert.Equal(t, 2350.0, ranked[0].PriorityScore)
	assert.Equal(t, 1, ranked[0].PriorityRank)
	assert.Equal(t, 2, ranked[1].PriorityRank)
	assert.Equal(t, 3, ranked[2].PriorityRank)
}

func TestRank_TiesBreakByTopicID(t *testing.T) {
	r := NewRanker(Config{
		ImpactWeights: map[string]float64{"article-83": 10, "article-172": 10},
	})

	topics := []*topic.Topic{
		{ID: "article-172", FinalRisk: 40},
		{ID: "article-83", FinalRisk: 40},
	}
	ranked := r.Rank(topics)

	// Equal scores: lexically smaller id wins the better rank.
	assert.Equal(t, "article-172", ranked[0].ID)
	assert.Equal(t, "article-83", ranked[1].ID)
}

func TestRank_TopTopicGetsBlockerPrefix(t *testing.T) {
	r := NewRanker(DefaultConfig())

	ranked := r.Rank([]*topic.Topic{
		{ID: "article-356", FinalRisk: 70, Recommendation: "Define the procedure."},
		{ID: "article-83", FinalRisk: 70, Recommendation: "Add co-terminus."},
	})

	assert.Contains(t, ranked[0].Recommendation, "PRIORITY 1 - CRITICAL BLOCKER: ")
	assert.NotContains(t, ranked[1].Recommendation, "PRIORITY 1")
}

func TestImpactWeight_FallsBackToDefault(t *testing.T) {
	r := NewRanker(DefaultConfig())

	assert.Equal(t, 47.0, r.ImpactWeight("article-356"))
	assert.Equal(t, 10.0, r.ImpactWeight("article-999"))
}

func TestRank_EmptyInput(t *testing.T) {
	r := NewRanker(DefaultConfig())
	assert.Empty(t, r.Rank(nil))
}
