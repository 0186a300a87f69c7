package engine

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ballotworks/syncrun/internal/cache"
	"github.com/ballotworks/syncrun/internal/rank"
	"github.com/ballotworks/syncrun/internal/scenario"
	"github.com/ballotworks/syncrun/internal/signal"
	"github.com/ballotworks/syncrun/internal/topic"
)

// stubProvider returns a fixed value for its kind. value is read on every
// evaluation so tests can mutate it between calls.
type stubProvider struct {
	kind  signal.Kind
	value float64
}

func (s *stubProvider) Kind() signal.Kind { return s.kind }

func (s *stubProvider) Evaluate(_ context.Context, _ string, _ scenario.Input) (signal.Contribution, error) {
	return signal.Contribution{Kind: s.kind, Value: s.value}, nil
}

func newTestEngine(t *testing.T, cfg Config, reg *topic.Registry, providers ...signal.Provider) *Engine {
	t.Helper()
	eng, err := New(cfg, reg, providers, rank.NewRanker(rank.DefaultConfig()), cache.New(), nil)
	require.NoError(t, err)
	return eng
}

func TestEvaluateTopic_ClampsAtUpperBound(t *testing.T) {
	reg := topic.NewRegistryFrom(topic.Definition{
		ID:       "article-356",
		Name:     "Article 356",
		BaseRisk: 35,
		Signals:  []signal.Kind{signal.Debate, signal.Political},
	})
	eng := newTestEngine(t, Config{Strict: true}, reg,
		&stubProvider{kind: signal.Debate, value: 45},
		&stubProvider{kind: signal.Political, value: 30},
	)

	got, err := eng.EvaluateTopic(context.Background(), "article-356", scenario.Default())
	require.NoError(t, err)

	assert.Equal(t, 100.0, got.FinalRisk)
	assert.Equal(t, topic.StatusCriticalBlocker, got.Status)
	assert.Len(t, got.Contributions, 2)
}

func TestEvaluateTopic_ClampsAtLowerBound(t *testing.T) {
	reg := topic.NewRegistryFrom(topic.Definition{
		ID:       "article-82",
		BaseRisk: 25,
		Signals:  []signal.Kind{signal.Explorer},
	})
	eng := newTestEngine(t, Config{Strict: true}, reg,
		&stubProvider{kind: signal.Explorer, value: -60},
	)

	got, err := eng.EvaluateTopic(context.Background(), "article-82", scenario.Default())
	require.NoError(t, err)

	assert.Equal(t, 0.0, got.FinalRisk)
	assert.Equal(t, topic.StatusNormal, got.Status)
}

func TestEvaluateTopic_NoSignalsYieldsBaseRisk(t *testing.T) {
	reg := topic.NewRegistryFrom(topic.Definition{ID: "article-85", BaseRisk: 20})
	eng := newTestEngine(t, Config{Strict: true}, reg)

	got, err := eng.EvaluateTopic(context.Background(), "article-85", scenario.Default())
	require.NoError(t, err)

	assert.Equal(t, 20.0, got.FinalRisk)
	assert.Equal(t, topic.StatusNormal, got.Status)
	assert.Empty(t, got.Contributions)
}

func TestEvaluateTopic_UnknownTopic(t *testing.T) {
	eng := newTestEngine(t, Config{}, topic.NewRegistryFrom())

	_, err := eng.EvaluateTopic(context.Background(), "article-999", scenario.Default())
	assert.ErrorIs(t, err, topic.ErrUnknownTopic)
}

func TestEvaluateTopic_MemoizesUntilInvalidated(t *testing.T) {
	reg := topic.NewRegistryFrom(topic.Definition{
		ID:       "article-83",
		BaseRisk: 20,
		Signals:  []signal.Kind{signal.Explorer},
	})
	stub := &stubProvider{kind: signal.Explorer, value: 10}
	eng := newTestEngine(t, Config{Strict: true}, reg, stub)

	ctx := context.Background()
	scn := scenario.Default()

	first, err := eng.EvaluateTopic(ctx, "article-83", scn)
	require.NoError(t, err)
	assert.Equal(t, 30.0, first.FinalRisk)

	// A provider change without invalidation must not show: the cached
	// result is authoritative for the (topic, generation, scenario) key.
	stub.value = -40
	cached, err := eng.EvaluateTopic(ctx, "article-83", scn)
	require.NoError(t, err)
	assert.Equal(t, 30.0, cached.FinalRisk)

	eng.InvalidateTopic("article-83")
	fresh, err := eng.EvaluateTopic(ctx, "article-83", scn)
	require.NoError(t, err)
	assert.Equal(t, 0.0, fresh.FinalRisk)
}

func TestEvaluateTopic_ScenarioChangesBypassCache(t *testing.T) {
	reg := topic.NewRegistryFrom(topic.Definition{ID: "article-82", BaseRisk: 25})
	eng := newTestEngine(t, Config{Strict: true}, reg)

	ctx := context.Background()
	a, err := eng.EvaluateTopic(ctx, "article-82", scenario.Input{TargetYear: 2029})
	require.NoError(t, err)
	b, err := eng.EvaluateTopic(ctx, "article-82", scenario.Input{TargetYear: 2031})
	require.NoError(t, err)

	// Same score here, but the evaluations must be keyed separately.
	assert.Equal(t, a.FinalRisk, b.FinalRisk)
}

func TestEvaluateTopic_StrictRejectsNonFinite(t *testing.T) {
	reg := topic.NewRegistryFrom(topic.Definition{
		ID:       "article-83",
		BaseRisk: 20,
		Signals:  []signal.Kind{signal.Debate},
	})
	eng := newTestEngine(t, Config{Strict: true}, reg,
		&stubProvider{kind: signal.Debate, value: math.NaN()},
	)

	_, err := eng.EvaluateTopic(context.Background(), "article-83", scenario.Default())
	require.Error(t, err)
	var inv *InvariantError
	assert.ErrorAs(t, err, &inv)
}

func TestEvaluateTopic_NonStrictClampsNonFinite(t *testing.T) {
	reg := topic.NewRegistryFrom(topic.Definition{
		ID:       "article-83",
		BaseRisk: 20,
		Signals:  []signal.Kind{signal.Debate},
	})
	eng := newTestEngine(t, Config{}, reg,
		&stubProvider{kind: signal.Debate, value: math.Inf(1)},
	)

	got, err := eng.EvaluateTopic(context.Background(), "article-83", scenario.Default())
	require.NoError(t, err)
	assert.Equal(t, 20.0, got.FinalRisk)
}

func TestEvaluateAll_RanksFormPermutation(t *testing.T) {
	reg := topic.NewRegistryFrom(
		topic.Definition{ID: "article-82", BaseRisk: 25},
		topic.Definition{ID: "article-172", BaseRisk: 25},
		topic.Definition{ID: "article-356", BaseRisk: 35},
	)
	eng := newTestEngine(t, Config{Strict: true}, reg)

	topics, err := eng.EvaluateAll(context.Background(), scenario.Default())
	require.NoError(t, err)
	require.Len(t, topics, 3)

	seen := make(map[int]bool)
	for _, tp := range topics {
		seen[tp.PriorityRank] = true
	}
	assert.Equal(t, map[int]bool{1: true, 2: true, 3: true}, seen)

	// 356 carries both the highest risk and the highest impact weight.
	assert.Equal(t, "article-356", topics[0].ID)
	assert.Contains(t, topics[0].Recommendation, "PRIORITY 1")
}

func TestNew_RejectsMissingProvider(t *testing.T) {
	reg := topic.NewRegistryFrom(topic.Definition{
		ID:      "article-83",
		Signals: []signal.Kind{signal.Debate},
	})
	_, err := New(Config{}, reg, nil, rank.NewRanker(rank.DefaultConfig()), cache.New(), nil)
	assert.Error(t, err)
}

func TestNew_RejectsDuplicateProviders(t *testing.T) {
	reg := topic.NewRegistryFrom()
	providers := []signal.Provider{
		&stubProvider{kind: signal.Debate},
		&stubProvider{kind: signal.Debate},
	}
	_, err := New(Config{}, reg, providers, rank.NewRanker(rank.DefaultConfig()), cache.New(), nil)
	assert.Error(t, err)
}
