package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ballotworks/syncrun/internal/cache"
	"github.com/ballotworks/syncrun/internal/metrics"
	"github.com/ballotworks/syncrun/internal/rank"
	"github.com/ballotworks/syncrun/internal/scenario"
	"github.com/ballotworks/syncrun/internal/signal"
	"github.com/ballotworks/syncrun/internal/topic"
)

// InvariantError indicates a programming defect: an aggregate outside its
// documented bounds or a broken rank permutation. Strict mode (tests)
// surfaces it; production logs it and serves the clamped value.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string { return "aggregation invariant violated: " + e.Msg }

// Config tunes the engine.
type Config struct {
	CacheTTL time.Duration `yaml:"cache_ttl"`
	// Strict makes invariant violations hard errors instead of logged
	// clamps. Tests run strict.
	Strict bool `yaml:"strict"`
}

// DefaultConfig caches evaluations for five minutes.
func DefaultConfig() Config {
	return Config{CacheTTL: 5 * time.Minute}
}

// Engine combines base risk and provider contributions into bounded topic
// scores. Providers and collaborators are injected at construction; the
// engine holds no ambient state beyond its result cache.
type Engine struct {
	cfg       Config
	registry  *topic.Registry
	providers map[signal.Kind]signal.Provider
	ranker    *rank.Ranker
	cache     cache.Cache
	collector *metrics.Collector

	// gens holds a per-topic generation counter folded into cache keys.
	// Bumping a counter orphans every cached result for that topic, which
	// gives eager invalidation on caches without a delete operation.
	gens sync.Map // topicID -> *uint64
}

// New wires the engine. Every signal kind referenced by a registry
// definition must have a provider; a missing provider is a construction
// error so the closed kind set stays exhaustively checked.
func New(cfg Config, registry *topic.Registry, providers []signal.Provider, ranker *rank.Ranker, c cache.Cache, collector *metrics.Collector) (*Engine, error) {
	byKind := make(map[signal.Kind]signal.Provider, len(providers))
	for _, p := range providers {
		if _, dup := byKind[p.Kind()]; dup {
			return nil, fmt.Errorf("duplicate provider for signal %s", p.Kind())
		}
		byKind[p.Kind()] = p
	}

	for _, id := range registry.AllIDs() {
		def, err := registry.Get(id)
		if err != nil {
			return nil, err
		}
		for _, k := range def.Signals {
			if _, ok := byKind[k]; !ok {
				return nil, fmt.Errorf("topic %s requires signal %s but no provider is registered", id, k)
			}
		}
	}

	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultConfig().CacheTTL
	}

	return &Engine{
		cfg:       cfg,
		registry:  registry,
		providers: byKind,
		ranker:    ranker,
		cache:     c,
		collector: collector,
	}, nil
}

// Registry exposes the topic registry to the presentation layer.
func (e *Engine) Registry() *topic.Registry { return e.registry }

// InvalidateTopic orphans every cached result for the topic. Called by the
// toggle store's mutation hook.
func (e *Engine) InvalidateTopic(topicID string) {
	atomic.AddUint64(e.generation(topicID), 1)
}

func (e *Engine) generation(topicID string) *uint64 {
	g, _ := e.gens.LoadOrStore(topicID, new(uint64))
	return g.(*uint64)
}

func (e *Engine) cacheKey(topicID string, scn scenario.Input) string {
	gen := atomic.LoadUint64(e.generation(topicID))
	return fmt.Sprintf("topic:%s:g%d:%s", topicID, gen, scn.Fingerprint())
}

// EvaluateTopic computes the full risk picture for one topic under the
// scenario. Results are memoized per (topic, generation, scenario) so
// repeated reads without a mutation are idempotent.
func (e *Engine) EvaluateTopic(ctx context.Context, topicID string, scn scenario.Input) (*topic.Topic, error) {
	def, err := e.registry.Get(topicID)
	if err != nil {
		return nil, err
	}
	scn, warnings := scn.Normalize()

	key := e.cacheKey(topicID, scn)
	if e.cache != nil {
		if b, ok := e.cache.Get(key); ok {
			var t topic.Topic
			if err := json.Unmarshal(b, &t); err == nil {
				e.countCache(topicID, true)
				return &t, nil
			}
		}
		e.countCache(topicID, false)
	}

	start := time.Now()
	t, err := e.evaluate(ctx, def, scn, warnings)
	if err != nil {
		return nil, err
	}
	e.observe(topicID, "single", time.Since(start), t)

	if e.cache != nil {
		if b, err := json.Marshal(t); err == nil {
			e.cache.Set(key, b, e.cfg.CacheTTL)
		}
	}
	return t, nil
}

// evaluate runs the applicable providers concurrently and folds their
// contributions into the bounded final score. Contributions land in
// signal-declaration order regardless of completion order.
func (e *Engine) evaluate(ctx context.Context, def topic.Definition, scn scenario.Input, warnings []string) (*topic.Topic, error) {
	contributions := make([]signal.Contribution, len(def.Signals))

	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range def.Signals {
		i, kind := i, kind
		provider := e.providers[kind]
		g.Go(func() error {
			c, err := provider.Evaluate(gctx, def.ID, scn)
			if err != nil {
				return fmt.Errorf("signal %s for %s: %w", kind, def.ID, err)
			}
			contributions[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	final := def.BaseRisk
	for _, c := range contributions {
		final += c.Value
		if c.Degraded && e.collector != nil {
			e.collector.DegradedEvals.WithLabelValues(c.Kind.String()).Inc()
		}
	}
	// Checked before clamping: clamp would turn an infinity into a
	// legitimate-looking 0 or 100.
	if math.IsNaN(final) || math.IsInf(final, 0) {
		err := &InvariantError{Msg: fmt.Sprintf("final risk for %s is not finite", def.ID)}
		if e.cfg.Strict {
			return nil, err
		}
		log.Error().Err(err).Msg("clamping non-finite risk to base")
		final = def.BaseRisk
	}
	final = clamp(final, 0, 100)

	return &topic.Topic{
		ID:             def.ID,
		Name:           def.Name,
		Description:    def.Description,
		BaseRisk:       def.BaseRisk,
		FinalRisk:      math.Round(final*100) / 100,
		Status:         topic.StatusFor(final),
		Contributions:  contributions,
		Recommendation: topic.Recommendation(def.ID),
		Warnings:       warnings,
		EvaluatedAt:    time.Now().UTC(),
	}, nil
}

// EvaluateAll evaluates every registered topic in parallel, assigns
// priority ranks, and returns topics ordered by rank ascending.
func (e *Engine) EvaluateAll(ctx context.Context, scn scenario.Input) ([]*topic.Topic, error) {
	ids := e.registry.AllIDs()
	topics := make([]*topic.Topic, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			t, err := e.EvaluateTopic(gctx, id, scn)
			if err != nil {
				return err
			}
			topics[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ranked := e.ranker.Rank(topics)
	if err := verifyPermutation(ranked); err != nil {
		if e.cfg.Strict {
			return nil, err
		}
		log.Error().Err(err).Msg("serving ranking despite broken permutation")
	}
	return ranked, nil
}

// verifyPermutation checks that ranks form exactly {1..N}.
func verifyPermutation(topics []*topic.Topic) error {
	seen := make(map[int]bool, len(topics))
	for _, t := range topics {
		if t.PriorityRank < 1 || t.PriorityRank > len(topics) || seen[t.PriorityRank] {
			return &InvariantError{Msg: fmt.Sprintf("rank %d for %s is not a valid permutation slot", t.PriorityRank, t.ID)}
		}
		seen[t.PriorityRank] = true
	}
	return nil
}

func (e *Engine) countCache(topicID string, hit bool) {
	if e.collector == nil {
		return
	}
	if hit {
		e.collector.CacheHits.WithLabelValues(topicID).Inc()
	} else {
		e.collector.CacheMisses.WithLabelValues(topicID).Inc()
	}
}

func (e *Engine) observe(topicID, mode string, d time.Duration, t *topic.Topic) {
	if e.collector == nil {
		return
	}
	e.collector.EvalDuration.WithLabelValues(topicID, mode).Observe(d.Seconds())
	e.collector.TopicRisk.WithLabelValues(topicID).Set(t.FinalRisk)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
