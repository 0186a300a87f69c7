package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ballotworks/syncrun/internal/cache"
	"github.com/ballotworks/syncrun/internal/config"
	"github.com/ballotworks/syncrun/internal/debate"
	"github.com/ballotworks/syncrun/internal/engine"
	"github.com/ballotworks/syncrun/internal/explorer"
	"github.com/ballotworks/syncrun/internal/metrics"
	"github.com/ballotworks/syncrun/internal/montecarlo"
	"github.com/ballotworks/syncrun/internal/persistence"
	"github.com/ballotworks/syncrun/internal/persistence/postgres"
	"github.com/ballotworks/syncrun/internal/political"
	"github.com/ballotworks/syncrun/internal/precedent"
	"github.com/ballotworks/syncrun/internal/rank"
	"github.com/ballotworks/syncrun/internal/scenario"
	"github.com/ballotworks/syncrun/internal/signal"
	"github.com/ballotworks/syncrun/internal/timeline"
	"github.com/ballotworks/syncrun/internal/topic"
)

// repo is the union of what the toggle store and the coalition tracker
// persist through. Both backends satisfy it.
type repo interface {
	explorer.Repo
	political.EventRepo
}

type app struct {
	cfg       config.Config
	engine    *engine.Engine
	store     *explorer.Store
	tracker   *political.Tracker
	ranker    *rank.Ranker
	mc        *montecarlo.Provider
	precedent *precedent.Provider
	collector *metrics.Collector

	// onCoalitionEvent is set by serve to feed the websocket hub.
	onCoalitionEvent func(political.EventRecord)

	closeFn func() error
}

func (a *app) Close() {
	if a.closeFn != nil {
		if err := a.closeFn(); err != nil {
			log.Warn().Err(err).Msg("closing persistence")
		}
	}
}

// buildApp wires the full dependency graph from configuration.
func buildApp(ctx context.Context, configPath string, strict bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if strict {
		cfg.Engine.Strict = true
	}

	a := &app{cfg: cfg}

	var store repo = persistence.NewMemoryStore()
	if cfg.Database.DSN != "" {
		pg, err := postgres.Connect(ctx, cfg.Database.DSN,
			time.Duration(cfg.Database.TimeoutSeconds)*time.Second)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		store = pg
		a.closeFn = pg.Close
		log.Info().Msg("using postgres persistence")
	}

	a.collector = metrics.NewCollector()

	a.store = explorer.NewStore(store, nil)
	if err := a.store.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("restoring toggle states")
	}

	a.tracker = political.NewTracker(cfg.Coalition, store, func(ev political.EventRecord) {
		a.collector.CoalitionEvents.WithLabelValues(string(ev.Kind)).Inc()
		// Every topic carrying the political signal has a stale score now.
		for _, id := range a.engine.Registry().AllIDs() {
			a.engine.InvalidateTopic(id)
		}
		if a.onCoalitionEvent != nil {
			a.onCoalitionEvent(ev)
		}
	})

	a.mc = montecarlo.NewProvider(cfg.MonteCarlo)
	a.precedent = precedent.NewProvider(cfg.Precedent)
	a.ranker = rank.NewRanker(cfg.Rank)

	client := debate.NewClient(nil, cfg.EnrichmentSettings())
	providers := []signal.Provider{
		debate.NewProvider(cfg.Debate, client),
		a.precedent,
		a.mc,
		explorer.NewProvider(a.store),
		political.NewProvider(cfg.Political, a.tracker),
		timeline.NewProvider(cfg.Timeline),
	}

	var c cache.Cache
	if cfg.Cache.RedisAddr != "" {
		c = cache.NewRedis(cfg.Cache.RedisAddr)
		log.Info().Str("addr", cfg.Cache.RedisAddr).Msg("using redis result cache")
	} else {
		c = cache.NewAuto()
	}

	a.engine, err = engine.New(cfg.EngineSettings(), topic.NewRegistry(), providers, a.ranker, c, a.collector)
	if err != nil {
		return nil, err
	}

	a.store.SetOnChange(func(topicID string) {
		a.engine.InvalidateTopic(topicID)
		a.collector.ToggleFlips.WithLabelValues(topicID).Inc()
	})

	return a, nil
}

// appForCommand builds the app plus the scenario described by the common
// evaluation flags.
func appForCommand(ctx context.Context, cmd *cobra.Command) (*app, scenario.Input, error) {
	strict, _ := cmd.Flags().GetBool("strict")

	app, err := buildApp(ctx, flagConfig, strict)
	if err != nil {
		return nil, scenario.Input{}, err
	}

	// Changed() rather than a zero check so an explicit --supply=0 means
	// what the operator typed.
	scn := scenario.Default()
	if cmd.Flags().Changed("target-year") {
		scn.TargetYear, _ = cmd.Flags().GetInt("target-year")
	}
	if cmd.Flags().Changed("supply") {
		scn.SupplyRatio, _ = cmd.Flags().GetFloat64("supply")
	}
	if cmd.Flags().Changed("personnel") {
		scn.PersonnelRatio, _ = cmd.Flags().GetFloat64("personnel")
	}
	if cmd.Flags().Changed("seed") {
		scn.Seed, _ = cmd.Flags().GetInt64("seed")
	}

	scn, warnings := scn.Normalize()
	for _, w := range warnings {
		log.Warn().Msg(w)
	}
	return app, scn, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
