package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	httpserver "github.com/ballotworks/syncrun/internal/interfaces/http"
	"github.com/ballotworks/syncrun/internal/interfaces/http/handlers"
)

const (
	appName = "syncrun"
	version = "v1.2.0"
)

var flagConfig string

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	if term.IsTerminal(int(os.Stderr.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Electoral-synchronization reform risk engine",
		Version: version,
		Long: `syncrun estimates composite risk scores for the constitutional topics a
simultaneous-elections reform must clear. Each topic combines a curated base
risk with live signals: judicial precedent, debate vulnerability, coalition
arithmetic, what-if toggles, uncertainty simulation, and timeline pressure.`,
	}
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to yaml config file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the risk API server",
		RunE:  runServe,
	}

	evaluateCmd := &cobra.Command{
		Use:   "evaluate [topic-id]",
		Short: "Evaluate one topic, or all topics when no id is given",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEvaluate,
	}

	rankCmd := &cobra.Command{
		Use:   "rank",
		Short: "Print the priority ranking",
		RunE:  runRank,
	}

	dashboardCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Print the operational readiness dashboard",
		RunE:  runDashboard,
	}

	coalitionCmd := &cobra.Command{
		Use:   "coalition",
		Short: "Print the coalition support snapshot",
		RunE:  runCoalition,
	}

	for _, cmd := range []*cobra.Command{evaluateCmd, rankCmd, dashboardCmd, coalitionCmd} {
		cmd.Flags().Int("target-year", 0, "Implementation target year (2026-2041)")
		cmd.Flags().Float64("supply", 0, "EVM supply chain capacity percent")
		cmd.Flags().Float64("personnel", 0, "Polling personnel capacity percent")
		cmd.Flags().Int64("seed", 0, "Simulation seed")
		cmd.Flags().Bool("strict", false, "Fail hard on aggregation invariant violations")
	}

	rootCmd.AddCommand(serveCmd, evaluateCmd, rankCmd, dashboardCmd, coalitionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := buildApp(ctx, flagConfig, false)
	if err != nil {
		return err
	}
	defer app.Close()

	hub := httpserver.NewEventHub(log.Logger)
	app.onCoalitionEvent = hub.Broadcast

	h := handlers.NewHandlers(app.engine, app.store, app.tracker, app.mc, app.precedent, app.ranker, log.Logger)
	srv, err := httpserver.NewServer(app.cfg.Server, h, hub, app.collector.Handler(), log.Logger)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app, scn, err := appForCommand(ctx, cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	if len(args) == 1 {
		t, err := app.engine.EvaluateTopic(ctx, args[0], scn)
		if err != nil {
			return err
		}
		return printJSON(t)
	}

	topics, err := app.engine.EvaluateAll(ctx, scn)
	if err != nil {
		return err
	}
	return printJSON(topics)
}

func runRank(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app, scn, err := appForCommand(ctx, cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	topics, err := app.engine.EvaluateAll(ctx, scn)
	if err != nil {
		return err
	}

	for _, t := range topics {
		fmt.Printf("%2d. %-14s risk=%6.2f weight=%5.1f priority=%8.2f  %s\n",
			t.PriorityRank, t.ID, t.FinalRisk, app.ranker.ImpactWeight(t.ID), t.PriorityScore, t.Status)
	}
	return nil
}

func runDashboard(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app, scn, err := appForCommand(ctx, cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	return printJSON(app.engine.GetDashboard(scn))
}

func runCoalition(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app, _, err := appForCommand(ctx, cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	return printJSON(app.tracker.Snapshot())
}
