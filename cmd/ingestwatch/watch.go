package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quadmind/ingestwatch/internal/cli"
	"github.com/quadmind/ingestwatch/internal/clock"
	"github.com/quadmind/ingestwatch/internal/common"
	"github.com/quadmind/ingestwatch/internal/config"
	"github.com/quadmind/ingestwatch/internal/feed"
	"github.com/quadmind/ingestwatch/internal/model"
	"github.com/quadmind/ingestwatch/internal/monitor"
	"github.com/quadmind/ingestwatch/internal/stats"
	"github.com/quadmind/ingestwatch/internal/tui"
)

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the ingestion pipeline live",
		Long: `Watch polls the orchestrator's ingestion status endpoint and shows each
file's lifecycle as it is ingested: detected starts, simulated progress,
confirmed completions and failures, and batched completion notifications.

By default watch opens a full-screen dashboard; --plain switches to line
output suitable for pipes and logs.`,
		RunE: runWatch,
	}

	cmd.Flags().Bool("plain", false, "plain line output instead of the dashboard")
	cmd.Flags().String("endpoint", "", "ingestion status endpoint URL")
	_ = viper.BindPFlag("monitor.endpoint", cmd.Flags().Lookup("endpoint"))

	return cmd
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := config.LoadMonitor()
	if err != nil {
		return err
	}

	store, err := stats.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open stats store: %w", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate stats store: %w", err)
	}

	client := feed.NewClient(cfg.Endpoint, cfg.PollInterval)
	clk := clock.Real()

	plain, _ := cmd.Flags().GetBool("plain")
	if plain {
		return runPlainWatch(cmd, cfg, clk, client, store)
	}
	return runDashboardWatch(cmd, cfg, clk, client, store)
}

func runDashboardWatch(cmd *cobra.Command, cfg config.Monitor, clk clock.Clock, client *feed.Client, store *stats.SQLiteStore) error {
	ctx := cmd.Context()

	bridge := tui.NewFeed()
	mon := monitor.New(cfg, clk, fetchWithRetry(client.Fetch), store, bridge.Emit)
	mon.Subscribe(bridge.EmitEvent)

	totals, err := store.Totals(ctx)
	if err != nil {
		return fmt.Errorf("failed to load domain totals: %w", err)
	}

	mon.Start(ctx)
	defer mon.Stop()

	return tui.Run(ctx, mon, bridge, totals)
}

func runPlainWatch(cmd *cobra.Command, cfg config.Monitor, clk clock.Clock, client *feed.Client, store *stats.SQLiteStore) error {
	ctx := cmd.Context()

	// The watcher needs the monitor for registry reads and the monitor
	// needs the watcher's emitter, so the emitter is bound late.
	var watcher *cli.PlainWatcher
	emit := func(n model.Notification) { watcher.Notify(n) }

	mon := monitor.New(cfg, clk, fetchWithRetry(client.Fetch), store, emit)
	watcher = cli.NewPlainWatcher(clk, mon, os.Stdout, cfg.ProgressTick)
	mon.Subscribe(watcher.HandleEvent)

	mon.Start(ctx)
	defer mon.Stop()

	watcher.Run(ctx)
	return nil
}

// fetchWithRetry gives each poll one quick retry before the poller falls
// back to replaying the last good snapshot. The total retry delay must stay
// well under the poll interval so polls never queue up.
func fetchWithRetry(fetch feed.FetchFunc) feed.FetchFunc {
	return func(ctx context.Context) (model.StatusSnapshot, error) {
		var snapshot model.StatusSnapshot
		err := common.WithRetry(ctx, func() error {
			var fetchErr error
			snapshot, fetchErr = fetch(ctx)
			return fetchErr
		}, common.RetryOptions{
			MaxAttempts:  2,
			InitialDelay: 200 * time.Millisecond,
			MaxDelay:     200 * time.Millisecond,
		})
		return snapshot, err
	}
}
