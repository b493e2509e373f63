package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/quadmind/ingestwatch/internal/cli"
	"github.com/quadmind/ingestwatch/internal/config"
	"github.com/quadmind/ingestwatch/internal/model"
	"github.com/quadmind/ingestwatch/internal/stats"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show per-domain ingestion tallies and timings",
		RunE:  runStats,
	}
}

func runStats(cmd *cobra.Command, _ []string) error {
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

	totals, err := store.Totals(ctx)
	if err != nil {
		return fmt.Errorf("failed to load domain totals: %w", err)
	}

	perf, err := store.Performance(ctx)
	if err != nil {
		return fmt.Errorf("failed to load performance stats: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, cli.BoldStyle.Render("Domain")+"\tCompleted\tAvg\tMin\tMax")

	order := []model.Domain{model.DomainMind, model.DomainBody, model.DomainHeart, model.DomainSoul}
	for _, d := range order {
		name := cli.DomainStyle(d).Render(d.String())
		if p, ok := perf[d]; ok {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
				name, totals[d],
				roundDuration(p.AvgTime),
				roundDuration(p.MinTime),
				roundDuration(p.MaxTime))
		} else {
			fmt.Fprintf(w, "%s\t%d\t-\t-\t-\n", name, totals[d])
		}
	}

	return w.Flush()
}

func roundDuration(d time.Duration) string {
	return d.Round(10 * time.Millisecond).String()
}
