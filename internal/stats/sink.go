// Package stats persists per-domain ingestion tallies and timing samples.
package stats

import (
	"context"
	"time"

	"github.com/quadmind/ingestwatch/internal/model"
)

// Sink receives exactly one Increment per successfully completed file.
// Failed files never increment domain tallies. RecordDuration is called
// alongside Increment when the monitor observed the file's full lifecycle
// and can attribute an ingest duration.
type Sink interface {
	Increment(ctx context.Context, domain model.Domain) error
	RecordDuration(ctx context.Context, domain model.Domain, elapsed time.Duration) error
	Totals(ctx context.Context) (model.DomainTotals, error)
	Performance(ctx context.Context) (model.DomainPerformance, error)
	Close() error
}
