package monitor

import (
	"context"
	"log/slog"
	"sync"

	"github.com/quadmind/ingestwatch/internal/clock"
	"github.com/quadmind/ingestwatch/internal/common"
	"github.com/quadmind/ingestwatch/internal/config"
	"github.com/quadmind/ingestwatch/internal/feed"
	"github.com/quadmind/ingestwatch/internal/model"
	"github.com/quadmind/ingestwatch/internal/notify"
	"github.com/quadmind/ingestwatch/internal/stats"
)

// EventFunc receives every inferred lifecycle event, in detection order.
type EventFunc func(model.Event)

// Monitor owns the full ingestion-watching pipeline: it polls the status
// feed, diffs snapshots into lifecycle events, keeps the file registry and
// its simulated progress current, tallies completions into the stats sink,
// and debounces completion notifications.
type Monitor struct {
	cfg       config.Monitor
	clock     clock.Clock
	detector  *Detector
	registry  *Registry
	simulator *Simulator
	batcher   *notify.Batcher
	poller    *feed.Poller
	sink      stats.Sink

	ctx context.Context

	mu          sync.Mutex
	subscribers []EventFunc
	last        *model.StatusSnapshot
	degraded    bool
}

// New assembles a monitor from its collaborators. fetch supplies status
// snapshots, sink receives one increment per completed file, and emit
// receives batched notifications.
func New(cfg config.Monitor, clk clock.Clock, fetch feed.FetchFunc, sink stats.Sink, emit notify.EmitFunc) *Monitor {
	m := &Monitor{
		cfg:      cfg,
		clock:    clk,
		detector: NewDetector(),
		registry: NewRegistry(clk, cfg.EvictionGrace),
		sink:     sink,
	}
	m.simulator = NewSimulator(clk, m.registry, cfg.ProgressTick, cfg.SimulatedDuration)
	m.batcher = notify.NewBatcher(clk, cfg.BatchWindow, cfg.BatchSummaryThreshold, emit)
	m.poller = feed.NewPoller(clk, cfg.PollInterval, fetch, m.handlePoll)
	return m
}

// Subscribe registers a callback for lifecycle events. Must be called before
// Start; callbacks run on the poll goroutine and should return quickly.
func (m *Monitor) Subscribe(fn EventFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

// Start launches the poll and progress timers.
func (m *Monitor) Start(ctx context.Context) {
	m.ctx = ctx
	m.poller.Start(ctx)
	m.simulator.Start(ctx)
	slog.Info("Ingestion monitor started",
		"endpoint", m.cfg.Endpoint,
		"poll_interval", m.cfg.PollInterval)
}

// Stop tears down all timers. An in-flight fetch is abandoned and queued
// notifications are dropped.
func (m *Monitor) Stop() {
	m.poller.Stop()
	m.simulator.Stop()
	m.batcher.Stop()
	m.registry.Close()
	slog.Info("Ingestion monitor stopped")
}

// Files returns a render-ready copy of the tracked file records.
func (m *Monitor) Files() []model.FileLifecycleRecord {
	return m.registry.Snapshot()
}

// Status returns the most recent snapshot and whether the feed link is
// degraded. The snapshot is nil until the first successful poll.
func (m *Monitor) Status() (*model.StatusSnapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last, m.degraded
}

// handlePoll is the poller's observer: it runs once per poll result, diffs
// the snapshot against the previous one, and dispatches the implied events.
func (m *Monitor) handlePoll(snapshot model.StatusSnapshot, degraded bool) {
	m.mu.Lock()
	prev := m.last
	m.last = &snapshot
	if degraded != m.degraded {
		if degraded {
			slog.Warn("Status feed link degraded, displaying last known state")
		} else {
			slog.Info("Status feed link restored")
		}
	}
	m.degraded = degraded
	m.mu.Unlock()

	if prev != nil && prev.SessionReset(&snapshot) {
		slog.Info("Pipeline session reset detected",
			"files_processed", snapshot.FilesProcessed,
			"files_failed", snapshot.FilesFailed)
	}

	for _, event := range m.detector.Reduce(snapshot) {
		m.dispatch(event, &snapshot)
	}
}

func (m *Monitor) dispatch(event model.Event, snapshot *model.StatusSnapshot) {
	switch event.Kind {
	case model.EventFileStarted:
		m.registry.OnFileStarted(event.FileName, event.Domain, event.Confidence)
		slog.Debug("File ingestion started",
			"file", event.FileName,
			"domain", event.Domain.String(),
			"confidence", event.Confidence)

	case model.EventFileCompleted:
		startTime, tracked := m.registry.OnFileCompleted(event.FileName)

		// The tally is incremented per completion no matter how the
		// notification ends up batched.
		if err := m.sink.Increment(m.ctx, event.Domain); err != nil {
			common.LogError(err, "Failed to increment domain tally", common.Fields{
				"file":   event.FileName,
				"domain": event.Domain.String(),
			})
		}
		if tracked {
			elapsed := m.clock.Now().Sub(startTime)
			if err := m.sink.RecordDuration(m.ctx, event.Domain, elapsed); err != nil {
				common.LogError(err, "Failed to record ingest duration", common.Fields{
					"file": event.FileName,
				})
			}
		}

		m.batcher.Add(model.PendingNotification{
			FileName:   event.FileName,
			Domain:     event.Domain,
			Confidence: event.Confidence,
		})
		slog.Debug("File ingestion completed",
			"file", event.FileName,
			"domain", event.Domain.String())

	case model.EventFileFailed:
		m.registry.OnFileFailed(event.FileName)

		fields := common.Fields{"file": event.FileName}
		if snapshot.LastError != nil {
			fields["last_error"] = *snapshot.LastError
		}
		common.LogInfo("File ingestion failed", fields)
	}

	m.publish(event)
}

func (m *Monitor) publish(event model.Event) {
	m.mu.Lock()
	subscribers := make([]EventFunc, len(m.subscribers))
	copy(subscribers, m.subscribers)
	m.mu.Unlock()

	for _, fn := range subscribers {
		fn(event)
	}
}
