package feed

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/quadmind/ingestwatch/internal/clock"
	"github.com/quadmind/ingestwatch/internal/model"
)

// FetchFunc retrieves one status snapshot. Client.Fetch satisfies it.
type FetchFunc func(ctx context.Context) (model.StatusSnapshot, error)

// ObserveFunc receives each poll result. degraded is true while the feed is
// failing and the snapshot is a replay of the last good one.
type ObserveFunc func(snapshot model.StatusSnapshot, degraded bool)

// Poller fetches the status feed on a fixed interval. Fetch failures never
// reach the observer as errors: the last good snapshot is re-emitted with the
// degraded flag raised, so downstream diffing sees no phantom transitions.
type Poller struct {
	clock    clock.Clock
	fetch    FetchFunc
	observe  ObserveFunc
	cancel   context.CancelFunc
	done     chan struct{}
	interval time.Duration

	mu       sync.Mutex
	last     *model.StatusSnapshot
	fetching bool
	started  bool
}

// NewPoller creates a poller that invokes fetch every interval and hands
// results to observe.
func NewPoller(clk clock.Clock, interval time.Duration, fetch FetchFunc, observe ObserveFunc) *Poller {
	return &Poller{
		clock:    clk,
		interval: interval,
		fetch:    fetch,
		observe:  observe,
	}
}

// Start begins polling. The first fetch fires immediately rather than one
// interval in. Start is not safe to call twice.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})

	go p.run(ctx)
}

// Stop cancels the poll loop and waits for it to exit. An in-flight fetch is
// not awaited; its result is discarded when it lands.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	p.cancel()
	<-p.done
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

// poll dispatches one fetch unless a previous one is still outstanding, in
// which case the tick is skipped.
func (p *Poller) poll(ctx context.Context) {
	p.mu.Lock()
	if p.fetching {
		p.mu.Unlock()
		slog.Debug("Skipping poll tick, fetch still in flight")
		return
	}
	p.fetching = true
	p.mu.Unlock()

	go func() {
		snapshot, err := p.fetch(ctx)

		p.mu.Lock()
		p.fetching = false
		if ctx.Err() != nil {
			// Poller was stopped while the fetch was in flight.
			p.mu.Unlock()
			return
		}

		if err != nil {
			last := p.last
			p.mu.Unlock()

			slog.Warn("Status fetch failed, re-emitting last snapshot", "error", err)
			if last != nil {
				p.observe(*last, true)
			}
			return
		}

		p.last = &snapshot
		p.mu.Unlock()

		p.observe(snapshot, false)
	}()
}
