package monitor

import (
	"context"
	"time"

	"github.com/quadmind/ingestwatch/internal/clock"
)

// Simulator ticks the registry's visual progress on its own cadence,
// independent of the poll interval. The pipeline reports no intermediate
// progress, so between polls this is the only thing moving the display.
type Simulator struct {
	clock    clock.Clock
	registry *Registry
	cancel   context.CancelFunc
	done     chan struct{}
	tick     time.Duration
	duration time.Duration
	started  bool
}

// NewSimulator creates a simulator that advances registry progress every tick,
// assuming files take duration to ingest.
func NewSimulator(clk clock.Clock, registry *Registry, tick, duration time.Duration) *Simulator {
	return &Simulator{
		clock:    clk,
		registry: registry,
		tick:     tick,
		duration: duration,
	}
}

// Start begins ticking. Not safe to call twice.
func (s *Simulator) Start(ctx context.Context) {
	if s.started {
		return
	}
	s.started = true

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)

		ticker := s.clock.NewTicker(s.tick)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.registry.Tick(s.duration)
			}
		}
	}()
}

// Stop halts the tick loop and waits for it to exit.
func (s *Simulator) Stop() {
	if !s.started {
		return
	}
	s.cancel()
	<-s.done
}
