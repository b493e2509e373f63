package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/quadmind/ingestwatch/internal/clock"
	"github.com/quadmind/ingestwatch/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatorAdvancesProgress(t *testing.T) {
	clk := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	registry := NewRegistry(clk, time.Minute)
	registry.OnFileStarted("guide.md", model.DomainMind, 0.93)

	sim := NewSimulator(clk, registry, 500*time.Millisecond, 10*time.Second)
	sim.Start(context.Background())
	defer sim.Stop()

	// Wait for the tick loop to register its ticker before advancing.
	clk.WaitForTimers(1)
	clk.Advance(500 * time.Millisecond)

	require.Eventually(t, func() bool {
		records := registry.Snapshot()
		return len(records) == 1 && records[0].Progress > 0
	}, 5*time.Second, 10*time.Millisecond)

	records := registry.Snapshot()
	assert.InDelta(t, 4.5, records[0].Progress, 0.01)
	assert.Less(t, records[0].Progress, 90.0)
}

func TestSimulatorStopHaltsTicks(t *testing.T) {
	clk := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	registry := NewRegistry(clk, time.Minute)
	registry.OnFileStarted("guide.md", model.DomainMind, 0.93)

	sim := NewSimulator(clk, registry, 500*time.Millisecond, 10*time.Second)
	sim.Start(context.Background())

	clk.WaitForTimers(1)
	sim.Stop()

	clk.Advance(5 * time.Second)
	records := registry.Snapshot()
	require.Len(t, records, 1)
	assert.Zero(t, records[0].Progress)
}
