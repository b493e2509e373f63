package monitor

import (
	"testing"
	"time"

	"github.com/quadmind/ingestwatch/internal/clock"
	"github.com/quadmind/ingestwatch/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(grace time.Duration) (*Registry, *clock.FakeClock) {
	clk := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	return NewRegistry(clk, grace), clk
}

func TestRegistryLifecycle(t *testing.T) {
	r, clk := newTestRegistry(3 * time.Second)

	r.OnFileStarted("security_audit.md", model.DomainSoul, 0.95)

	records := r.Snapshot()
	require.Len(t, records, 1)
	assert.Equal(t, model.StatusProcessing, records[0].Status)
	assert.Zero(t, records[0].Progress)
	assert.Equal(t, clk.Now(), records[0].StartTime)

	startTime, tracked := r.OnFileCompleted("security_audit.md")
	require.True(t, tracked)
	assert.Equal(t, clk.Now(), startTime)

	records = r.Snapshot()
	require.Len(t, records, 1)
	assert.Equal(t, model.StatusComplete, records[0].Status)
	assert.Equal(t, 100.0, records[0].Progress)
}

func TestRegistryEvictionAfterGrace(t *testing.T) {
	r, clk := newTestRegistry(3 * time.Second)

	r.OnFileStarted("a.log", model.DomainBody, 0.92)
	_, tracked := r.OnFileCompleted("a.log")
	require.True(t, tracked)

	// Still visible inside the grace window.
	clk.Advance(2 * time.Second)
	assert.Len(t, r.Snapshot(), 1)

	// Gone once the window elapses.
	clk.Advance(time.Second)
	assert.Empty(t, r.Snapshot())
}

func TestRegistryFailureKeepsLastProgress(t *testing.T) {
	r, clk := newTestRegistry(3 * time.Second)

	r.OnFileStarted("user_prefs.json", model.DomainHeart, 0.90)
	clk.Advance(5 * time.Second)
	r.Tick(10 * time.Second)

	require.True(t, r.OnFileFailed("user_prefs.json"))

	records := r.Snapshot()
	require.Len(t, records, 1)
	assert.Equal(t, model.StatusFailed, records[0].Status)
	assert.InDelta(t, 45.0, records[0].Progress, 0.01)
}

func TestRegistryUntrackedTerminalEvents(t *testing.T) {
	r, _ := newTestRegistry(3 * time.Second)

	// Completion for a file whose start predates the registry.
	_, tracked := r.OnFileCompleted("never_seen.md")
	assert.False(t, tracked)
	assert.False(t, r.OnFileFailed("never_seen.md"))
	assert.Empty(t, r.Snapshot())
}

func TestRegistryEvictionIsIdempotent(t *testing.T) {
	r, _ := newTestRegistry(3 * time.Second)

	r.OnFileStarted("a.log", model.DomainBody, 0.92)
	_, tracked := r.OnFileCompleted("a.log")
	require.True(t, tracked)

	record := r.records["a.log"]
	r.evictExpired("a.log", record)
	r.evictExpired("a.log", record)
	assert.Empty(t, r.Snapshot())
}

func TestRegistryStaleGraceCallbackSkipsRestartedRecord(t *testing.T) {
	r, _ := newTestRegistry(3 * time.Second)

	r.OnFileStarted("a.log", model.DomainBody, 0.92)
	_, tracked := r.OnFileCompleted("a.log")
	require.True(t, tracked)

	// The grace timer fires just as the same file restarts: Stop cannot
	// cancel the already-fired callback, which then runs holding the old
	// terminal record.
	stale := r.records["a.log"]
	r.OnFileStarted("a.log", model.DomainBody, 0.92)
	r.evictExpired("a.log", stale)

	records := r.Snapshot()
	require.Len(t, records, 1)
	assert.Equal(t, model.StatusProcessing, records[0].Status)
}

func TestRegistryStaleGraceCallbackAfterEviction(t *testing.T) {
	r, clk := newTestRegistry(3 * time.Second)

	r.OnFileStarted("a.log", model.DomainBody, 0.92)
	_, tracked := r.OnFileCompleted("a.log")
	require.True(t, tracked)

	stale := r.records["a.log"]
	clk.Advance(3 * time.Second)
	require.Empty(t, r.Snapshot())

	// A duplicate fire against an already-evicted name is a no-op.
	r.evictExpired("a.log", stale)
	assert.Empty(t, r.Snapshot())
}

func TestRegistryRestartResetsStaleRecord(t *testing.T) {
	r, clk := newTestRegistry(3 * time.Second)

	r.OnFileStarted("a.log", model.DomainBody, 0.92)
	_, tracked := r.OnFileCompleted("a.log")
	require.True(t, tracked)

	// The same file starts again before eviction: fresh record, and the
	// stale eviction must not reap it.
	clk.Advance(time.Second)
	r.OnFileStarted("a.log", model.DomainBody, 0.92)

	clk.Advance(5 * time.Second)
	records := r.Snapshot()
	require.Len(t, records, 1)
	assert.Equal(t, model.StatusProcessing, records[0].Status)
}

func TestRegistryTickCapsAtNinety(t *testing.T) {
	r, clk := newTestRegistry(3 * time.Second)

	r.OnFileStarted("slow_ingest.pdf", model.DomainMind, 0.75)

	simulated := 10 * time.Second
	for i := 0; i < 60; i++ {
		clk.Advance(500 * time.Millisecond)
		r.Tick(simulated)

		records := r.Snapshot()
		require.Len(t, records, 1)
		assert.Less(t, records[0].Progress, 100.0)
		assert.LessOrEqual(t, records[0].Progress, 90.0)
	}

	// 30 simulated seconds in, progress holds at the cap.
	records := r.Snapshot()
	assert.Equal(t, 90.0, records[0].Progress)

	// Only the authoritative completion reaches 100.
	_, tracked := r.OnFileCompleted("slow_ingest.pdf")
	require.True(t, tracked)
	assert.Equal(t, 100.0, r.Snapshot()[0].Progress)
}

func TestRegistryTickRamp(t *testing.T) {
	r, clk := newTestRegistry(3 * time.Second)

	r.OnFileStarted("guide.md", model.DomainMind, 0.93)

	clk.Advance(2500 * time.Millisecond)
	r.Tick(10 * time.Second)

	records := r.Snapshot()
	require.Len(t, records, 1)
	// 2.5s of an assumed 10s ingest: a quarter of the 90% ramp.
	assert.InDelta(t, 22.5, records[0].Progress, 0.01)
}

func TestRegistryTickSkipsTerminalRecords(t *testing.T) {
	r, clk := newTestRegistry(time.Minute)

	r.OnFileStarted("done.log", model.DomainBody, 0.92)
	_, tracked := r.OnFileCompleted("done.log")
	require.True(t, tracked)

	clk.Advance(5 * time.Second)
	r.Tick(10 * time.Second)

	assert.Equal(t, 100.0, r.Snapshot()[0].Progress)
}

func TestRegistrySnapshotOrdersByStartTime(t *testing.T) {
	r, clk := newTestRegistry(time.Minute)

	r.OnFileStarted("b_second.md", model.DomainMind, 0.75)
	clk.Advance(time.Second)
	r.OnFileStarted("a_third.md", model.DomainMind, 0.75)

	records := r.Snapshot()
	require.Len(t, records, 2)
	assert.Equal(t, "b_second.md", records[0].FileName)
	assert.Equal(t, "a_third.md", records[1].FileName)
}
