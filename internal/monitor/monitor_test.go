package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/quadmind/ingestwatch/internal/clock"
	"github.com/quadmind/ingestwatch/internal/config"
	"github.com/quadmind/ingestwatch/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notificationCapture struct {
	mu   sync.Mutex
	sent []model.Notification
}

func (c *notificationCapture) emit(n model.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, n)
}

func (c *notificationCapture) all() []model.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Notification, len(c.sent))
	copy(out, c.sent)
	return out
}

// newTestMonitor wires a monitor whose poller is never started; tests drive
// handlePoll directly so every snapshot lands deterministically.
func newTestMonitor(t *testing.T) (*Monitor, *MockSink, *notificationCapture, *clock.FakeClock) {
	t.Helper()

	clk := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	sink := NewMockSink()
	capture := &notificationCapture{}

	cfg := config.DefaultMonitor()
	m := New(cfg, clk, nil, sink, capture.emit)
	m.ctx = context.Background()

	return m, sink, capture, clk
}

func TestMonitorCompletionFlow(t *testing.T) {
	m, sink, capture, clk := newTestMonitor(t)

	var events []model.Event
	m.Subscribe(func(e model.Event) { events = append(events, e) })

	// Idle, then a.log starts, then the pipeline goes idle with the
	// processed counter advanced by one.
	m.handlePoll(model.StatusSnapshot{IsActive: false}, false)
	m.handlePoll(model.StatusSnapshot{IsActive: true, CurrentFile: strPtr("a.log")}, false)

	files := m.Files()
	require.Len(t, files, 1)
	assert.Equal(t, "a.log", files[0].FileName)
	assert.Equal(t, model.StatusProcessing, files[0].Status)
	assert.Equal(t, model.DomainBody, files[0].Domain)

	clk.Advance(4 * time.Second)
	m.handlePoll(model.StatusSnapshot{IsActive: false, FilesProcessed: 1}, false)

	// Exactly one Body increment, regardless of batching.
	assert.Equal(t, 1, sink.Count(model.DomainBody))

	// The observed lifecycle duration is attributed to the domain.
	durations := sink.Durations(model.DomainBody)
	require.Len(t, durations, 1)
	assert.Equal(t, 4*time.Second, durations[0])

	// Subscribers saw started then completed.
	require.Len(t, events, 2)
	assert.Equal(t, model.EventFileStarted, events[0].Kind)
	assert.Equal(t, model.EventFileCompleted, events[1].Kind)
	assert.Equal(t, "a.log", events[1].FileName)

	// The record turned terminal with authoritative progress.
	files = m.Files()
	require.Len(t, files, 1)
	assert.Equal(t, model.StatusComplete, files[0].Status)
	assert.Equal(t, 100.0, files[0].Progress)

	// The notification arrives once the debounce window elapses.
	assert.Empty(t, capture.all())
	clk.Advance(500 * time.Millisecond)
	sent := capture.all()
	require.Len(t, sent, 1)
	assert.Equal(t, model.NotificationDetailed, sent[0].Kind)
	assert.Equal(t, "a.log", sent[0].FileName)

	// And the terminal record evicts after the grace period.
	clk.Advance(3 * time.Second)
	assert.Empty(t, m.Files())
}

func TestMonitorFailureDoesNotIncrement(t *testing.T) {
	m, sink, capture, clk := newTestMonitor(t)

	m.handlePoll(model.StatusSnapshot{IsActive: false}, false)
	m.handlePoll(model.StatusSnapshot{IsActive: true, CurrentFile: strPtr("b.log")}, false)
	m.handlePoll(model.StatusSnapshot{
		IsActive:    false,
		FilesFailed: 1,
		LastError:   strPtr("embedding dimension mismatch"),
	}, false)

	assert.Equal(t, 0, sink.Count(model.DomainBody))
	assert.Empty(t, sink.Durations(model.DomainBody))

	files := m.Files()
	require.Len(t, files, 1)
	assert.Equal(t, model.StatusFailed, files[0].Status)

	clk.Advance(time.Second)
	assert.Empty(t, capture.all())
}

func TestMonitorUntrackedCompletionStillCountsAndNotifies(t *testing.T) {
	m, sink, capture, clk := newTestMonitor(t)

	// The monitor attaches mid-ingest: the first snapshot already shows an
	// active file, so no started event is ever seen for it... and then the
	// registry has nothing to transition. The tally and notification must
	// still happen.
	m.handlePoll(model.StatusSnapshot{IsActive: true, CurrentFile: strPtr("security_audit.md")}, false)
	m.handlePoll(model.StatusSnapshot{IsActive: false, FilesProcessed: 1}, false)

	assert.Equal(t, 1, sink.Count(model.DomainSoul))
	// No start time was observed, so no duration sample is recorded.
	assert.Empty(t, sink.Durations(model.DomainSoul))
	assert.Empty(t, m.Files())

	clk.Advance(500 * time.Millisecond)
	sent := capture.all()
	require.Len(t, sent, 1)
	assert.Equal(t, "security_audit.md", sent[0].FileName)
}

func TestMonitorBurstCollapsesToSummary(t *testing.T) {
	m, sink, capture, clk := newTestMonitor(t)

	names := []string{
		"api_one.md", "api_two.md", "api_three.md",
		"sys_one.log", "sys_two.log",
		"audit_one.md", "audit_two.md",
	}

	prev := model.StatusSnapshot{IsActive: false}
	m.handlePoll(prev, false)

	processed := 0
	for _, name := range names {
		m.handlePoll(model.StatusSnapshot{
			IsActive:       true,
			CurrentFile:    strPtr(name),
			FilesProcessed: processed,
		}, false)
		processed++
		m.handlePoll(model.StatusSnapshot{
			IsActive:       false,
			FilesProcessed: processed,
		}, false)
		// Completions land well inside one debounce window.
		clk.Advance(10 * time.Millisecond)
	}

	clk.Advance(500 * time.Millisecond)

	sent := capture.all()
	require.Len(t, sent, 1)
	assert.Equal(t, model.NotificationSummary, sent[0].Kind)
	assert.Equal(t, 7, sent[0].Total)
	assert.Equal(t, map[model.Domain]int{
		model.DomainMind: 3,
		model.DomainBody: 2,
		model.DomainSoul: 2,
	}, sent[0].DomainCounts)

	// Batching never affects tallies: one increment per completion.
	assert.Equal(t, 3, sink.Count(model.DomainMind))
	assert.Equal(t, 2, sink.Count(model.DomainBody))
	assert.Equal(t, 2, sink.Count(model.DomainSoul))
}

func TestMonitorSinkFailureIsNotFatal(t *testing.T) {
	m, sink, capture, clk := newTestMonitor(t)
	sink.FailWith(errors.New("disk full"))

	m.handlePoll(model.StatusSnapshot{IsActive: false}, false)
	m.handlePoll(model.StatusSnapshot{IsActive: true, CurrentFile: strPtr("a.log")}, false)
	m.handlePoll(model.StatusSnapshot{IsActive: false, FilesProcessed: 1}, false)

	// The tally failed, but the notification path is unaffected.
	clk.Advance(500 * time.Millisecond)
	assert.Len(t, capture.all(), 1)
}

func TestMonitorStatusTracksDegradedLink(t *testing.T) {
	m, _, _, _ := newTestMonitor(t)

	snapshot, degraded := m.Status()
	assert.Nil(t, snapshot)
	assert.False(t, degraded)

	m.handlePoll(model.StatusSnapshot{IsActive: true, CurrentFile: strPtr("a.log")}, false)
	snapshot, degraded = m.Status()
	require.NotNil(t, snapshot)
	assert.False(t, degraded)

	// The replayed snapshot flips the degraded flag without fabricating
	// lifecycle events.
	var events []model.Event
	m.Subscribe(func(e model.Event) { events = append(events, e) })
	m.handlePoll(model.StatusSnapshot{IsActive: true, CurrentFile: strPtr("a.log")}, true)

	_, degraded = m.Status()
	assert.True(t, degraded)
	assert.Empty(t, events)
}
