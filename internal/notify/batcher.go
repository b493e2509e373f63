// Package notify coalesces file-completion events into user notifications,
// throttling bursts so a batch ingest does not flood the operator.
package notify

import (
	"sync"
	"time"

	"github.com/quadmind/ingestwatch/internal/clock"
	"github.com/quadmind/ingestwatch/internal/model"
)

// EmitFunc delivers one notification to whatever surface is listening.
type EmitFunc func(model.Notification)

// Batcher queues completions behind a sliding debounce window. Every new
// completion reschedules the flush timer, so the window keeps sliding while
// completions keep arriving; only once the feed goes quiet does the queue
// flush. Small batches emit per-file notifications, large ones collapse into
// a single per-domain summary.
//
// Batching is purely presentational: domain tallies are incremented per
// completion elsewhere, regardless of how notifications coalesce.
type Batcher struct {
	clock     clock.Clock
	emit      EmitFunc
	timer     *clock.Timer
	queue     []model.PendingNotification
	window    time.Duration
	threshold int

	mu sync.Mutex
	// generation identifies the current flush schedule. A flush that fired
	// moments before its timer was "stopped" carries a stale generation and
	// drains nothing, so a rescheduled window cannot be cut short.
	generation uint64
}

// NewBatcher creates a batcher with the given debounce window and summary
// threshold. Batches larger than threshold emit one summary instead of
// individual notifications.
func NewBatcher(clk clock.Clock, window time.Duration, threshold int, emit EmitFunc) *Batcher {
	return &Batcher{
		clock:     clk,
		window:    window,
		threshold: threshold,
		emit:      emit,
	}
}

// Add queues a completion and slides the flush window.
func (b *Batcher) Add(pending model.PendingNotification) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.queue = append(b.queue, pending)

	if b.timer != nil {
		b.timer.Stop()
	}
	b.generation++
	gen := b.generation
	b.timer = b.clock.AfterFunc(b.window, func() { b.flush(gen) })
}

// Pending returns the number of queued completions.
func (b *Batcher) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

// Stop cancels any scheduled flush. Queued completions are dropped; delivery
// is best-effort by design.
func (b *Batcher) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.generation++
	b.queue = nil
}

// flush drains the queue atomically and emits according to its size. A
// superseded flush (its window slid, or Stop intervened) drains nothing.
func (b *Batcher) flush(gen uint64) {
	b.mu.Lock()
	if gen != b.generation {
		b.mu.Unlock()
		return
	}
	batch := b.queue
	b.queue = nil
	b.timer = nil
	b.mu.Unlock()

	notifications := buildNotifications(batch, b.threshold)
	for _, n := range notifications {
		b.emit(n)
	}
}

// buildNotifications applies the flush policy: nothing for an empty batch, a
// detailed notification for a single completion, individual items up to the
// threshold, and one per-domain summary beyond it.
func buildNotifications(batch []model.PendingNotification, threshold int) []model.Notification {
	switch {
	case len(batch) == 0:
		// A timer only ever gets scheduled on push, but guard anyway.
		return nil

	case len(batch) == 1:
		return []model.Notification{{
			Kind:       model.NotificationDetailed,
			FileName:   batch[0].FileName,
			Domain:     batch[0].Domain,
			Confidence: batch[0].Confidence,
			Total:      1,
		}}

	case len(batch) <= threshold:
		out := make([]model.Notification, 0, len(batch))
		for _, p := range batch {
			out = append(out, model.Notification{
				Kind:       model.NotificationItem,
				FileName:   p.FileName,
				Domain:     p.Domain,
				Confidence: p.Confidence,
				Total:      len(batch),
			})
		}
		return out

	default:
		counts := make(map[model.Domain]int)
		for _, p := range batch {
			counts[p.Domain]++
		}
		return []model.Notification{{
			Kind:         model.NotificationSummary,
			DomainCounts: counts,
			Total:        len(batch),
		}}
	}
}
