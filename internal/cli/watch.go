package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/quadmind/ingestwatch/internal/clock"
	"github.com/quadmind/ingestwatch/internal/model"
	"github.com/quadmind/ingestwatch/internal/monitor"
)

// PlainWatcher renders monitor activity as plain terminal output: one
// progress bar for the file currently being ingested, and styled lines for
// lifecycle events and notifications. It is the fallback for terminals (or
// pipes) where the full-screen dashboard is unwanted.
type PlainWatcher struct {
	clock   clock.Clock
	mon     *monitor.Monitor
	writer  io.Writer
	tick    time.Duration
	mu      sync.Mutex
	bar     *progressbar.ProgressBar
	barFile string
}

// NewPlainWatcher creates a plain renderer for the given monitor, refreshing
// the progress bar every tick.
func NewPlainWatcher(clk clock.Clock, mon *monitor.Monitor, writer io.Writer, tick time.Duration) *PlainWatcher {
	return &PlainWatcher{
		clock:  clk,
		mon:    mon,
		writer: writer,
		tick:   tick,
	}
}

// HandleEvent is subscribed to the monitor's lifecycle events.
func (w *PlainWatcher) HandleEvent(event model.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch event.Kind {
	case model.EventFileStarted:
		w.closeBarLocked()
		w.barFile = event.FileName
		w.bar = w.newBar(event)

	case model.EventFileCompleted:
		if event.FileName == w.barFile {
			w.finishBarLocked()
		}

	case model.EventFileFailed:
		if event.FileName == w.barFile {
			w.closeBarLocked()
		}
		fmt.Fprintln(w.writer, ErrorStyle.Render(fmt.Sprintf("✗ %s failed", event.FileName)))
	}
}

// Notify is the monitor's notification emitter.
func (w *PlainWatcher) Notify(notification model.Notification) {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch notification.Kind {
	case model.NotificationDetailed:
		fmt.Fprintln(w.writer, SuccessStyle.Render(fmt.Sprintf(
			"✓ %s ingested into %s (%.0f%% confidence)",
			notification.FileName,
			notification.Domain.String(),
			notification.Confidence*100)))

	case model.NotificationItem:
		fmt.Fprintln(w.writer, SuccessStyle.Render(fmt.Sprintf(
			"✓ %s → %s",
			notification.FileName,
			notification.Domain.String())))

	case model.NotificationSummary:
		fmt.Fprintln(w.writer, BoldStyle.Render(FormatSummary(notification)))
	}
}

// Run refreshes the active progress bar until the context is cancelled.
func (w *PlainWatcher) Run(ctx context.Context) {
	ticker := w.clock.NewTicker(w.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			w.closeBarLocked()
			w.mu.Unlock()
			return
		case <-ticker.C:
			w.refresh()
		}
	}
}

// refresh pushes the registry's simulated progress into the live bar.
func (w *PlainWatcher) refresh() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.bar == nil {
		return
	}

	for _, record := range w.mon.Files() {
		if record.FileName != w.barFile {
			continue
		}
		if record.Status == model.StatusProcessing {
			if err := w.bar.Set(int(record.Progress)); err != nil {
				slog.Warn("Failed to update progress bar", "error", err)
			}
		}
		return
	}
}

func (w *PlainWatcher) newBar(event model.Event) *progressbar.ProgressBar {
	description := fmt.Sprintf("[cyan]%s[reset] → %s",
		event.FileName, event.Domain.String())

	return progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func (w *PlainWatcher) finishBarLocked() {
	if w.bar == nil {
		return
	}
	if err := w.bar.Finish(); err != nil {
		slog.Warn("Failed to finish progress bar", "error", err)
	}
	fmt.Fprintln(w.writer)
	w.bar = nil
	w.barFile = ""
}

func (w *PlainWatcher) closeBarLocked() {
	if w.bar == nil {
		return
	}
	if err := w.bar.Clear(); err != nil {
		slog.Warn("Failed to clear progress bar", "error", err)
	}
	w.bar = nil
	w.barFile = ""
}

// displayOrder is the fixed order domains appear in rendered summaries.
var displayOrder = []model.Domain{
	model.DomainMind, model.DomainBody, model.DomainHeart, model.DomainSoul,
}

// FormatSummary renders a summary notification as a single line, for example
// "12 files ingested: Mind: 5, Body: 4, Soul: 3". Zero-count domains are
// omitted.
func FormatSummary(notification model.Notification) string {
	parts := make([]string, 0, len(notification.DomainCounts))
	for _, d := range displayOrder {
		if count, ok := notification.DomainCounts[d]; ok && count > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d", d.String(), count))
		}
	}
	return fmt.Sprintf("%d files ingested: %s", notification.Total, strings.Join(parts, ", "))
}
