package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quadmind/ingestwatch/internal/model"
	"github.com/quadmind/ingestwatch/internal/monitor"
)

// Run starts the dashboard and blocks until the user quits or the context is
// cancelled. The monitor must already be wired to the feed — feed.Emit as its
// notification emitter and feed.EmitEvent subscribed before Start — so no
// event can slip past the dashboard; Run attaches the feed, which flushes
// anything buffered in the meantime.
func Run(ctx context.Context, mon *monitor.Monitor, feed *Feed, totals model.DomainTotals) error {
	program := tea.NewProgram(
		newModel(mon, totals),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	feed.Attach(program)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}
