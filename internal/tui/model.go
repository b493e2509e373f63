// Package tui renders the live ingestion dashboard: pipeline state, tracked
// files with simulated progress, the notification feed, and domain tallies.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/quadmind/ingestwatch/internal/cli"
	"github.com/quadmind/ingestwatch/internal/model"
	"github.com/quadmind/ingestwatch/internal/monitor"
)

// refreshInterval is how often the dashboard re-reads the registry. It is a
// render cadence only; the monitor's own timers are independent.
const refreshInterval = 250 * time.Millisecond

// maxFeedLines caps the rolling notification feed.
const maxFeedLines = 6

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#95E1D3"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))

	degradedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(cli.WarningColor)

	helpStyle = lipgloss.NewStyle().
			Foreground(cli.SubtleColor)
)

// Model is the dashboard's bubbletea model.
type Model struct {
	mon      *monitor.Monitor
	totals   model.DomainTotals
	feed     []string
	table    table.Model
	spinner  spinner.Model
	width    int
	height   int
	quitting bool
}

// newModel creates the dashboard model seeded with persisted domain totals.
func newModel(mon *monitor.Monitor, totals model.DomainTotals) Model {
	columns := []table.Column{
		{Title: "File", Width: 36},
		{Title: "Domain", Width: 8},
		{Title: "Conf", Width: 6},
		{Title: "Progress", Width: 24},
		{Title: "Status", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(8),
		table.WithFocused(false),
	)

	s := spinner.New()
	s.Spinner = spinner.Dot

	if totals == nil {
		totals = make(model.DomainTotals)
	}

	return Model{
		mon:     mon,
		totals:  totals,
		table:   t,
		spinner: s,
	}
}

// Init starts the spinner and the refresh cadence.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, refreshCmd())
}

func refreshCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

// Update handles all dashboard messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case refreshMsg:
		m.table.SetRows(m.buildRows())
		return m, refreshCmd()

	case EventMsg:
		if msg.Event.Kind == model.EventFileCompleted {
			m.totals[msg.Event.Domain]++
		}

	case NotificationMsg:
		m.feed = append([]string{formatNotification(msg.Notification)}, m.feed...)
		if len(m.feed) > maxFeedLines {
			m.feed = m.feed[:maxFeedLines]
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		titleStyle.Render("Ingestion Activity"),
		m.renderHeader(),
		"",
		m.table.View(),
		"",
		m.renderFeed(),
		m.renderTotals(),
		helpStyle.Render("q: quit"),
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) buildRows() []table.Row {
	records := m.mon.Files()
	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, table.Row{
			r.FileName,
			r.Domain.String(),
			fmt.Sprintf("%.0f%%", r.Confidence*100),
			renderProgress(r.Progress),
			statusLabel(r.Status),
		})
	}
	return rows
}

func (m Model) renderHeader() string {
	snapshot, degraded := m.mon.Status()

	if snapshot == nil {
		return headerStyle.Render("waiting for first status poll " + m.spinner.View())
	}

	state := "idle"
	if snapshot.IsActive {
		state = "active " + m.spinner.View()
	}

	line := fmt.Sprintf("pipeline: %s   processed: %d   failed: %d",
		state, snapshot.FilesProcessed, snapshot.FilesFailed)
	if snapshot.LastError != nil {
		line += "   last error: " + *snapshot.LastError
	}

	rendered := headerStyle.Render(line)
	if degraded {
		rendered += "  " + degradedStyle.Render("⚠ link degraded")
	}
	return rendered
}

func (m Model) renderFeed() string {
	if len(m.feed) == 0 {
		return helpStyle.Render("no notifications yet")
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.feed...)
}

func (m Model) renderTotals() string {
	parts := make([]string, 0, 4)
	for _, d := range []model.Domain{model.DomainMind, model.DomainBody, model.DomainHeart, model.DomainSoul} {
		parts = append(parts, cli.DomainStyle(d).Render(
			fmt.Sprintf("%s %d", d.String(), m.totals[d])))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, "  totals: ", lipgloss.JoinHorizontal(lipgloss.Top, joinWithSeparator(parts, "  ")...))
}

func joinWithSeparator(parts []string, sep string) []string {
	out := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, p)
	}
	return out
}

// renderProgress draws a fixed-width bar; the simulator caps at 90 so a full
// bar only ever means a confirmed completion.
func renderProgress(progress float64) string {
	const width = 20
	filled := int(progress / 100 * width)
	if filled > width {
		filled = width
	}

	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return fmt.Sprintf("%s %3.0f%%", bar, progress)
}

func statusLabel(status model.FileStatus) string {
	switch status {
	case model.StatusProcessing:
		return "processing"
	case model.StatusComplete:
		return "complete"
	case model.StatusFailed:
		return "failed"
	default:
		return string(status)
	}
}

func formatNotification(n model.Notification) string {
	switch n.Kind {
	case model.NotificationDetailed:
		return cli.SuccessStyle.Render(fmt.Sprintf("✓ %s ingested into %s (%.0f%% confidence)",
			n.FileName, n.Domain.String(), n.Confidence*100))
	case model.NotificationItem:
		return cli.SuccessStyle.Render(fmt.Sprintf("✓ %s → %s", n.FileName, n.Domain.String()))
	case model.NotificationSummary:
		return cli.BoldStyle.Render(cli.FormatSummary(n))
	default:
		return ""
	}
}
