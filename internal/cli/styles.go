// Package cli provides styled terminal output for the non-TUI watch mode.
package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/quadmind/ingestwatch/internal/model"
)

var (
	// SuccessColor indicates successful operations.
	SuccessColor = lipgloss.Color("#4ECDC4") // Teal
	// WarningColor indicates warnings or caution messages.
	WarningColor = lipgloss.Color("#FFE66D") // Yellow
	// ErrorColor indicates errors or failure messages.
	ErrorColor = lipgloss.Color("#FF6B6B") // Red
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666") // Gray

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats errors or failure messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// BoldStyle makes text bold.
	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	domainStyles = map[model.Domain]lipgloss.Style{
		model.DomainMind:  lipgloss.NewStyle().Foreground(lipgloss.Color("#95E1D3")),
		model.DomainBody:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFE66D")),
		model.DomainHeart: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8FAB")),
		model.DomainSoul:  lipgloss.NewStyle().Foreground(lipgloss.Color("#B39DDB")),
	}
)

// DomainStyle returns the display style for a knowledge domain.
func DomainStyle(d model.Domain) lipgloss.Style {
	if style, ok := domainStyles[d]; ok {
		return style
	}
	return SubtleStyle
}
