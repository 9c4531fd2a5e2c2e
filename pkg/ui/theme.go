package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme holds the lipgloss styles for the selector widget.
type Theme struct {
	Header   lipgloss.Style
	Row      lipgloss.Style
	Selected lipgloss.Style // row under the cursor
	Active   lipgloss.Style // currently selected entity
	Pinned   lipgloss.Style
	Subtle   lipgloss.Style
}

// DefaultTheme returns the standard dark-friendly theme.
func DefaultTheme() Theme {
	return Theme{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#E8E8E8"}),
		Row: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#444444", Dark: "#CCCCCC"}),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#1a4fd6", Dark: "#7aa2f7"}),
		Active: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#0b6e3a", Dark: "#9ece6a"}),
		Pinned: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#8a5a00", Dark: "#e0af68"}),
		Subtle: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#888888", Dark: "#6b7089"}),
	}
}
