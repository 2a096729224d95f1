// Package styles provides reusable lipgloss styles for CLI output.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme holds lipgloss colors and styles for terminal output.
type Theme struct {
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Accent lipgloss.Color

	Title      lipgloss.Style
	Label      lipgloss.Style
	Value      lipgloss.Style
	Subtle     lipgloss.Style
	ErrorStyle lipgloss.Style
	Badge      lipgloss.Style
	BadgeMuted lipgloss.Style
}

// Default returns the standard dark terminal theme.
func Default() *Theme {
	t := &Theme{
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#909090"),
		Accent: lipgloss.Color("#4ade80"),
	}

	t.Title = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	t.Label = lipgloss.NewStyle().Foreground(t.Muted)
	t.Value = lipgloss.NewStyle().Foreground(t.Text)
	t.Subtle = lipgloss.NewStyle().Foreground(t.Muted).Italic(true)
	t.ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f87171"))
	t.Badge = lipgloss.NewStyle().Foreground(t.Accent).Padding(0, 1)
	t.BadgeMuted = lipgloss.NewStyle().Foreground(t.Muted).Padding(0, 1)

	return t
}

// SourceBadge renders where a lookup was answered from.
func (t *Theme) SourceBadge(source string) string {
	if source == "cache" {
		return t.Badge.Render("cache")
	}
	return t.BadgeMuted.Render(source)
}

// StatusBadge renders an asset status.
func (t *Theme) StatusBadge(status string) string {
	if status == "" {
		return t.BadgeMuted.Render("unknown")
	}
	return t.Badge.Render(status)
}
