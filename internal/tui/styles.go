package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/plhk/pterm/internal/theme"
)

// styles contains lipgloss styles derived from the resolved palette, so
// the chrome follows the same theme as the sessions.
type styles struct {
	TabBar      lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	Title       lipgloss.Style
	Text        lipgloss.Style
	Muted       lipgloss.Style
	Error       lipgloss.Style
}

// buildStyles converts a palette into chrome styles. ANSI slot 4 (blue)
// marks the active tab, slot 8 (bright black) mutes secondary text.
func buildStyles(p theme.Palette) styles {
	fg := lipgloss.Color(p.Foreground.Hex())
	bg := lipgloss.Color(p.Background.Hex())
	accent := lipgloss.Color(p.ANSI[4].Hex())
	muted := lipgloss.Color(p.ANSI[8].Hex())
	errc := lipgloss.Color(p.ANSI[1].Hex())

	return styles{
		TabBar:      lipgloss.NewStyle().Background(bg),
		TabActive:   lipgloss.NewStyle().Foreground(bg).Background(accent).Bold(true).Padding(0, 1),
		TabInactive: lipgloss.NewStyle().Foreground(muted).Background(bg).Padding(0, 1),
		Title:       lipgloss.NewStyle().Foreground(fg).Bold(true),
		Text:        lipgloss.NewStyle().Foreground(fg),
		Muted:       lipgloss.NewStyle().Foreground(muted),
		Error:       lipgloss.NewStyle().Foreground(errc).Bold(true),
	}
}
