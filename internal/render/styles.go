package render

import "github.com/charmbracelet/lipgloss"

// Styles groups the lipgloss styles the table renderer draws with.
type Styles struct {
	Header     lipgloss.Style
	Cell       lipgloss.Style
	Muted      lipgloss.Style
	Selected   lipgloss.Style
	ActivePage lipgloss.Style
	Page       lipgloss.Style
}

// DefaultStyles returns the dashboard's standard look.
func DefaultStyles() Styles {
	return Styles{
		Header:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
		Cell:       lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		Muted:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Selected:   lipgloss.NewStyle().Foreground(lipgloss.Color("213")),
		ActivePage: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213")),
		Page:       lipgloss.NewStyle().Foreground(lipgloss.Color("246")),
	}
}

// PlainStyles returns unstyled styles. Output is deterministic plain text,
// which is what tests and non-TTY writers want.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Header:     plain,
		Cell:       plain,
		Muted:      plain,
		Selected:   plain,
		ActivePage: plain,
		Page:       plain,
	}
}
