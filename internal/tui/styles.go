package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#3182ce")
	danger = lipgloss.Color("#e53e3e")
	muted  = lipgloss.Color("#718096")
)

type styles struct {
	Title    lipgloss.Style
	Badge    lipgloss.Style
	Selected lipgloss.Style
	Price    lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style
	Drawer   lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(accent),
		Badge:    lipgloss.NewStyle().Bold(true).Foreground(danger),
		Selected: lipgloss.NewStyle().Bold(true),
		Price:    lipgloss.NewStyle().Bold(true),
		Error:    lipgloss.NewStyle().Foreground(danger),
		Help:     lipgloss.NewStyle().Foreground(muted),
		Drawer: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1).
			MarginLeft(2),
	}
}
