package dashboard

import "github.com/charmbracelet/lipgloss"

var (
	accent  = lipgloss.Color("#8BC34A")
	info    = lipgloss.Color("#2196F3")
	warning = lipgloss.Color("#FFC107")
	danger  = lipgloss.Color("#e53935")
	muted   = lipgloss.Color("#6b7280")
)

// Styles holds the lipgloss styles used by the dashboard view.
type Styles struct {
	Title   lipgloss.Style
	Section lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Alert   lipgloss.Style
	Calm    lipgloss.Style
	Error   lipgloss.Style
	Help    lipgloss.Style
	Panel   lipgloss.Style
}

// DefaultStyles returns the dashboard styles.
func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1),
		Section: lipgloss.NewStyle().Bold(true).Foreground(info).MarginTop(1),
		Label:   lipgloss.NewStyle().Bold(true),
		Value:   lipgloss.NewStyle(),
		Alert:   lipgloss.NewStyle().Bold(true).Foreground(warning),
		Calm:    lipgloss.NewStyle().Foreground(accent),
		Error:   lipgloss.NewStyle().Foreground(danger),
		Help:    lipgloss.NewStyle().Foreground(muted),
		Panel:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted).Padding(0, 1),
	}
}
