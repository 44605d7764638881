package tui

import "github.com/charmbracelet/lipgloss"

// ------- screen styling (Lip Gloss) -------
var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	accentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle    = lipgloss.NewStyle().Faint(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)
	idStyle       = accentStyle
	bodyStyle     = lipgloss.NewStyle().Faint(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	spinnerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	buttonStyle       = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.NormalBorder(), false, true)
	activeButtonStyle = buttonStyle.Bold(true).Foreground(lipgloss.Color("42")).BorderForeground(lipgloss.Color("42"))
	buttonRowStyle    = lipgloss.NewStyle().MarginTop(0)
)

func panelString(inner string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)
	return border.Render(inner)
}
