package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#2563EB")
	colorMuted   = lipgloss.Color("#6B7280")
	colorError   = lipgloss.Color("#DC2626")
	colorSuccess = lipgloss.Color("#16A34A")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
	labelStyle = lipgloss.NewStyle().Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(colorError)
	okStyle    = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	badgeStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)

	tabStyle       = lipgloss.NewStyle().Padding(0, 2).Foreground(colorMuted)
	activeTabStyle = tabStyle.Foreground(colorPrimary).Bold(true).Underline(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
	focusedStyle  = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
)
