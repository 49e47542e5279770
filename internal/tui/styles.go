package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	colorPrimary = lipgloss.Color("#34D399") // emerald
	colorDeep    = lipgloss.Color("#10B981")
	colorFg      = lipgloss.Color("#E2E8F0")
	colorMuted   = lipgloss.Color("#94A3B8")
	colorSubtle  = lipgloss.Color("#334155")
	colorError   = lipgloss.Color("#F87171")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(0, 2)

	locationStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	eventStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	// Countdown digits
	digitStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 2)

	unitLabelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Align(lipgloss.Center)

	separatorStyle = lipgloss.NewStyle().
			Foreground(colorDeep).
			Padding(1, 1)

	// Boundary cards
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Foreground(colorMuted).
			Padding(0, 2).
			Width(26)

	activeCardStyle = cardStyle.
			BorderForeground(colorPrimary).
			Foreground(colorFg)

	cardTimeStyle = lipgloss.NewStyle().
			Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 2)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(colorPrimary)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)
)
