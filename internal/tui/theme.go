package tui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	colorPrimary = lipgloss.Color("#10B981") // Emerald
	colorAccent  = lipgloss.Color("#6EE7B7") // Light emerald
	colorDanger  = lipgloss.Color("#EF4444") // Red (errors)
	colorMuted   = lipgloss.Color("#6B7280") // Gray
	colorBorder  = lipgloss.Color("#374151") // Dark gray
	colorWarning = lipgloss.Color("#F59E0B") // Amber (update available)
)

// Shared styles used across TUI views.
var (
	// Header bar: "Enderfall Hub"
	logoStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorPrimary).
			Padding(0, 1)

	headerHintStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	// Main content area.
	contentStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2)

	// Selected item in the app list.
	selectedItemStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorPrimary)

	// Normal (unselected) item.
	normalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D1D5DB"))

	// Muted text (versions, secondary info).
	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	// Installed indicator.
	installedStyle = lipgloss.NewStyle().
			Foreground(colorPrimary)

	// Update-available badge.
	updateStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	// Pre-release channel badge.
	channelStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	// Error text.
	errorStyle = lipgloss.NewStyle().
			Foreground(colorDanger)

	// Help text at the bottom.
	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	// Spinner next to in-flight operations.
	spinnerStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	// Release notes overlay title.
	notesTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#D1D5DB")).
			Background(colorBorder).
			Padding(0, 1)
)
