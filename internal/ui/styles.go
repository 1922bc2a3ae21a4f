package ui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	ColorPrimary = lipgloss.Color("#F7931A") // bitcoin orange
	ColorAccent  = lipgloss.Color("#22D3EE") // cyan
	ColorSuccess = lipgloss.Color("#34D399") // green
	ColorWarning = lipgloss.Color("#FBBF24") // amber
	ColorError   = lipgloss.Color("#F87171") // red
	ColorMuted   = lipgloss.Color("#6B7280") // gray
	ColorText    = lipgloss.Color("#E5E7EB") // light gray
	ColorBar     = lipgloss.Color("#1F2937")
)

var (
	StyleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	StyleSubtle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	StyleSuccess = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorWarning)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorError)

	StyleBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1)

	StyleFocusedBorder = StyleBorder.
				BorderForeground(ColorPrimary)

	StyleStatusBar = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorBar).
			Padding(0, 1)

	StyleKey = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	StyleKeyDesc = lipgloss.NewStyle().
			Foreground(ColorMuted)
)
