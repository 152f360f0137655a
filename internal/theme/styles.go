package theme

import "github.com/charmbracelet/lipgloss"

// Table styles
var (
	TableBorderStyle = lipgloss.NewStyle().
				Foreground(ColorMuted)

	TableCellStyle = lipgloss.NewStyle().
			Foreground(ColorNormal).
			Padding(0, 1)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary).
				Padding(0, 1)
)

// Outcome styles
var (
	FailedStyle = TableCellStyle.
			Foreground(ColorFailed)

	PlayedStyle = TableCellStyle.
			Foreground(ColorPlayed)

	SkippedStyle = TableCellStyle.
			Foreground(ColorSkipped)
)
