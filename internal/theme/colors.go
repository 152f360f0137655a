package theme

import "github.com/charmbracelet/lipgloss"

// Color is an alias for lipgloss.Color for convenience
type Color = lipgloss.Color

// Brand colors
const (
	ColorPrimary Color = "99" // Purple - titles, table headers
)

// Outcome colors
const (
	ColorFailed  Color = "1"   // Red - player could not be started
	ColorPlayed  Color = "2"   // Green - player started
	ColorSkipped Color = "241" // Gray - no sound for the event
)

// UI semantic colors
const (
	ColorMuted  Color = "241" // Gray - borders, secondary text
	ColorNormal Color = "250" // Default text
)
