package theme

import "github.com/charmbracelet/lipgloss"

// ANSI 256 palette.
var (
	ColorPrimary   = lipgloss.Color("63")
	ColorSecondary = lipgloss.Color("241")
	ColorSuccess   = lipgloss.Color("42")
	ColorError     = lipgloss.Color("196")
	ColorBorder    = lipgloss.Color("238")
	ColorMuted     = lipgloss.Color("245")
	ColorHighlight = lipgloss.Color("229")
	ColorText      = lipgloss.Color("252")
)

// engineColors tints the engine badge in the status bar.
var engineColors = map[string]lipgloss.Color{
	"postgres": lipgloss.Color("33"),
	"mysql":    lipgloss.Color("208"),
	"mssql":    lipgloss.Color("160"),
	"sqlite":   lipgloss.Color("117"),
}

// EngineColor returns the badge color of an engine, ColorSecondary when the
// engine is unknown.
func EngineColor(engine string) lipgloss.Color {
	if c, ok := engineColors[engine]; ok {
		return c
	}
	return ColorSecondary
}

var (
	StyleBorder = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	StyleActiveBorder = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary)

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	StyleSelected = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Bold(true)

	StyleKey = lipgloss.NewStyle().
			Foreground(ColorText)

	StyleMuted = lipgloss.NewStyle().
			Foreground(ColorMuted)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorError)

	StyleSuccess = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	StyleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(ColorText).
			Padding(0, 1)
)
