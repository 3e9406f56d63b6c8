package dashboard

import (
	"github.com/charmbracelet/lipgloss"
)

// Dashboard color palette
const (
	ColorSurfaceBg = lipgloss.Color("#16161E") // Dark surface
	ColorBorder    = lipgloss.Color("#2F334D") // Muted border

	// Semantic colors for service state
	ColorActive   = lipgloss.Color("#9ECE6A") // Green
	ColorInactive = lipgloss.Color("#565F89") // Dim slate
	ColorError    = lipgloss.Color("#F7768E") // Red

	// Text colors
	ColorTextPrimary   = lipgloss.Color("#C0CAF5")
	ColorTextSecondary = lipgloss.Color("#A9B1D6")
	ColorTextMuted     = lipgloss.Color("#565F89")

	// Accent
	ColorAccent = lipgloss.Color("#7AA2F7") // Blue
	ColorWarn   = lipgloss.Color("#E0AF68") // Amber
)

// Base styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	FlashStyle = lipgloss.NewStyle().
			Foreground(ColorWarn).
			Padding(0, 1)

	StatusActiveStyle = lipgloss.NewStyle().
				Foreground(ColorActive)

	StatusInactiveStyle = lipgloss.NewStyle().
				Foreground(ColorInactive)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(ColorError)

	TabStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	TabActiveStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			Padding(0, 1).
			Underline(true)

	DetailBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)
)

// Status indicator glyphs
const (
	GlyphActive   = "●"
	GlyphInactive = "○"
	GlyphError    = "⚠"
)

// StatusCell renders the status column for a row state.
func StatusCell(active bool, errMsg string) string {
	switch {
	case errMsg != "":
		return GlyphError + " error"
	case active:
		return GlyphActive + " active"
	default:
		return GlyphInactive + " inactive"
	}
}
