// Package fancy renders machines, tapes and diagnostics for the terminal.
package fancy

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Common colors for different types of elements
var (
	ColorBlue     = lipgloss.Color("39")  // Blue
	ColorMagenta  = lipgloss.Color("201") // Bright Magenta
	ColorOrange   = lipgloss.Color("208") // Orange
	ColorGreen    = lipgloss.Color("82")  // Green
	ColorYellow   = lipgloss.Color("228") // Yellow
	ColorCyan     = lipgloss.Color("45")  // Cyan
	ColorRed      = lipgloss.Color("196") // Red
	ColorGray     = lipgloss.Color("250") // Light gray
	ColorWhite    = lipgloss.Color("15")  // White
	ColorDarkGray = lipgloss.Color("240") // Dark gray for branches
)

// DisableColor makes every style render plain text, regardless of the
// terminal.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}
