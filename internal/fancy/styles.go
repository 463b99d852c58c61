package fancy

import (
	"github.com/charmbracelet/lipgloss"
)

// Common styles that can be used across the application
var (
	RootStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Italic(true)

	BranchStyle = lipgloss.NewStyle().
			Foreground(ColorDarkGray)

	ComponentStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	StateStyle = lipgloss.NewStyle().
			Foreground(ColorMagenta)

	SymbolStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	RuleStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)
)

// StateText styles a state name
func StateText(text string) string {
	return StateStyle.Render(text)
}

// SymbolText styles tape content
func SymbolText(text string) string {
	return SymbolStyle.Render(text)
}

// RuleText styles a rule
func RuleText(text string) string {
	return RuleStyle.Render(text)
}

// ValidText styles valid status text (green)
func ValidText(text string) string {
	return SuccessStyle.Render(text)
}

// ErrorText styles error text (red)
func ErrorText(text string) string {
	return ErrorStyle.Render(text)
}

// PathText styles file paths (gray)
func PathText(text string) string {
	return InfoStyle.Render(text)
}

// SummaryText styles summary information (dark gray)
func SummaryText(text string) string {
	return BranchStyle.Render(text)
}

// CountText styles count numbers (cyan)
func CountText(text string) string {
	return ComponentStyle.Render(text)
}

// TruncateString truncates s to at most maxLength runes, ending with "..."
// when something was cut.
func TruncateString(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return string(runes[:max(maxLength, 0)])
	}
	return string(runes[:maxLength-3]) + "..."
}
