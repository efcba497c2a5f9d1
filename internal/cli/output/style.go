package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ANSI colour codes used by the console.
const (
	ColorInfo    lipgloss.Color = "4" // Blue
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorError   lipgloss.Color = "1" // Red
	ColorNumber  lipgloss.Color = "6" // Cyan
	ColorRule    lipgloss.Color = "8" // Gray
)

// Styles groups the lipgloss styles of a Console.
type Styles struct {
	Info    lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Number  lipgloss.Style
	Rule    lipgloss.Style
	Title   lipgloss.Style
}

// DefaultStyles returns the styles used on a terminal.
func DefaultStyles() Styles {
	return Styles{
		Info:    lipgloss.NewStyle().Foreground(ColorInfo),
		Warning: lipgloss.NewStyle().Foreground(ColorWarning),
		Error:   lipgloss.NewStyle().Foreground(ColorError),
		Number:  lipgloss.NewStyle().Foreground(ColorNumber).Bold(true),
		Rule:    lipgloss.NewStyle().Foreground(ColorRule),
		Title:   lipgloss.NewStyle().Foreground(ColorInfo).Bold(true),
	}
}

// ruleLine centres title in a horizontal line of width cells.
func ruleLine(title string, width int) (left, right string) {
	if width <= 0 {
		width = DefaultWidth
	}
	if title == "" {
		return strings.Repeat("─", width), ""
	}

	rest := width - lipgloss.Width(title) - 2
	if rest < 2 {
		rest = 2
	}
	side := rest / 2
	return strings.Repeat("─", side) + " ", " " + strings.Repeat("─", rest-side)
}
