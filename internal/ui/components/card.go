package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/naturepower/internal/ui/theme"
)

// ContentWidth is the shared inner width for stacked panels, so boxes line
// up regardless of terminal size.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 64)
}

// Panel wraps content in a double-border frame centred in width x height.
func Panel(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Card wraps content in a rounded box cw cells wide.
func Card(content string, cw int) string {
	return theme.Card.Width(cw - 2).Render(content)
}

// Centered places s in the middle of a line of the given width.
func Centered(s string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}

// Dim renders s in the muted text colour.
func Dim(s string) string {
	return theme.Hint.Render(s)
}

// ErrorLine renders err as a centred error message.
func ErrorLine(err error, width int) string {
	return lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.Error).
		Render("\n\nError: " + err.Error())
}
