package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/naturepower/internal/ui/theme"
)

// ProgressBar is a one-line meter. Percent is clamped to 0..100.
type ProgressBar struct {
	Label       string
	Percent     int
	ShowPercent bool
	Width       int
}

func NewProgressBar(label string, percent int, showPercent bool, width int) ProgressBar {
	return ProgressBar{Label: label, Percent: percent, ShowPercent: showPercent, Width: width}
}

// View fills exactly Width cells when Width leaves room for a 4-cell track.
func (p ProgressBar) View() string {
	var prefix, suffix string
	pct := min(max(p.Percent, 0), 100)
	if p.Label != "" {
		prefix = lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}
	if p.ShowPercent {
		suffix = lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("%5d%%", pct))
	}

	track := max(p.Width-lipgloss.Width(prefix)-lipgloss.Width(suffix), 4)
	done := track * pct / 100
	return prefix +
		theme.ProgressFilled.Render(strings.Repeat(" ", done)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", track-done)) +
		suffix
}
