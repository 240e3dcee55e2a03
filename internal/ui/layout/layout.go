// Package layout draws the frame shared by every screen: a header with the
// learner's stats, the screen body, a toast stack and a key-hint footer.
package layout

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/naturepower/internal/ui/theme"
)

// Smallest terminal the frame is drawn in.
const (
	MinWidth  = 80
	MinHeight = 24
)

// KeyHint is one key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// Stats is the learner summary shown on the right of the header.
type Stats struct {
	XP     int
	Streak int
	Badges int
}

// IsTooSmall reports whether the terminal is below MinWidth x MinHeight.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the user to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	text := fmt.Sprintf("The garden needs more room 🌱\n\nResize to at least %d×%d\n(now %d×%d)",
		MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(text))
}

func tint(c color.Color, s string) string {
	return lipgloss.NewStyle().Foreground(c).Render(s)
}

// RenderHeader shows the app name, the screen title centred and the
// learner's XP, streak and badge count.
func RenderHeader(title string, st Stats, width int) string {
	weeks := "weeks"
	if st.Streak == 1 {
		weeks = "week"
	}
	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  🌱 Nature Power")
	stats := strings.Join([]string{
		tint(theme.Sun, fmt.Sprintf("⚡ %d XP", st.XP)),
		tint(theme.Accent, fmt.Sprintf("🔥 %d %s", st.Streak, weeks)),
		tint(theme.Secondary, fmt.Sprintf("🏅 %d", st.Badges)),
	}, "   ")
	heading := theme.Body.Render(title)

	inner := max(width-4, 0)
	bw, hw, sw := lipgloss.Width(brand), lipgloss.Width(heading), lipgloss.Width(stats)
	gapL := max((inner-hw)/2-bw, 1)
	gapR := max(inner-bw-gapL-hw-sw, 1)

	return theme.Header.Width(width).Render(brand + strings.Repeat(" ", gapL) + heading + strings.Repeat(" ", gapR) + stats)
}

// RenderToasts stacks toast messages right-aligned, newest last.
func RenderToasts(messages []string, width int) string {
	if len(messages) == 0 {
		return ""
	}
	var b strings.Builder
	for i, m := range messages {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Right, theme.Toast.Render(m)))
	}
	return b.String()
}

// RenderFooter lists key hints.
func RenderFooter(hints []KeyHint, width int) string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	var b strings.Builder
	b.WriteString("  ")
	for i, h := range hints {
		if i > 0 {
			b.WriteString("   ")
		}
		b.WriteString(keyStyle.Render(h.Key) + " " + theme.Hint.Render(h.Description))
	}
	return theme.Footer.Width(width).Render(b.String())
}

// RenderFrame stacks header, body, toasts and footer so the result is
// exactly height lines tall.
func RenderFrame(header, content, toasts, footer string, width, height int) string {
	parts := []string{header}
	used := lipgloss.Height(header) + lipgloss.Height(footer)
	if toasts != "" {
		used += lipgloss.Height(toasts)
	}
	body := lipgloss.NewStyle().Width(width).Height(max(height-used, 0)).Render(content)
	parts = append(parts, body)
	if toasts != "" {
		parts = append(parts, toasts)
	}
	parts = append(parts, footer)
	return strings.Join(parts, "\n")
}
