package shadelab

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/naturepower/internal/router"
	"github.com/abhisek/naturepower/internal/screen"
	"github.com/abhisek/naturepower/internal/ui/components"
	"github.com/abhisek/naturepower/internal/ui/layout"
	"github.com/abhisek/naturepower/internal/ui/theme"
	"github.com/abhisek/naturepower/internal/widgets"
	"github.com/abhisek/naturepower/internal/widgets/shade"
)

// LabScreen is the shade and roof temperature slider.
type LabScreen struct {
	svc     *screen.Services
	percent int
	saved   bool
	err     error
}

var _ screen.Screen = (*LabScreen)(nil)
var _ screen.KeyHintProvider = (*LabScreen)(nil)

func New(svc *screen.Services) *LabScreen {
	return &LabScreen{svc: svc}
}

func (s *LabScreen) Init() tea.Cmd { return nil }

func (s *LabScreen) Title() string { return "Shade Lab" }

func (s *LabScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→", Description: fmt.Sprintf("±%d%%", shade.Step)},
		{Key: "Home/End", Description: "0/100%"},
		{Key: "s", Description: "Save finding"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *LabScreen) set(p int) {
	s.percent = shade.Clamp(p)
	s.saved = false
}

func (s *LabScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "esc":
		return s, router.Pop
	case "left", "down", "h":
		s.set(s.percent - shade.Step)
	case "right", "up", "l":
		s.set(s.percent + shade.Step)
	case "home":
		s.set(0)
	case "end":
		s.set(100)
	case "s":
		f := shade.Finding(widgets.ShadeLesson, s.percent)
		_, s.err = s.svc.Journal.Create(context.Background(), f.Draft())
		s.saved = s.err == nil
	}
	return s, nil
}

func bandColor(b shade.Band) lipgloss.Style {
	st := lipgloss.NewStyle().Bold(true)
	switch b {
	case shade.BandVeryCool:
		return st.Foreground(theme.Sky)
	case shade.BandCool:
		return st.Foreground(theme.Secondary)
	case shade.BandSlight:
		return st.Foreground(theme.Success)
	}
	return st.Foreground(theme.Sun)
}

func (s *LabScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	r := shade.Read(s.percent)

	lines := []string{
		theme.Title.Width(cw - 4).Render("How much does shade cool a roof?"),
		"",
		components.NewProgressBar("Shade", r.Shade, true, cw-4).View(),
		"",
		bandColor(r.Band).Render(fmt.Sprintf("Roof temperature change: %.1f°C", r.TempChange)),
		components.Dim(r.Announce),
	}
	if s.saved {
		lines = append(lines, "", theme.Done.Render("✓ Saved to your journal"))
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(components.Centered(components.Card(strings.Join(lines, "\n"), cw), width))
	if s.err != nil {
		b.WriteString(components.ErrorLine(s.err, width))
	}
	return b.String()
}
