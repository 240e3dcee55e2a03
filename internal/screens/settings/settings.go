package settings

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/naturepower/internal/prefs"
	"github.com/abhisek/naturepower/internal/router"
	"github.com/abhisek/naturepower/internal/screen"
	"github.com/abhisek/naturepower/internal/ui/components"
	"github.com/abhisek/naturepower/internal/ui/layout"
	"github.com/abhisek/naturepower/internal/ui/theme"
)

type option struct {
	label string
	flag  prefs.Flag // empty for the tab option
}

var options = []option{
	{label: "Read aloud", flag: prefs.ReadAloud},
	{label: "High contrast", flag: prefs.HighContrast},
	{label: "Reduced motion", flag: prefs.ReducedMotion},
	{label: "Lesson view"},
}

// PrefsScreen toggles accessibility preferences and the lesson view.
type PrefsScreen struct {
	svc      *screen.Services
	current  prefs.Prefs
	selected int
}

var _ screen.Screen = (*PrefsScreen)(nil)
var _ screen.KeyHintProvider = (*PrefsScreen)(nil)

func New(svc *screen.Services) *PrefsScreen {
	s := &PrefsScreen{svc: svc}
	s.load()
	return s
}

func (s *PrefsScreen) load() {
	s.current = s.svc.Prefs.All(context.Background())
}

func (s *PrefsScreen) Init() tea.Cmd { return nil }

func (s *PrefsScreen) Title() string { return "Settings" }

func (s *PrefsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Space", Description: "Toggle"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *PrefsScreen) toggle() {
	ctx := context.Background()
	opt := options[s.selected]
	if opt.flag == "" {
		next := prefs.TabTeacher
		if s.current.PreferredTab == prefs.TabTeacher {
			next = prefs.TabStudent
		}
		_ = s.svc.Prefs.SetPreferredTab(ctx, next)
	} else {
		on := !s.svc.Prefs.Enabled(ctx, opt.flag)
		s.svc.Prefs.SetEnabled(ctx, opt.flag, on)
		if opt.flag == prefs.HighContrast {
			theme.Use(theme.ForContrast(on))
		}
	}
	s.load()
}

func (s *PrefsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.DataChangedMsg:
		s.load()
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, router.Pop
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(options)-1 {
				s.selected++
			}
		case "space", "enter":
			s.toggle()
		}
	}
	return s, nil
}

func (s *PrefsScreen) value(o option) string {
	if o.flag == "" {
		return string(s.current.PreferredTab)
	}
	var on bool
	switch o.flag {
	case prefs.ReadAloud:
		on = s.current.ReadAloud
	case prefs.HighContrast:
		on = s.current.HighContrast
	case prefs.ReducedMotion:
		on = s.current.ReducedMotion
	}
	if on {
		return theme.Done.Render("on")
	}
	return theme.Locked.Render("off")
}

func (s *PrefsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var rows []string
	for i, o := range options {
		style, prefix := theme.Unselected, "  "
		if i == s.selected {
			style, prefix = theme.Selected, "▸ "
		}
		label := style.Render(prefix + o.label)
		gap := max(cw-4-lipgloss.Width(label)-lipgloss.Width(s.value(o)), 1)
		rows = append(rows, label+strings.Repeat(" ", gap)+s.value(o))
	}
	return "\n" + components.Centered(components.Card(strings.Join(rows, "\n"), cw), width)
}
