package lessons

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/naturepower/internal/catalog"
	"github.com/abhisek/naturepower/internal/progress"
	"github.com/abhisek/naturepower/internal/router"
	"github.com/abhisek/naturepower/internal/screen"
	"github.com/abhisek/naturepower/internal/ui/components"
	"github.com/abhisek/naturepower/internal/ui/layout"
	"github.com/abhisek/naturepower/internal/ui/theme"
)

type row struct {
	lesson catalog.Lesson
	status progress.Status
}

// ListScreen shows the curriculum in unlock order.
type ListScreen struct {
	svc      *screen.Services
	rows     []row
	summary  progress.Summary
	selected int
}

var _ screen.Screen = (*ListScreen)(nil)
var _ screen.KeyHintProvider = (*ListScreen)(nil)
var _ screen.Refresher = (*ListScreen)(nil)

func New(svc *screen.Services) *ListScreen {
	s := &ListScreen{svc: svc}
	s.load()
	if i := s.index(s.summary.Current); i >= 0 {
		s.selected = i
	}
	return s
}

func (s *ListScreen) load() {
	ctx := context.Background()
	st := s.svc.Progress.Progress(ctx)
	s.summary = s.svc.Progress.LessonProgress(ctx)

	s.rows = s.rows[:0]
	for _, id := range progress.LessonIDs {
		l, ok := s.svc.Catalog.Lesson(id)
		if !ok {
			l = catalog.Lesson{ID: id, Title: id}
		}
		s.rows = append(s.rows, row{lesson: l, status: st.LessonStatus[id]})
	}
}

func (s *ListScreen) index(id string) int {
	for i, r := range s.rows {
		if r.lesson.ID == id {
			return i
		}
	}
	return -1
}

func (s *ListScreen) Init() tea.Cmd { return nil }

func (s *ListScreen) Refresh() tea.Cmd {
	s.load()
	return nil
}

func (s *ListScreen) Title() string { return "Lessons" }

func (s *ListScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ListScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
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
			if s.selected < len(s.rows)-1 {
				s.selected++
			}
		case "enter":
			r := s.rows[s.selected]
			if r.status == progress.StatusLocked {
				return s, nil
			}
			return s, router.Push(NewDetail(s.svc, r.lesson.ID))
		}
	}
	return s, nil
}

func statusIcon(st progress.Status) string {
	switch st {
	case progress.StatusComplete:
		return theme.Done.Render("✔")
	case progress.StatusInProgress:
		return lipgloss.NewStyle().Foreground(theme.Sun).Render("▶")
	default:
		return theme.Locked.Render("🔒")
	}
}

func (s *ListScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(components.Centered(
		components.NewProgressBar(fmt.Sprintf("%d/%d complete", s.summary.Completed, s.summary.Total),
			s.summary.Percentage, true, cw).View(), width))
	b.WriteString("\n\n")

	for i, r := range s.rows {
		label := fmt.Sprintf("%-4s %s %s", r.lesson.ID, r.lesson.Emoji, r.lesson.Title)
		style := theme.Unselected
		switch {
		case r.status == progress.StatusLocked:
			style = theme.Locked
		case i == s.selected:
			style = theme.Selected
		}
		prefix := "  "
		if i == s.selected {
			prefix = "▸ "
		}
		line := prefix + statusIcon(r.status) + "  " + style.Render(label)
		b.WriteString(components.Centered(lipgloss.NewStyle().Width(cw).Render(line), width))
		b.WriteString("\n")
	}
	return b.String()
}
