package notebook

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/naturepower/internal/journal"
	"github.com/abhisek/naturepower/internal/router"
	"github.com/abhisek/naturepower/internal/screen"
	"github.com/abhisek/naturepower/internal/ui/components"
	"github.com/abhisek/naturepower/internal/ui/layout"
	"github.com/abhisek/naturepower/internal/ui/theme"
)

// JournalScreen lists journal entries newest first.
type JournalScreen struct {
	svc       *screen.Services
	entries   []journal.Entry
	selected  int
	expanded  map[string]bool
	searching bool
	search    components.TextInput
	query     string
	confirm   bool
	err       error
}

var _ screen.Screen = (*JournalScreen)(nil)
var _ screen.KeyHintProvider = (*JournalScreen)(nil)

func New(svc *screen.Services) *JournalScreen {
	s := &JournalScreen{svc: svc, expanded: map[string]bool{}}
	s.load()
	return s
}

func (s *JournalScreen) load() {
	ctx := context.Background()
	if s.query != "" {
		s.entries = s.svc.Journal.Search(ctx, s.query)
	} else {
		s.entries = journal.SortByNewest(s.svc.Journal.Entries(ctx))
	}
	s.selected = min(s.selected, max(len(s.entries)-1, 0))
}

func (s *JournalScreen) Init() tea.Cmd { return nil }

func (s *JournalScreen) Title() string { return "Journal" }

func (s *JournalScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.searching:
		return []layout.KeyHint{{Key: "Enter", Description: "Search"}, {Key: "Esc", Description: "Cancel"}}
	case s.confirm:
		return []layout.KeyHint{{Key: "y", Description: "Delete"}, {Key: "n", Description: "Keep"}}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Expand"},
		{Key: "/", Description: "Search"},
		{Key: "d", Description: "Delete"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *JournalScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.DataChangedMsg:
		s.load()
		return s, nil
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	if s.searching {
		var cmd tea.Cmd
		s.search, cmd = s.search.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *JournalScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.searching {
		switch key {
		case "esc":
			s.searching = false
		case "enter":
			s.searching = false
			s.query = s.search.Value()
			s.selected = 0
			s.load()
		default:
			var cmd tea.Cmd
			s.search, cmd = s.search.Update(msg)
			return s, cmd
		}
		return s, nil
	}

	if s.confirm {
		s.confirm = false
		if key == "y" && len(s.entries) > 0 {
			_, s.err = s.svc.Journal.Delete(context.Background(), s.entries[s.selected].ID)
			s.load()
		}
		return s, nil
	}

	switch key {
	case "esc":
		if s.query != "" {
			s.query = ""
			s.load()
			return s, nil
		}
		return s, router.Pop
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.entries)-1 {
			s.selected++
		}
	case "enter":
		if len(s.entries) > 0 {
			id := s.entries[s.selected].ID
			s.expanded[id] = !s.expanded[id]
		}
	case "/":
		s.searching = true
		s.search = components.NewTextInput("Search", "word in a title, fact or reflection", 80)
		return s, s.search.Init()
	case "d":
		s.confirm = len(s.entries) > 0
	}
	return s, nil
}

func (s *JournalScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var b strings.Builder
	b.WriteString("\n")

	if s.searching {
		b.WriteString(components.Centered(components.Card(s.search.View(), cw), width))
		return b.String()
	}
	if s.query != "" {
		b.WriteString(components.Centered(components.Dim(fmt.Sprintf("Results for %q (Esc to clear)", s.query)), width))
		b.WriteString("\n\n")
	}
	if len(s.entries) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\nNo journal entries yet. Finish a lesson to write one!"))
		return b.String()
	}

	for i, e := range s.entries {
		date := time.UnixMilli(e.Timestamp).Format("Jan 02, 2006")
		prefix := "  "
		style := theme.Unselected
		if i == s.selected {
			prefix = "▸ "
			style = theme.Selected
		}
		line := style.Render(fmt.Sprintf("%s%s  %-4s %s", prefix, date, e.LessonID, e.Title))
		b.WriteString(components.Centered(lipgloss.NewStyle().Width(cw).Render(line), width))
		b.WriteString("\n")

		if s.expanded[e.ID] {
			b.WriteString(components.Centered(components.Card(entryBody(e), cw), width))
			b.WriteString("\n")
		}
	}

	if s.confirm {
		b.WriteString("\n")
		b.WriteString(components.Centered(
			lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("Delete this entry? (y/n)"), width))
	}
	if s.err != nil {
		b.WriteString(components.ErrorLine(s.err, width))
	}
	return b.String()
}

func entryBody(e journal.Entry) string {
	var parts []string
	for _, f := range e.Facts {
		parts = append(parts, "• "+f)
	}
	if e.Reflection != "" {
		parts = append(parts, e.Reflection)
	}
	if e.EvidenceImg != nil {
		parts = append(parts, components.Dim("📷 evidence attached"))
	}
	return strings.Join(parts, "\n")
}
