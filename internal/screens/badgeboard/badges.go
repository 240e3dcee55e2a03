package badgeboard

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/naturepower/internal/badges"
	"github.com/abhisek/naturepower/internal/router"
	"github.com/abhisek/naturepower/internal/screen"
	"github.com/abhisek/naturepower/internal/ui/components"
	"github.com/abhisek/naturepower/internal/ui/layout"
	"github.com/abhisek/naturepower/internal/ui/theme"
)

// BoardScreen displays every badge, earned or not.
type BoardScreen struct {
	svc          *screen.Services
	slots        []badges.Slot
	stats        badges.Stats
	scrollOffset int
}

var _ screen.Screen = (*BoardScreen)(nil)
var _ screen.KeyHintProvider = (*BoardScreen)(nil)

func New(svc *screen.Services) *BoardScreen {
	s := &BoardScreen{svc: svc}
	s.load()
	return s
}

func (s *BoardScreen) load() {
	ctx := context.Background()
	s.slots = s.svc.Badges.Board(ctx)
	s.stats = s.svc.Badges.Stats(ctx)
}

func (s *BoardScreen) Init() tea.Cmd { return nil }

func (s *BoardScreen) Title() string { return "Badges" }

func (s *BoardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *BoardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.DataChangedMsg:
		s.load()
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, router.Pop
		case "up", "k":
			if s.scrollOffset > 0 {
				s.scrollOffset--
			}
		case "down", "j":
			if s.scrollOffset < len(s.slots)-1 {
				s.scrollOffset++
			}
		}
	}
	return s, nil
}

func (s *BoardScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(components.Centered(
		components.NewProgressBar(fmt.Sprintf("%d/%d badges", s.stats.Earned, s.stats.Total),
			s.stats.Percentage, true, cw).View(), width))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw))
	b.WriteString(components.Centered(divider, width))
	b.WriteString("\n\n")

	maxVisible := max((height-6)/2, 3)
	end := min(s.scrollOffset+maxVisible, len(s.slots))

	for _, slot := range s.slots[s.scrollOffset:end] {
		var title, caption string
		if slot.Earned {
			title = lipgloss.NewStyle().Foreground(theme.Sun).Bold(true).Render(slot.Badge.Icon + " " + slot.Badge.Title)
			if slot.EarnedAt != nil {
				title += "  " + components.Dim(slot.EarnedAt.Format("Jan 02, 2006"))
			}
			caption = lipgloss.NewStyle().Foreground(theme.Text).Render("   " + slot.Badge.Caption)
		} else {
			title = theme.Locked.Render("◌  " + slot.Badge.Title)
			caption = components.Dim("   " + slot.Badge.Caption)
		}
		row := lipgloss.NewStyle().Width(cw).Render(title + "\n" + caption)
		b.WriteString(components.Centered(row, width))
		b.WriteString("\n")
	}

	if end < len(s.slots) {
		b.WriteString("\n")
		b.WriteString(components.Centered(components.Dim(fmt.Sprintf("... %d more", len(s.slots)-end)), width))
	}
	return b.String()
}
