package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/naturepower/internal/router"
	"github.com/abhisek/naturepower/internal/screen"
	"github.com/abhisek/naturepower/internal/screens/badgeboard"
	"github.com/abhisek/naturepower/internal/screens/lessons"
	"github.com/abhisek/naturepower/internal/screens/notebook"
	"github.com/abhisek/naturepower/internal/screens/settings"
	"github.com/abhisek/naturepower/internal/screens/shadelab"
	"github.com/abhisek/naturepower/internal/ui/components"
)

var menuLabels = []string{"LESSONS", "BADGES", "JOURNAL", "SHADE LAB", "SETTINGS", "EXIT"}

// HomeScreen is the landing screen: the learner dashboard and main menu.
type HomeScreen struct {
	svc    *screen.Services
	menu   components.Menu
	dash   dashboard
	growth Growth
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Refresher = (*HomeScreen)(nil)

func New(svc *screen.Services) *HomeScreen {
	push := func(fn func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd { return router.Push(fn()) }
	}
	items := []components.MenuItem{
		{Label: menuLabels[0], Action: push(func() screen.Screen { return lessons.New(svc) })},
		{Label: menuLabels[1], Action: push(func() screen.Screen { return badgeboard.New(svc) })},
		{Label: menuLabels[2], Action: push(func() screen.Screen { return notebook.New(svc) })},
		{Label: menuLabels[3], Action: push(func() screen.Screen { return shadelab.New(svc) })},
		{Label: menuLabels[4], Action: push(func() screen.Screen { return settings.New(svc) })},
		{Label: menuLabels[5], Action: func() tea.Cmd { return tea.Quit }},
	}

	h := &HomeScreen{svc: svc, menu: components.NewMenu(items)}
	h.load()
	return h
}

func (h *HomeScreen) load() {
	ctx := context.Background()
	sum := h.svc.Progress.LessonProgress(ctx)
	st := h.svc.Badges.Stats(ctx)

	h.dash = dashboard{
		Completed: sum.Completed,
		Total:     sum.Total,
		XP:        h.svc.Progress.Stats(ctx).XP,
		Badges:    st.Earned,
	}
	if next, ok := h.svc.Badges.Next(ctx); ok {
		h.dash.Next = next.Icon + " " + next.Title
	}
	h.growth = GrowthFor(sum.Percentage)
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Refresh() tea.Cmd {
	h.load()
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(screen.DataChangedMsg); ok {
		h.load()
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := height < 36 || width < 100
	cw := components.ContentWidth(width)

	sections := []string{renderTitle(cw, compact)}
	if !compact {
		sections = append(sections, components.Centered(RenderSprout(h.growth), cw))
	}
	sections = append(sections,
		renderStatsBar(h.dash, cw, compact),
		renderMenu(menuLabels, h.menu.Selected, cw, compact),
	)

	return components.Panel(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
