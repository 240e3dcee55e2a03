package app

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/naturepower/internal/events"
	"github.com/abhisek/naturepower/internal/logging"
	"github.com/abhisek/naturepower/internal/notify"
	"github.com/abhisek/naturepower/internal/prefs"
	"github.com/abhisek/naturepower/internal/router"
	"github.com/abhisek/naturepower/internal/screen"
	"github.com/abhisek/naturepower/internal/screens/home"
	"github.com/abhisek/naturepower/internal/ui/layout"
	"github.com/abhisek/naturepower/internal/ui/theme"
)

type busEventMsg struct{ ev events.Event }

type notifyMsg struct{ m notify.Message }

type toastExpiredMsg struct{}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router   *router.Router
	svc      *screen.Services
	emitter  *notify.Emitter
	events   <-chan events.Event
	notes    <-chan notify.Message
	stats    layout.Stats
	announce string
	width    int
	height   int
}

func newAppModel(svc *screen.Services, emitter *notify.Emitter, evs <-chan events.Event, notes <-chan notify.Message) AppModel {
	m := AppModel{
		router:  router.New(home.New(svc)),
		svc:     svc,
		emitter: emitter,
		events:  evs,
		notes:   notes,
	}
	m.loadStats()
	return m
}

func (m *AppModel) loadStats() {
	st := m.svc.Progress.Stats(context.Background())
	m.stats = layout.Stats{XP: st.XP, Streak: st.Streak, Badges: st.Badges}
}

func waitEvent(ch <-chan events.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return busEventMsg{ev: ev}
	}
}

func waitNote(ch <-chan notify.Message) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return notifyMsg{m: n}
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(waitEvent(m.events), waitNote(m.notes))
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case busEventMsg:
		m.loadStats()
		if msg.ev.Kind == events.PrefsUpdated || msg.ev.Kind == events.StorageSynced {
			theme.Use(theme.ForContrast(m.svc.Prefs.Enabled(context.Background(), prefs.HighContrast)))
		}
		cmd := m.router.Broadcast(screen.DataChangedMsg{Event: msg.ev})
		return m, tea.Batch(cmd, waitEvent(m.events))

	case notifyMsg:
		var cmd tea.Cmd
		switch {
		case msg.m.Toast != nil:
			d := max(time.Until(msg.m.Toast.Expires), 0)
			cmd = tea.Tick(d+50*time.Millisecond, func(time.Time) tea.Msg { return toastExpiredMsg{} })
		case msg.m.Announcement != nil:
			m.announce = msg.m.Announcement.Message
		}
		return m, tea.Batch(cmd, waitNote(m.notes))

	case toastExpiredMsg:
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) toastLines() []string {
	if m.emitter == nil {
		return nil
	}
	var lines []string
	for _, t := range m.emitter.Active() {
		lines = append(lines, t.Message)
	}
	return lines
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	v.SetContent(m.render())
	return v
}

// render draws the whole frame for the current size.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	title := ""
	active := m.router.Active()
	if active != nil {
		title = active.Title()
	}
	header := layout.RenderHeader(title, m.stats, m.width)

	var hints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		hints = hp.KeyHints()
	} else {
		hints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
		}
	}
	hints = append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	footer := layout.RenderFooter(hints, m.width)

	if m.announce != "" && m.svc.Prefs != nil && m.svc.Prefs.Enabled(context.Background(), prefs.ReadAloud) {
		footer = lipgloss.NewStyle().Foreground(theme.Sky).Render("  🔊 "+m.announce) + "\n" + footer
	}

	toasts := layout.RenderToasts(m.toastLines(), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	if toasts != "" {
		contentHeight = max(contentHeight-lipgloss.Height(toasts), 0)
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, toasts, footer, m.width, m.height)
}

// Run starts the terminal app. It wires a toast emitter and a bus
// subscription for the life of the program.
func Run(ctx context.Context, svc *screen.Services, bus *events.Bus, log *logging.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	theme.Use(theme.ForContrast(svc.Prefs.Enabled(ctx, prefs.HighContrast)))

	sink := notify.NewChanSink(32)
	emitter := notify.New(sink, log, notify.WithBadgeNamer(func(id string) (string, string) {
		b := svc.Badges.Lookup(id)
		return b.Title, b.Icon
	}))
	detach := emitter.Attach(bus)
	defer detach()
	defer emitter.Close()

	p := tea.NewProgram(newAppModel(svc, emitter, bus.Stream(ctx, 64), sink.C), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
