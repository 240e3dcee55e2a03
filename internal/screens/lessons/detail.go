package lessons

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/naturepower/internal/catalog"
	"github.com/abhisek/naturepower/internal/learn"
	"github.com/abhisek/naturepower/internal/prefs"
	"github.com/abhisek/naturepower/internal/progress"
	"github.com/abhisek/naturepower/internal/router"
	"github.com/abhisek/naturepower/internal/screen"
	"github.com/abhisek/naturepower/internal/ui/components"
	"github.com/abhisek/naturepower/internal/ui/layout"
	"github.com/abhisek/naturepower/internal/ui/theme"
)

type mode int

const (
	modeRead mode = iota
	modeReflect
	modeDone
)

type finishedMsg struct {
	outcome learn.Outcome
	err     error
}

// DetailScreen shows one lesson and runs its start and finish flow.
type DetailScreen struct {
	svc     *screen.Services
	lesson  catalog.Lesson
	status  progress.Status
	mode    mode
	input   components.TextInput
	outcome learn.Outcome
	err     error
}

var _ screen.Screen = (*DetailScreen)(nil)
var _ screen.KeyHintProvider = (*DetailScreen)(nil)

func NewDetail(svc *screen.Services, id string) *DetailScreen {
	l, ok := svc.Catalog.Lesson(id)
	if !ok {
		l = catalog.Lesson{ID: id, Title: id}
	}
	d := &DetailScreen{svc: svc, lesson: l}
	d.loadStatus()
	return d
}

func (d *DetailScreen) loadStatus() {
	d.status = d.svc.Progress.Progress(context.Background()).LessonStatus[d.lesson.ID]
}

func (d *DetailScreen) Init() tea.Cmd { return nil }

func (d *DetailScreen) Title() string { return d.lesson.ID + " " + d.lesson.Title }

func (d *DetailScreen) KeyHints() []layout.KeyHint {
	switch d.mode {
	case modeReflect:
		return []layout.KeyHint{{Key: "Enter", Description: "Save & finish"}, {Key: "Esc", Description: "Cancel"}}
	case modeDone:
		return []layout.KeyHint{{Key: "Enter", Description: "Continue"}}
	}
	hints := []layout.KeyHint{{Key: "s", Description: "Start (+10 XP)"}}
	if d.status != progress.StatusComplete {
		hints = append(hints, layout.KeyHint{Key: "f", Description: "Finish"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (d *DetailScreen) finish(reflection string) tea.Cmd {
	svc, id := d.svc, d.lesson.ID
	return func() tea.Msg {
		out, err := svc.Learn.Finish(context.Background(), id, learn.Reflection{Reflection: reflection})
		return finishedMsg{outcome: out, err: err}
	}
}

func (d *DetailScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.DataChangedMsg:
		d.loadStatus()
		return d, nil
	case finishedMsg:
		if msg.err != nil {
			d.err = msg.err
			d.mode = modeRead
			return d, nil
		}
		d.outcome = msg.outcome
		d.mode = modeDone
		d.loadStatus()
		return d, nil
	case tea.KeyMsg:
		return d.handleKey(msg)
	}

	if d.mode == modeReflect {
		var cmd tea.Cmd
		d.input, cmd = d.input.Update(msg)
		return d, cmd
	}
	return d, nil
}

func (d *DetailScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch d.mode {
	case modeReflect:
		switch msg.String() {
		case "esc":
			d.mode = modeRead
			return d, nil
		case "enter":
			return d, d.finish(d.input.Value())
		}
		var cmd tea.Cmd
		d.input, cmd = d.input.Update(msg)
		return d, cmd

	case modeDone:
		if msg.String() == "enter" || msg.String() == "esc" {
			return d, router.Pop
		}
		return d, nil
	}

	switch msg.String() {
	case "esc":
		return d, router.Pop
	case "s":
		if _, err := d.svc.Learn.Start(context.Background(), d.lesson.ID); err != nil {
			d.err = err
		}
		d.loadStatus()
	case "f":
		if d.status == progress.StatusComplete {
			return d, nil
		}
		d.err = nil
		d.input = components.NewTextInput("What did you learn?", "Leave blank to use the lesson goal", 280)
		d.mode = modeReflect
		return d, d.input.Init()
	}
	return d, nil
}

func (d *DetailScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(theme.Title.Width(width).Render(d.lesson.Emoji + " " + d.lesson.Title))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(width).Render(fmt.Sprintf("%s · %d min · %s", d.lesson.ID, d.lesson.TimeMinutes, d.status)))
	b.WriteString("\n\n")

	switch d.mode {
	case modeDone:
		b.WriteString(components.Centered(components.Card(d.outcomeView(), cw), width))
		return b.String()
	case modeReflect:
		b.WriteString(components.Centered(components.Card(d.input.View(), cw), width))
		return b.String()
	}

	var body strings.Builder
	if d.lesson.LearningIntention != "" {
		body.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Learning intention"))
		body.WriteString("\n" + d.lesson.LearningIntention + "\n\n")
	}
	if d.lesson.Student.Intro != "" {
		body.WriteString(d.lesson.Student.Intro + "\n\n")
	}
	for _, a := range d.lesson.Student.Activities {
		body.WriteString("• " + a + "\n")
	}
	if d.teacherView() {
		body.WriteString(teacherNotes(d.lesson.Teacher))
	}
	b.WriteString(components.Centered(components.Card(strings.TrimRight(body.String(), "\n"), cw), width))

	if d.err != nil {
		b.WriteString(components.ErrorLine(d.err, width))
	}
	return b.String()
}

func (d *DetailScreen) teacherView() bool {
	return d.svc.Prefs != nil && d.svc.Prefs.PreferredTab(context.Background()) == prefs.TabTeacher
}

func teacherNotes(n catalog.TeacherNotes) string {
	var b strings.Builder
	heading := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	if n.LearningObjective != "" {
		b.WriteString("\n" + heading.Render("Objective") + "\n" + n.LearningObjective + "\n")
	}
	if len(n.SuccessCriteria) > 0 {
		b.WriteString("\n" + heading.Render("Success criteria") + "\n")
		for _, c := range n.SuccessCriteria {
			b.WriteString("✓ " + c + "\n")
		}
	}
	if len(n.NCAlignment) > 0 {
		b.WriteString("\n" + components.Dim("Curriculum: "+strings.Join(n.NCAlignment, "; ")) + "\n")
	}
	return b.String()
}

func (d *DetailScreen) outcomeView() string {
	o := d.outcome
	lines := []string{
		theme.Done.Render("Lesson complete!"),
		fmt.Sprintf("+%d XP  (total %d)", o.Completion.XPAwarded, o.Completion.XP),
	}
	if o.Completion.StreakBonus > 0 {
		lines = append(lines, fmt.Sprintf("+%d XP weekly streak (%d weeks)", o.Completion.StreakBonus, o.Completion.Streak))
	}
	if o.Badge != nil && o.NewBadge {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(theme.Sun).Bold(true).
			Render(o.Badge.Icon+" "+o.Badge.Title), components.Dim(o.Badge.Caption))
	}
	if o.Completion.Next != "" {
		lines = append(lines, "", components.Dim("Unlocked "+o.Completion.Next))
	}
	if o.AllComplete {
		lines = append(lines, "", theme.Done.Render("Every lesson is complete. You are a Nature Power Hero!"))
	}
	return strings.Join(lines, "\n")
}
