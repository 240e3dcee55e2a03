package lessons

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/naturepower/internal/badges"
	"github.com/abhisek/naturepower/internal/catalog"
	"github.com/abhisek/naturepower/internal/events"
	"github.com/abhisek/naturepower/internal/journal"
	"github.com/abhisek/naturepower/internal/learn"
	"github.com/abhisek/naturepower/internal/prefs"
	"github.com/abhisek/naturepower/internal/progress"
	"github.com/abhisek/naturepower/internal/router"
	"github.com/abhisek/naturepower/internal/screen"
	"github.com/abhisek/naturepower/internal/store"
)

func newServices() *screen.Services {
	kv := store.NewMemory(0)
	bus := events.NewBus(nil)
	cat := catalog.Default()
	p := progress.NewService(kv, bus, nil)
	j := journal.NewService(kv, bus, nil)
	return &screen.Services{
		Catalog:  cat,
		Progress: p,
		Journal:  j,
		Badges:   badges.NewService(cat, p),
		Prefs:    prefs.NewService(kv, bus, nil),
		Learn:    learn.NewService(cat, p, j, nil),
	}
}

func press(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func letter(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestListStartsOnCurrentLesson(t *testing.T) {
	s := New(newServices())
	if got := s.rows[s.selected].lesson.ID; got != "L1" {
		t.Errorf("selected %s, want L1", got)
	}
	if len(s.rows) != progress.LessonCount {
		t.Errorf("rows = %d, want %d", len(s.rows), progress.LessonCount)
	}
}

func TestListLockedLessonDoesNotOpen(t *testing.T) {
	s := New(newServices())
	s.Update(press(tea.KeyDown))
	_, cmd := s.Update(press(tea.KeyEnter))
	if cmd != nil {
		t.Error("locked lesson should not open")
	}
}

func TestListOpensDetail(t *testing.T) {
	s := New(newServices())
	_, cmd := s.Update(press(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected push command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("got %T, want PushScreenMsg", cmd())
	}
	if _, ok := msg.Screen.(*DetailScreen); !ok {
		t.Errorf("pushed %T, want *DetailScreen", msg.Screen)
	}
}

func TestDetailFinishFlow(t *testing.T) {
	svc := newServices()
	d := NewDetail(svc, "L1")

	d.Update(letter('f'))
	if d.mode != modeReflect {
		t.Fatalf("mode = %d, want reflect", d.mode)
	}
	for _, r := range "Rain" {
		d.Update(letter(r))
	}
	_, cmd := d.Update(press(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected finish command")
	}
	d.Update(cmd())

	if d.mode != modeDone {
		t.Fatalf("mode = %d, want done (err %v)", d.mode, d.err)
	}
	if !d.outcome.NewBadge {
		t.Error("expected a new badge")
	}
	if d.status != progress.StatusComplete {
		t.Errorf("status = %s, want complete", d.status)
	}

	e, ok := svc.Journal.LatestForLesson(context.Background(), "L1")
	if !ok || e.Reflection != "Rain" {
		t.Errorf("journal entry = %+v, %v", e, ok)
	}
	if !strings.Contains(d.View(100, 30), "Lesson complete!") {
		t.Error("outcome not rendered")
	}
}

func TestDetailStartAddsXP(t *testing.T) {
	svc := newServices()
	d := NewDetail(svc, "L1")
	d.Update(letter('s'))
	if got := svc.Progress.Stats(context.Background()).XP; got != progress.StartXP {
		t.Errorf("xp = %d, want %d", got, progress.StartXP)
	}
}

func TestDetailStartOnLockedShowsError(t *testing.T) {
	d := NewDetail(newServices(), "L3")
	d.Update(letter('s'))
	if d.err == nil {
		t.Error("expected an error starting a locked lesson")
	}
}

func TestDetailTeacherView(t *testing.T) {
	svc := newServices()
	if err := svc.Prefs.SetPreferredTab(context.Background(), prefs.TabTeacher); err != nil {
		t.Fatal(err)
	}
	d := NewDetail(svc, "L1")
	if !d.teacherView() {
		t.Error("teacher view should be on")
	}
	d2 := NewDetail(newServices(), "L1")
	if d2.teacherView() {
		t.Error("student view expected by default")
	}
}
