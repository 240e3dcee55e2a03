package shadelab

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/naturepower/internal/events"
	"github.com/abhisek/naturepower/internal/journal"
	"github.com/abhisek/naturepower/internal/screen"
	"github.com/abhisek/naturepower/internal/store"
	"github.com/abhisek/naturepower/internal/widgets"
)

func TestSliderClampsAndSteps(t *testing.T) {
	s := New(&screen.Services{})

	s.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	if s.percent != 0 {
		t.Errorf("left at 0 = %d, want 0", s.percent)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if s.percent != 10 {
		t.Errorf("after two steps = %d, want 10", s.percent)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnd})
	if s.percent != 100 {
		t.Errorf("end = %d, want 100", s.percent)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if s.percent != 100 {
		t.Errorf("right at 100 = %d, want 100", s.percent)
	}
}

func TestSaveWritesJournal(t *testing.T) {
	j := journal.NewService(store.NewMemory(0), events.NewBus(nil), nil)
	s := New(&screen.Services{Journal: j})

	s.set(50)
	s.Update(tea.KeyPressMsg{Code: 's', Text: "s"})

	entries := j.ByLesson(context.Background(), widgets.ShadeLesson)
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if !strings.Contains(entries[0].Reflection, "50% shade") {
		t.Errorf("reflection = %q", entries[0].Reflection)
	}
	if !strings.Contains(s.View(100, 30), "-4.3°C") {
		t.Error("temperature change not shown")
	}
}
