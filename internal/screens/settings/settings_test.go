package settings

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/naturepower/internal/events"
	"github.com/abhisek/naturepower/internal/prefs"
	"github.com/abhisek/naturepower/internal/screen"
	"github.com/abhisek/naturepower/internal/store"
	"github.com/abhisek/naturepower/internal/ui/theme"
)

func TestToggleFlagAndTab(t *testing.T) {
	p := prefs.NewService(store.NewMemory(0), events.NewBus(nil), nil)
	s := New(&screen.Services{Prefs: p})
	ctx := context.Background()

	s.Update(tea.KeyPressMsg{Code: tea.KeySpace})
	if !p.Enabled(ctx, prefs.ReadAloud) {
		t.Error("read aloud should be on")
	}

	for range options {
		s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if got := p.PreferredTab(ctx); got != prefs.TabTeacher {
		t.Errorf("tab = %s, want teacher", got)
	}
	if s.current.PreferredTab != prefs.TabTeacher {
		t.Error("screen did not reload")
	}
}

func TestHighContrastSwapsPalette(t *testing.T) {
	t.Cleanup(func() { theme.Use(theme.Nature) })
	p := prefs.NewService(store.NewMemory(0), events.NewBus(nil), nil)
	s := New(&screen.Services{Prefs: p})

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeySpace})

	if theme.Text != theme.HighContrast.Text {
		t.Error("high contrast palette not applied")
	}
}
