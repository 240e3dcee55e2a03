// Package prefs stores learner display preferences as literal strings.
package prefs

import (
	"context"
	"fmt"
	"strconv"

	"github.com/abhisek/naturepower/internal/events"
	"github.com/abhisek/naturepower/internal/logging"
	"github.com/abhisek/naturepower/internal/store"
)

// Tab is the preferred lesson view.
type Tab string

const (
	TabStudent Tab = "student"
	TabTeacher Tab = "teacher"
)

// Flag names a boolean preference.
type Flag string

const (
	ReadAloud     Flag = store.KeyReadAloud
	HighContrast  Flag = store.KeyHighContrast
	ReducedMotion Flag = store.KeyReducedMotion
)

// Prefs is a snapshot of every preference.
type Prefs struct {
	PreferredTab  Tab  `json:"preferredTab" validate:"omitempty,oneof=student teacher"`
	ReadAloud     bool `json:"readAloud"`
	HighContrast  bool `json:"highContrast"`
	ReducedMotion bool `json:"reducedMotion"`
}

// Service reads and writes preferences.
type Service struct {
	kv  store.KV
	bus events.Publisher
	log *logging.Logger
}

// NewService creates a preference store. bus may be nil.
func NewService(kv store.KV, bus events.Publisher, log *logging.Logger) *Service {
	if bus == nil {
		bus = events.Discard{}
	}
	return &Service{kv: kv, bus: bus, log: logging.OrNop(log).With("component", "prefs")}
}

// PreferredTab returns the stored tab, defaulting to the student view.
func (s *Service) PreferredTab(ctx context.Context) Tab {
	v, ok, err := s.kv.Get(ctx, store.KeyPreferredTab)
	if err != nil {
		s.log.Warn("read preference", "key", store.KeyPreferredTab, "error", err)
	}
	if !ok || Tab(v) != TabTeacher {
		return TabStudent
	}
	return TabTeacher
}

// SetPreferredTab stores tab.
func (s *Service) SetPreferredTab(ctx context.Context, tab Tab) error {
	if tab != TabStudent && tab != TabTeacher {
		return fmt.Errorf("unknown tab %q", tab)
	}
	if err := s.kv.Set(ctx, store.KeyPreferredTab, string(tab)); err != nil {
		s.log.Warn("persist preference", "key", store.KeyPreferredTab, "error", err)
	}
	s.bus.Publish(events.Event{Kind: events.PrefsUpdated, Key: store.KeyPreferredTab})
	return nil
}

// Enabled returns a boolean preference. Only the literal "true" is on.
func (s *Service) Enabled(ctx context.Context, f Flag) bool {
	v, ok, err := s.kv.Get(ctx, string(f))
	return err == nil && ok && v == "true"
}

// SetEnabled stores a boolean preference as "true" or "false".
func (s *Service) SetEnabled(ctx context.Context, f Flag, on bool) {
	if err := s.kv.Set(ctx, string(f), strconv.FormatBool(on)); err != nil {
		s.log.Warn("persist preference", "key", string(f), "error", err)
	}
	s.bus.Publish(events.Event{Kind: events.PrefsUpdated, Key: string(f)})
}

// All returns every preference.
func (s *Service) All(ctx context.Context) Prefs {
	return Prefs{
		PreferredTab:  s.PreferredTab(ctx),
		ReadAloud:     s.Enabled(ctx, ReadAloud),
		HighContrast:  s.Enabled(ctx, HighContrast),
		ReducedMotion: s.Enabled(ctx, ReducedMotion),
	}
}

// Apply stores every field of p. An empty tab leaves the tab unchanged.
func (s *Service) Apply(ctx context.Context, p Prefs) error {
	if p.PreferredTab != "" {
		if err := s.SetPreferredTab(ctx, p.PreferredTab); err != nil {
			return err
		}
	}
	s.SetEnabled(ctx, ReadAloud, p.ReadAloud)
	s.SetEnabled(ctx, HighContrast, p.HighContrast)
	s.SetEnabled(ctx, ReducedMotion, p.ReducedMotion)
	return nil
}

// ParseFlag maps a short name ("read-aloud", "high-contrast",
// "reduced-motion") to a Flag.
func ParseFlag(name string) (Flag, error) {
	switch name {
	case "read-aloud", "readAloud":
		return ReadAloud, nil
	case "high-contrast", "highContrast":
		return HighContrast, nil
	case "reduced-motion", "reducedMotion":
		return ReducedMotion, nil
	}
	return "", fmt.Errorf("unknown preference %q", name)
}
