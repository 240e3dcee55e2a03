package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/abhisek/naturepower/internal/events"
	"github.com/abhisek/naturepower/internal/logging"
	"github.com/abhisek/naturepower/internal/store"
)

// XP awards.
const (
	CompletionXP  = 50
	StartXP       = 10
	StreakBonusXP = 10
)

// Completion is the feedback returned by CompleteLesson.
type Completion struct {
	LessonID    string `json:"lessonId"`
	XPAwarded   int    `json:"xpAwarded"`
	StreakBonus int    `json:"streakBonus"`
	Streak      int    `json:"streak"`
	XP          int    `json:"xp"`
	Next        string `json:"next,omitempty"`
}

// StreakResult is the outcome of UpdateStreak.
type StreakResult struct {
	Streak  int  `json:"streak"`
	Bonus   int  `json:"bonus"`
	Changed bool `json:"changed"`
}

// Summary reports completion across the curriculum.
type Summary struct {
	Completed  int    `json:"completed"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
	Current    string `json:"current"`
}

// Stats is the headline view of a learner's progress.
type Stats struct {
	XP        int        `json:"xp"`
	Streak    int        `json:"streak"`
	Badges    int        `json:"badges"`
	Lessons   int        `json:"lessons"`
	LastVisit *time.Time `json:"lastVisit"`
}

// Service is the progress ledger. Every mutation is a single
// read-modify-write of the whole state under one key.
type Service struct {
	kv  store.KV
	bus events.Publisher
	log *logging.Logger
	now func() time.Time

	mu sync.Mutex
	// unsaved holds state whose last write failed, so callers keep seeing
	// their changes until storage accepts a write again.
	unsaved *State
	// pending holds events raised under mu. unlock publishes them after
	// releasing mu so subscribers can call back into the ledger.
	pending []events.Event
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a ledger over kv. bus may be nil.
func NewService(kv store.KV, bus events.Publisher, log *logging.Logger, opts ...Option) *Service {
	if bus == nil {
		bus = events.Discard{}
	}
	s := &Service{
		kv:  kv,
		bus: bus,
		log: logging.OrNop(log).With("component", "progress"),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// load returns the current state, materializing and persisting defaults
// when nothing usable is stored. Callers must hold s.mu.
func (s *Service) load(ctx context.Context) State {
	if s.unsaved != nil {
		return s.unsaved.Clone()
	}
	var st State
	if !store.ReadJSON(ctx, s.kv, store.KeyProgress, &st, s.log) {
		st = Default(s.now())
		s.save(ctx, st)
		return st
	}
	st.normalize()
	return st
}

// save persists st. Failures are logged and the state is kept in memory.
func (s *Service) save(ctx context.Context, st State) {
	if err := store.WriteJSON(ctx, s.kv, store.KeyProgress, st); err != nil {
		s.log.Warn("persist progress", "error", err)
		c := st.Clone()
		s.unsaved = &c
		return
	}
	s.unsaved = nil
}

// unlock releases s.mu, then publishes what was queued while it was held.
func (s *Service) unlock() {
	evs := s.pending
	s.pending = nil
	s.mu.Unlock()
	for _, e := range evs {
		s.bus.Publish(e)
	}
}

func (s *Service) queue(e events.Event) { s.pending = append(s.pending, e) }

func (s *Service) updated(st State, lessonID string) {
	s.queue(events.Event{Kind: events.ProgressUpdated, LessonID: lessonID, Payload: st.Clone()})
}

func (s *Service) xpAwarded(points, total int, reason string) {
	s.queue(events.Event{Kind: events.XPAwarded, Points: points, Total: total, Reason: reason})
}

// Progress returns the current state.
func (s *Service) Progress(ctx context.Context) State {
	s.mu.Lock()
	defer s.unlock()
	return s.load(ctx)
}

// SetLessonStatus changes one lesson's status. Completing a lesson unlocks
// the next one if it is still locked.
func (s *Service) SetLessonStatus(ctx context.Context, id string, status Status) (State, error) {
	s.mu.Lock()
	defer s.unlock()

	st := s.load(ctx)
	if err := st.setStatus(id, status, s.now()); err != nil {
		return st, err
	}
	s.save(ctx, st)
	s.updated(st, id)
	return st.Clone(), nil
}

// StartLesson marks a lesson in progress and awards the start bonus.
// Starting an already complete lesson changes nothing.
func (s *Service) StartLesson(ctx context.Context, id string) (State, error) {
	s.mu.Lock()
	defer s.unlock()

	st := s.load(ctx)
	if LessonIndex(id) != 0 && st.LessonStatus[id] == StatusComplete {
		return st, nil
	}
	now := s.now()
	if err := st.setStatus(id, StatusInProgress, now); err != nil {
		return st, err
	}
	st.XP += StartXP
	s.save(ctx, st)
	s.updated(st, id)
	s.xpAwarded(StartXP, st.XP, "lesson started")
	return st.Clone(), nil
}

// CompleteLesson completes id, awards CompletionXP and runs the streak
// rule. The streak is measured from the visit recorded before this call.
func (s *Service) CompleteLesson(ctx context.Context, id string) (Completion, error) {
	s.mu.Lock()
	defer s.unlock()

	st := s.load(ctx)
	now := s.now()
	anchor := st.LastVisit

	if err := st.setStatus(id, StatusComplete, now); err != nil {
		return Completion{}, err
	}
	st.XP += CompletionXP

	st.LastVisit = anchor
	bonus, _ := st.applyStreak(now)
	st.touch(now)

	s.save(ctx, st)
	s.updated(st, id)
	s.xpAwarded(CompletionXP, st.XP-bonus, "lesson complete")
	if bonus > 0 {
		s.xpAwarded(bonus, st.XP, "weekly streak")
	}

	c := Completion{
		LessonID:    id,
		XPAwarded:   CompletionXP,
		StreakBonus: bonus,
		Streak:      st.Streak,
		XP:          st.XP,
	}
	if idx := LessonIndex(id); idx < LessonCount {
		c.Next = LessonIDs[idx]
	}
	return c, nil
}

// AddXP adds points and returns the new total.
func (s *Service) AddXP(ctx context.Context, points int) (int, error) {
	if points <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidPoints, points)
	}
	s.mu.Lock()
	defer s.unlock()

	st := s.load(ctx)
	st.XP += points
	st.touch(s.now())
	s.save(ctx, st)
	s.updated(st, "")
	s.xpAwarded(points, st.XP, "")
	return st.XP, nil
}

// UpdateStreak applies the weekly streak rule: a visit one week after the
// last one extends the streak and awards StreakBonusXP, a longer gap
// restarts it at 1, and a visit in the same week changes nothing.
func (s *Service) UpdateStreak(ctx context.Context) StreakResult {
	s.mu.Lock()
	defer s.unlock()

	st := s.load(ctx)
	bonus, changed := st.applyStreak(s.now())
	if !changed {
		return StreakResult{Streak: st.Streak}
	}
	s.save(ctx, st)
	s.updated(st, "")
	if bonus > 0 {
		s.xpAwarded(bonus, st.XP, "weekly streak")
	}
	return StreakResult{Streak: st.Streak, Bonus: bonus, Changed: true}
}

// AwardBadge records a badge. It reports false, changing nothing, when the
// badge was already earned.
func (s *Service) AwardBadge(ctx context.Context, badgeID string) bool {
	if badgeID == "" {
		return false
	}
	s.mu.Lock()
	defer s.unlock()

	st := s.load(ctx)
	if _, ok := st.Badges[badgeID]; ok {
		return false
	}
	now := s.now()
	st.Badges[badgeID] = now.UnixMilli()
	st.touch(now)
	s.save(ctx, st)
	s.updated(st, "")
	s.queue(events.Event{Kind: events.BadgeEarned, BadgeID: badgeID})
	return true
}

// BadgeStatus returns when badgeID was earned.
func (s *Service) BadgeStatus(ctx context.Context, badgeID string) (time.Time, bool) {
	st := s.Progress(ctx)
	ms, ok := st.Badges[badgeID]
	if !ok {
		return time.Time{}, false
	}
	return time.UnixMilli(ms).UTC(), true
}

// EarnedBadges returns every earned badge with its award time.
func (s *Service) EarnedBadges(ctx context.Context) map[string]time.Time {
	st := s.Progress(ctx)
	out := make(map[string]time.Time, len(st.Badges))
	for id, ms := range st.Badges {
		out[id] = time.UnixMilli(ms).UTC()
	}
	return out
}

// AllComplete reports whether every lesson has been completed.
func (s *Service) AllComplete(ctx context.Context) bool {
	return len(s.Progress(ctx).CompletedLessons) == LessonCount
}

// CurrentLesson returns the first lesson in progress, else the first not
// complete, else the last lesson.
func (s *Service) CurrentLesson(ctx context.Context) string {
	st := s.Progress(ctx)
	return st.currentLesson()
}

// LessonProgress summarizes completion.
func (s *Service) LessonProgress(ctx context.Context) Summary {
	st := s.Progress(ctx)
	done := len(st.CompletedLessons)
	return Summary{
		Completed:  done,
		Total:      LessonCount,
		Percentage: int(math.Round(float64(done) * 100 / LessonCount)),
		Current:    st.currentLesson(),
	}
}

// Stats returns headline numbers.
func (s *Service) Stats(ctx context.Context) Stats {
	st := s.Progress(ctx)
	return Stats{
		XP:        st.XP,
		Streak:    st.Streak,
		Badges:    len(st.Badges),
		Lessons:   len(st.CompletedLessons),
		LastVisit: st.LastVisit,
	}
}

// Reset discards stored progress and starts over from defaults.
func (s *Service) Reset(ctx context.Context) State {
	s.mu.Lock()
	defer s.unlock()

	if err := s.kv.Remove(ctx, store.KeyProgress); err != nil {
		s.log.Warn("remove progress", "error", err)
	}
	s.unsaved = nil
	st := Default(s.now())
	s.save(ctx, st)
	s.queue(events.Event{Kind: events.ProgressReset, Payload: st.Clone()})
	return st
}

// Export returns the state as indented JSON with a dated file name.
func (s *Service) Export(ctx context.Context) (string, []byte, error) {
	st := s.Progress(ctx)
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return "", nil, fmt.Errorf("marshal progress: %w", err)
	}
	name := fmt.Sprintf("nature-power-progress-%s.json", s.now().UTC().Format("2006-01-02"))
	return name, data, nil
}

// Sweep re-persists the current state. It retries writes that failed
// earlier and stores repairs made while loading.
func (s *Service) Sweep(ctx context.Context) {
	s.mu.Lock()
	defer s.unlock()
	s.save(ctx, s.load(ctx))
}

// Reload drops state held back by a failed write so the next read comes
// from storage. Used when another process has written the ledger.
func (s *Service) Reload() {
	s.mu.Lock()
	defer s.unlock()
	s.unsaved = nil
}
