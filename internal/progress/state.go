package progress

import (
	"fmt"
	"slices"
	"time"
)

// Status is a lesson's position in the unlock chain.
type Status string

const (
	StatusLocked     Status = "locked"
	StatusInProgress Status = "inprogress"
	StatusComplete   Status = "complete"
)

// Rank orders statuses: locked < inprogress < complete.
func (s Status) Rank() int {
	switch s {
	case StatusInProgress:
		return 1
	case StatusComplete:
		return 2
	default:
		return 0
	}
}

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	return s == StatusLocked || s == StatusInProgress || s == StatusComplete
}

// LessonCount is the fixed size of the curriculum.
const LessonCount = 10

// LessonIDs lists the curriculum in unlock order.
var LessonIDs = func() []string {
	ids := make([]string, LessonCount)
	for i := range ids {
		ids[i] = fmt.Sprintf("L%d", i+1)
	}
	return ids
}()

// LessonIndex returns the 1-based position of id, or 0 when id is unknown.
func LessonIndex(id string) int {
	return slices.Index(LessonIDs, id) + 1
}

// State is the persisted progress record.
type State struct {
	LessonStatus     map[string]Status `json:"lessonStatus"`
	XP               int               `json:"xp"`
	Streak           int               `json:"streak"`
	LastVisit        *time.Time        `json:"lastVisitISO"`
	Badges           map[string]int64  `json:"badges"` // badge id -> award time, epoch ms
	CompletedLessons []string          `json:"completedLessons"`
}

// Default returns the state of a learner who has never visited.
func Default(now time.Time) State {
	st := State{
		LessonStatus:     make(map[string]Status, LessonCount),
		Badges:           map[string]int64{},
		CompletedLessons: []string{},
	}
	for i, id := range LessonIDs {
		st.LessonStatus[id] = defaultStatus(i + 1)
	}
	t := now.UTC()
	st.LastVisit = &t
	return st
}

func defaultStatus(index int) Status {
	if index == 1 {
		return StatusInProgress
	}
	return StatusLocked
}

// Clone returns a deep copy.
func (st State) Clone() State {
	out := st
	out.LessonStatus = make(map[string]Status, len(st.LessonStatus))
	for k, v := range st.LessonStatus {
		out.LessonStatus[k] = v
	}
	out.Badges = make(map[string]int64, len(st.Badges))
	for k, v := range st.Badges {
		out.Badges[k] = v
	}
	out.CompletedLessons = slices.Clone(st.CompletedLessons)
	if out.CompletedLessons == nil {
		out.CompletedLessons = []string{}
	}
	if st.LastVisit != nil {
		t := *st.LastVisit
		out.LastVisit = &t
	}
	return out
}

// normalize repairs a decoded state in place so the ledger invariants hold:
// every lesson has a known status, L1 is never locked, counters are
// non-negative and completedLessons mirrors the complete statuses.
func (st *State) normalize() {
	statuses := make(map[string]Status, LessonCount)
	for i, id := range LessonIDs {
		s, ok := st.LessonStatus[id]
		if !ok || !s.Valid() {
			s = defaultStatus(i + 1)
		}
		statuses[id] = s
	}
	if statuses[LessonIDs[0]] == StatusLocked {
		statuses[LessonIDs[0]] = StatusInProgress
	}
	st.LessonStatus = statuses

	if st.XP < 0 {
		st.XP = 0
	}
	if st.Streak < 0 {
		st.Streak = 0
	}
	if st.Badges == nil {
		st.Badges = map[string]int64{}
	}

	completed := make([]string, 0, len(st.CompletedLessons))
	for _, id := range st.CompletedLessons {
		if statuses[id] == StatusComplete && !slices.Contains(completed, id) {
			completed = append(completed, id)
		}
	}
	for _, id := range LessonIDs {
		if statuses[id] == StatusComplete && !slices.Contains(completed, id) {
			completed = append(completed, id)
		}
	}
	st.CompletedLessons = completed
}

// setStatus applies a status change without touching persistence.
func (st *State) setStatus(id string, status Status, now time.Time) error {
	idx := LessonIndex(id)
	if idx == 0 {
		return fmt.Errorf("%w: %q", ErrUnknownLesson, id)
	}
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if idx == 1 && status == StatusLocked {
		return fmt.Errorf("%w: %s cannot be locked", ErrInvalidStatus, id)
	}

	current := st.LessonStatus[id]
	if current == StatusLocked && status != StatusLocked && idx > 1 {
		prev := LessonIDs[idx-2]
		if st.LessonStatus[prev] != StatusComplete {
			return fmt.Errorf("%w: %s needs %s complete", ErrLessonLocked, id, prev)
		}
	}
	if status != StatusComplete && idx < LessonCount {
		next := LessonIDs[idx]
		if st.LessonStatus[next] != StatusLocked {
			return fmt.Errorf("%w: %s is already open", ErrReopen, next)
		}
	}

	st.LessonStatus[id] = status
	if status == StatusComplete {
		if idx < LessonCount {
			next := LessonIDs[idx]
			if st.LessonStatus[next] == StatusLocked {
				st.LessonStatus[next] = StatusInProgress
			}
		}
		if !slices.Contains(st.CompletedLessons, id) {
			st.CompletedLessons = append(st.CompletedLessons, id)
		}
	} else {
		st.CompletedLessons = slices.DeleteFunc(st.CompletedLessons, func(c string) bool { return c == id })
	}
	st.touch(now)
	return nil
}

func (st *State) touch(now time.Time) {
	t := now.UTC()
	st.LastVisit = &t
}

const week = 7 * 24 * time.Hour

// applyStreak runs the weekly streak rule against the current visit
// anchor. It reports the bonus XP granted and whether anything changed.
// The same-week branch leaves the anchor where it was.
func (st *State) applyStreak(now time.Time) (bonus int, changed bool) {
	if st.LastVisit == nil {
		st.Streak = 1
		st.touch(now)
		return 0, true
	}

	weeks := int(now.Sub(*st.LastVisit) / week)
	switch {
	case weeks <= 0:
		return 0, false
	case weeks == 1:
		st.Streak++
		st.XP += StreakBonusXP
		bonus = StreakBonusXP
	default:
		st.Streak = 1
	}
	st.touch(now)
	return bonus, true
}

// currentLesson prefers the lesson being worked on over the next one to do.
func (st *State) currentLesson() string {
	for _, id := range LessonIDs {
		if st.LessonStatus[id] == StatusInProgress {
			return id
		}
	}
	for _, id := range LessonIDs {
		if st.LessonStatus[id] != StatusComplete {
			return id
		}
	}
	return LessonIDs[LessonCount-1]
}
