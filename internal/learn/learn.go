// Package learn composes the ledger, badge catalog and journal into the
// start and finish steps of a lesson.
package learn

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/naturepower/internal/badges"
	"github.com/abhisek/naturepower/internal/catalog"
	"github.com/abhisek/naturepower/internal/journal"
	"github.com/abhisek/naturepower/internal/logging"
	"github.com/abhisek/naturepower/internal/progress"
)

// DefaultFact is recorded when a learner finishes without listing facts.
const DefaultFact = "Lesson completed successfully"

// Reflection is what the learner writes when finishing a lesson.
type Reflection struct {
	Facts       []string `json:"facts"`
	Reflection  string   `json:"reflection"`
	EvidenceImg *string  `json:"evidenceImg"`
}

// Outcome is the feedback for a finished lesson.
type Outcome struct {
	Completion  progress.Completion `json:"completion"`
	Badge       *catalog.Badge      `json:"badge,omitempty"`
	NewBadge    bool                `json:"newBadge"`
	Entry       journal.Entry       `json:"entry"`
	AllComplete bool                `json:"allComplete"`
}

// Service runs the lesson flow.
type Service struct {
	catalog  *catalog.Catalog
	progress *progress.Service
	journal  *journal.Service
	log      *logging.Logger
}

// NewService wires the lesson flow.
func NewService(c *catalog.Catalog, p *progress.Service, j *journal.Service, log *logging.Logger) *Service {
	return &Service{catalog: c, progress: p, journal: j, log: logging.OrNop(log).With("component", "learn")}
}

// Start marks a lesson as in progress.
func (s *Service) Start(ctx context.Context, lessonID string) (progress.State, error) {
	st, err := s.progress.StartLesson(ctx, lessonID)
	if err != nil {
		return st, fmt.Errorf("start lesson %s: %w", lessonID, err)
	}
	return st, nil
}

// Finish completes a lesson, awards its badge and records a journal entry.
func (s *Service) Finish(ctx context.Context, lessonID string, r Reflection) (Outcome, error) {
	completion, err := s.progress.CompleteLesson(ctx, lessonID)
	if err != nil {
		return Outcome{}, fmt.Errorf("finish lesson %s: %w", lessonID, err)
	}
	out := Outcome{Completion: completion}

	lesson, ok := s.catalog.Lesson(lessonID)
	if !ok {
		s.log.Warn("lesson missing from catalog", "lesson", lessonID)
		lesson = catalog.Lesson{ID: lessonID, Title: lessonID}
	}

	if lesson.Badge != "" {
		b, found := s.catalog.Badge(lesson.Badge)
		if !found {
			b = badges.Generic(lesson.Badge)
		}
		out.Badge = &b
		out.NewBadge = s.progress.AwardBadge(ctx, lesson.Badge)
	}

	draft := journal.Draft{
		LessonID:    lessonID,
		Title:       lesson.Title,
		Facts:       cleanFacts(r.Facts),
		Reflection:  strings.TrimSpace(r.Reflection),
		EvidenceImg: r.EvidenceImg,
	}
	if len(draft.Facts) == 0 {
		draft.Facts = []string{DefaultFact}
	}
	if draft.Reflection == "" {
		draft.Reflection = "Completed: " + intention(lesson)
	}
	entry, err := s.journal.Create(ctx, draft)
	if err != nil {
		return out, fmt.Errorf("record journal entry: %w", err)
	}
	out.Entry = entry
	out.AllComplete = s.progress.AllComplete(ctx)
	return out, nil
}

func intention(l catalog.Lesson) string {
	if l.LearningIntention != "" {
		return l.LearningIntention
	}
	return l.Title
}

func cleanFacts(facts []string) []string {
	var out []string
	for _, f := range facts {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
