// Package widgets holds what the interactive lesson widgets share: the
// shape of the journal entry each one saves.
package widgets

import "github.com/abhisek/naturepower/internal/journal"

// Lessons each widget belongs to.
const (
	WeatherLesson     = "L1"
	HousesLesson      = "L2"
	ShadeLesson       = "L3"
	CircuitLesson     = "L4"
	PlatesLesson      = "L7"
	DesignLesson      = "L8"
	CitizenshipLesson = "L9"
)

// Finding describes a widget result worth keeping in the journal.
type Finding struct {
	LessonID string
	Title    string
	Type     string
	Step     string
	Content  string
	Facts    []string
	Data     any
	Tags     []string
}

// Draft converts f into a journal draft. Widget-specific fields travel as
// extra entry fields so timeline exports can read them back.
func (f Finding) Draft() journal.Draft {
	extra := map[string]any{
		"type":    f.Type,
		"step":    f.Step,
		"content": f.Content,
	}
	if f.Data != nil {
		extra["data"] = f.Data
	}
	if len(f.Tags) > 0 {
		extra["tags"] = f.Tags
	}
	return journal.Draft{
		LessonID:   f.LessonID,
		Title:      f.Title,
		Facts:      f.Facts,
		Reflection: f.Content,
		Extra:      extra,
	}
}
