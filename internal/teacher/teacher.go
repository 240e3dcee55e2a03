// Package teacher builds class overviews and downloadable reports from
// the journal, gallery and ledger.
package teacher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/naturepower/internal/gallery"
	"github.com/abhisek/naturepower/internal/journal"
	"github.com/abhisek/naturepower/internal/progress"
)

// StudentsPerClass is the class size used to estimate head count.
const StudentsPerClass = 25

// Stats is the teacher room headline.
type Stats struct {
	TotalStudents       int `json:"totalStudents"`
	CompletedActivities int `json:"completedActivities"`
	GalleryItems        int `json:"galleryItems"`
	JournalEntries      int `json:"journalEntries"`
	LessonCompletion    int `json:"lessonCompletion"`
}

// Service reads the learner-side services.
type Service struct {
	journal  *journal.Service
	gallery  *gallery.Service
	progress *progress.Service
	now      func() time.Time
}

// NewService creates a teacher view.
func NewService(j *journal.Service, g *gallery.Service, p *progress.Service) *Service {
	return &Service{journal: j, gallery: g, progress: p, now: time.Now}
}

// Stats counts classes and distinct activities across journal entries
// and gallery items.
func (s *Service) Stats(ctx context.Context) Stats {
	entries := s.journal.Entries(ctx)
	items := s.gallery.Items(ctx)

	classes := map[string]bool{}
	activities := map[string]bool{}
	for _, e := range entries {
		if c := e.ExtraString("class"); c != "" {
			classes[c] = true
		}
		if a := activity(e.ExtraString("activity"), e.ExtraString("step")); a != "" {
			activities[a] = true
		}
	}
	for _, it := range items {
		if it.Class != "" {
			classes[it.Class] = true
		}
		a, _ := it.Data["activity"].(string)
		if a != "" {
			activities[a] = true
		}
	}

	return Stats{
		TotalStudents:       len(classes) * StudentsPerClass,
		CompletedActivities: len(activities),
		GalleryItems:        len(items),
		JournalEntries:      len(entries),
		LessonCompletion:    s.progress.LessonProgress(ctx).Percentage,
	}
}

func activity(named, step string) string {
	if named != "" {
		return named
	}
	return step
}

// ClassData is the JSON class export.
type ClassData struct {
	ExportDate     time.Time       `json:"exportDate"`
	Stats          Stats           `json:"stats"`
	JournalEntries []journal.Entry `json:"journalEntries"`
	GalleryItems   []gallery.Item  `json:"galleryItems"`
}

// Export returns all class data as indented JSON.
func (s *Service) Export(ctx context.Context) ([]byte, error) {
	data := ClassData{
		ExportDate:     s.now().UTC(),
		Stats:          s.Stats(ctx),
		JournalEntries: s.journal.Entries(ctx),
		GalleryItems:   s.gallery.Items(ctx),
	}
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal class data: %w", err)
	}
	return out, nil
}

// Report builds a workbook with Summary, Journal and Gallery sheets.
func (s *Service) Report(ctx context.Context) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := s.summarySheet(ctx, f); err != nil {
		return nil, err
	}
	if err := journal.WriteSheet(f, "Journal", journal.SortByNewest(s.journal.Entries(ctx))); err != nil {
		return nil, err
	}
	if err := gallerySheet(f, s.gallery.Items(ctx)); err != nil {
		return nil, err
	}
	if idx, err := f.GetSheetIndex("Summary"); err == nil {
		f.SetActiveSheet(idx)
	}
	f.DeleteSheet("Sheet1")

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Service) summarySheet(ctx context.Context, f *excelize.File) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	st := s.Stats(ctx)
	ps := s.progress.Stats(ctx)
	rows := [][]any{
		{"Metric", "Value"},
		{"Generated", s.now().UTC().Format(time.RFC3339)},
		{"Estimated students", st.TotalStudents},
		{"Completed activities", st.CompletedActivities},
		{"Gallery items", st.GalleryItems},
		{"Journal entries", st.JournalEntries},
		{"Lesson completion %", st.LessonCompletion},
		{"XP", ps.XP},
		{"Streak (weeks)", ps.Streak},
		{"Badges earned", ps.Badges},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write summary row %d: %w", i+1, err)
		}
	}
	return nil
}

func gallerySheet(f *excelize.File, items []gallery.Item) error {
	const sheet = "Gallery"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	header := []any{"ID", "Date", "Type", "Title", "Class", "Likes", "Status"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, it := range items {
		status := "Pending"
		switch {
		case it.Hidden:
			status = "Hidden"
		case it.Approved:
			status = "Approved"
		}
		row := []any{it.ID, it.Date.Format("2006-01-02"), it.Type, it.Title, it.Class, it.Likes, status}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write gallery row %d: %w", i+2, err)
		}
	}
	return nil
}
