package journal

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportVersion is written into JSON exports and checked on import.
const ExportVersion = "1.0"

// Layout selects a CSV column set.
type Layout int

const (
	// LayoutTimeline is ID,Date,Time,Type,Step,Content,Tags.
	LayoutTimeline Layout = iota
	// LayoutProfile is Date,Lesson,Title,Facts,Reflection.
	LayoutProfile
)

// ParseLayout maps a layout name to a Layout.
func ParseLayout(name string) (Layout, error) {
	switch strings.ToLower(name) {
	case "", "timeline", "csv":
		return LayoutTimeline, nil
	case "profile", "profile-csv":
		return LayoutProfile, nil
	}
	return 0, fmt.Errorf("unknown csv layout %q", name)
}

// Export is the JSON export document.
type Export struct {
	ExportDate   time.Time `json:"exportDate"`
	Version      string    `json:"version"`
	Course       string    `json:"course"`
	TotalEntries int       `json:"totalEntries"`
	Entries      []Entry   `json:"entries"`
}

// ExportJSON serializes the collection with an export timestamp.
func (s *Service) ExportJSON(ctx context.Context) ([]byte, error) {
	entries := s.Entries(ctx)
	doc := Export{
		ExportDate:   s.now().UTC(),
		Version:      ExportVersion,
		Course:       Course,
		TotalEntries: len(entries),
		Entries:      entries,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	return data, nil
}

// ExportCSV serializes the collection in storage order. Cells containing a
// comma, quote or newline are quoted with inner quotes doubled.
func (s *Service) ExportCSV(ctx context.Context, layout Layout) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header, row := timelineHeader, timelineRow
	if layout == LayoutProfile {
		header, row = profileHeader, profileRow
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range s.Entries(ctx) {
		if err := w.Write(row(e)); err != nil {
			return nil, fmt.Errorf("write csv row %s: %w", e.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	timelineHeader = []string{"ID", "Date", "Time", "Type", "Step", "Content", "Tags"}
	profileHeader  = []string{"Date", "Lesson", "Title", "Facts", "Reflection"}
)

func timelineRow(e Entry) []string {
	t := e.Time()
	typ := e.ExtraString("type")
	if typ == "" {
		typ = "journal"
	}
	step := e.ExtraString("step")
	if step == "" {
		step = e.LessonID
	}
	return []string{
		e.ID,
		t.Format("2006-01-02"),
		t.Format("15:04:05"),
		typ,
		step,
		e.Content(),
		strings.Join(e.ExtraStrings("tags"), "; "),
	}
}

func profileRow(e Entry) []string {
	return []string{
		e.Time().Format("2006-01-02"),
		e.LessonID,
		e.Title,
		strings.Join(e.Facts, "; "),
		e.Reflection,
	}
}

// ExportXLSX writes the collection to a workbook with one row per entry.
func (s *Service) ExportXLSX(ctx context.Context) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := WriteSheet(f, "Journal", s.Entries(ctx)); err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteSheet adds a sheet listing entries to f.
func WriteSheet(f *excelize.File, sheet string, entries []Entry) error {
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	f.SetActiveSheet(idx)

	header := []any{"ID", "Date", "Lesson", "Title", "Facts", "Reflection", "Has Evidence"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetRowStyle(sheet, 1, 1, bold)
	}

	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		hasEvidence := "No"
		if e.EvidenceImg != nil && *e.EvidenceImg != "" {
			hasEvidence = "Yes"
		}
		row := []any{
			e.ID,
			e.Time().Format("2006-01-02 15:04"),
			e.LessonID,
			e.Title,
			strings.Join(e.Facts, "; "),
			e.Reflection,
			hasEvidence,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	return nil
}
