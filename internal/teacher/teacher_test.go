package teacher

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/abhisek/naturepower/internal/gallery"
	"github.com/abhisek/naturepower/internal/journal"
	"github.com/abhisek/naturepower/internal/progress"
	"github.com/abhisek/naturepower/internal/store"
)

func newTeacher(t *testing.T) (*Service, *journal.Service, *progress.Service) {
	t.Helper()
	kv := store.NewMemory(0)
	now := func() time.Time { return time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC) }
	j := journal.NewService(kv, nil, nil, journal.WithClock(now))
	g := gallery.NewService(kv, nil, nil, gallery.WithClock(now))
	p := progress.NewService(kv, nil, nil, progress.WithClock(now))
	svc := NewService(j, g, p)
	svc.now = now
	return svc, j, p
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	svc, j, p := newTeacher(t)

	_, err := j.Create(ctx, journal.Draft{LessonID: "L1", Title: "Weather", Extra: map[string]any{"class": "Class 6D", "step": "weather_explorer"}})
	require.NoError(t, err)
	_, err = j.Create(ctx, journal.Draft{LessonID: "L1", Title: "Weather", Extra: map[string]any{"class": "Class 5A", "step": "weather_explorer"}})
	require.NoError(t, err)
	_, err = p.CompleteLesson(ctx, "L1")
	require.NoError(t, err)

	got := svc.Stats(ctx)
	// gallery samples span 5A, 5B and 5C
	assert.Equal(t, Stats{
		TotalStudents:       4 * StudentsPerClass,
		CompletedActivities: 1,
		GalleryItems:        4,
		JournalEntries:      2,
		LessonCompletion:    10,
	}, got)
}

func TestExport(t *testing.T) {
	svc, _, _ := newTeacher(t)
	raw, err := svc.Export(context.Background())
	require.NoError(t, err)

	var data ClassData
	require.NoError(t, json.Unmarshal(raw, &data))
	assert.Len(t, data.GalleryItems, 4)
	assert.Equal(t, 3*StudentsPerClass, data.Stats.TotalStudents)
}

func TestReport(t *testing.T) {
	ctx := context.Background()
	svc, j, _ := newTeacher(t)
	_, err := j.Create(ctx, journal.Draft{LessonID: "L2", Title: "Homes", Reflection: "Stilts keep floods out"})
	require.NoError(t, err)

	raw, err := svc.Report(ctx)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Summary", "Journal", "Gallery"}, f.GetSheetList())

	v, err := f.GetCellValue("Summary", "B6")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	v, err = f.GetCellValue("Journal", "F2")
	require.NoError(t, err)
	assert.Equal(t, "Stilts keep floods out", v)

	rows, err := f.GetRows("Gallery")
	require.NoError(t, err)
	assert.Len(t, rows, 5)
}
