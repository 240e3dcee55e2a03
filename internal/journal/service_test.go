package journal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/abhisek/naturepower/internal/events"
	"github.com/abhisek/naturepower/internal/store"
)

type testClock struct{ t time.Time }

func (c *testClock) now() time.Time           { return c.t }
func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type recorder struct{ events []events.Event }

func (r *recorder) Publish(e events.Event) { r.events = append(r.events, e) }

func newTestService(t *testing.T, opts ...Option) (*Service, *store.Memory, *testClock, *recorder) {
	t.Helper()
	kv := store.NewMemory(0)
	clock := &testClock{t: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)}
	rec := &recorder{}
	opts = append([]Option{WithClock(clock.now)}, opts...)
	return NewService(kv, rec, nil, opts...), kv, clock, rec
}

func TestCreateEntry(t *testing.T) {
	svc, _, clock, rec := newTestService(t)
	ctx := context.Background()

	e, err := svc.Create(ctx, Draft{LessonID: "L1", Title: "Nature Detective"})
	require.NoError(t, err)

	assert.Equal(t, "L1-2026-03-02T10:00:00.000Z", e.ID)
	assert.Equal(t, clock.now().UnixMilli(), e.Timestamp)
	assert.Empty(t, e.Facts)
	assert.Empty(t, e.Reflection)
	assert.Nil(t, e.EvidenceImg)

	require.Len(t, rec.events, 1)
	assert.Equal(t, events.JournalUpdated, rec.events[0].Kind)
	assert.Equal(t, events.ActionCreated, rec.events[0].Action)

	_, err = svc.Create(ctx, Draft{})
	assert.ErrorIs(t, err, ErrMissingLesson)
}

func TestCreateAvoidsIDCollision(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	a, _ := svc.Create(ctx, Draft{LessonID: "L2", Title: "x"})
	b, _ := svc.Create(ctx, Draft{LessonID: "L2", Title: "y"})

	if a.ID == b.ID {
		t.Fatalf("duplicate id %q", a.ID)
	}
	if b.Timestamp != a.Timestamp+1 {
		t.Errorf("second timestamp = %d, want %d", b.Timestamp, a.Timestamp+1)
	}
}

func TestUpsert(t *testing.T) {
	svc, _, _, rec := newTestService(t)
	ctx := context.Background()

	e, _ := svc.Create(ctx, Draft{LessonID: "L1", Title: "t"})
	e.Reflection = "changed my mind"

	action, err := svc.Upsert(ctx, e)
	require.NoError(t, err)
	assert.Equal(t, events.ActionUpdated, action)

	entries := svc.Entries(ctx)
	require.Len(t, entries, 1)
	assert.Equal(t, "changed my mind", entries[0].Reflection)

	fresh := Entry{ID: "L3-manual", LessonID: "L3", Title: "t", Timestamp: 1}
	action, _ = svc.Upsert(ctx, fresh)
	assert.Equal(t, events.ActionCreated, action)
	assert.Len(t, svc.Entries(ctx), 2)

	assert.Equal(t, events.ActionUpdated, rec.events[1].Action)
	_, err = svc.Upsert(ctx, Entry{})
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestQueriesByLesson(t *testing.T) {
	svc, _, clock, _ := newTestService(t)
	ctx := context.Background()

	first, _ := svc.Create(ctx, Draft{LessonID: "L1", Title: "a"})
	clock.advance(time.Minute)
	svc.Create(ctx, Draft{LessonID: "L2", Title: "b"})
	clock.advance(time.Minute)
	second, _ := svc.Create(ctx, Draft{LessonID: "L1", Title: "c"})

	got := svc.ByLesson(ctx, "L1")
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID)

	latest, ok := svc.LatestForLesson(ctx, "L1")
	require.True(t, ok)
	assert.Equal(t, second.ID, latest.ID)

	_, ok = svc.LatestForLesson(ctx, "L9")
	assert.False(t, ok)
}

func TestLatestUsesTimestampNotPosition(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	newer := Entry{ID: "n", LessonID: "L1", Title: "n", Timestamp: 2000}
	older := Entry{ID: "o", LessonID: "L1", Title: "o", Timestamp: 1000}
	svc.Upsert(ctx, newer)
	svc.Upsert(ctx, older)

	latest, _ := svc.LatestForLesson(ctx, "L1")
	if latest.ID != "n" {
		t.Errorf("latest = %q, want n", latest.ID)
	}

	recent := svc.Recent(ctx, 0)
	if recent[0].ID != "n" || recent[1].ID != "o" {
		t.Errorf("recent order = %s,%s", recent[0].ID, recent[1].ID)
	}
	if got := svc.Entries(ctx); got[0].ID != "n" {
		t.Error("Entries must keep storage order")
	}
}

func TestDelete(t *testing.T) {
	svc, _, _, rec := newTestService(t)
	ctx := context.Background()
	e, _ := svc.Create(ctx, Draft{LessonID: "L1", Title: "t"})

	ok, err := svc.Delete(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, svc.Entries(ctx))

	last := rec.events[len(rec.events)-1]
	assert.Equal(t, events.ActionDeleted, last.Action)
	assert.Equal(t, e.ID, last.EntryID)
	assert.Nil(t, last.Payload, "deleted event carries only the id")

	ok, _ = svc.Delete(ctx, "nope")
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	svc, kv, _, rec := newTestService(t)
	ctx := context.Background()
	svc.Create(ctx, Draft{LessonID: "L1", Title: "t"})

	require.NoError(t, svc.Clear(ctx))
	_, ok, _ := kv.Get(ctx, store.KeyJournal)
	assert.False(t, ok)
	assert.Equal(t, events.JournalCleared, rec.events[len(rec.events)-1].Kind)
}

func TestMalformedJournalReadsEmpty(t *testing.T) {
	svc, kv, _, _ := newTestService(t)
	ctx := context.Background()
	kv.Set(ctx, store.KeyJournal, "not json")

	if got := svc.Entries(ctx); len(got) != 0 {
		t.Errorf("entries = %d, want 0", len(got))
	}
}

func TestMalformedEntrySkippedOthersKept(t *testing.T) {
	svc, kv, _, _ := newTestService(t)
	ctx := context.Background()
	kv.Set(ctx, store.KeyJournal, `[
		{"id":"a","lessonId":"L1","title":"Good","timestamp":1},
		{"id":"b","lessonId":"L1","title":"Bad date","timestamp":"2024-01-01"},
		{"id":"c","lessonId":"L1","facts":5,"timestamp":2}
	]`)

	got := svc.Entries(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)

	_, err := svc.Create(ctx, Draft{LessonID: "L2", Title: "Next"})
	require.NoError(t, err)

	ids := []string{}
	for _, e := range svc.Entries(ctx) {
		ids = append(ids, e.ID)
	}
	assert.Len(t, ids, 2)
	assert.Contains(t, ids, "a")
}

func TestExtraFieldsRoundTrip(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	e, err := svc.Create(ctx, Draft{
		LessonID: "L4",
		Title:    "Circuits",
		Extra:    map[string]any{"widgetData": map[string]any{"lit": true}, "tags": []string{"circuit"}},
	})
	require.NoError(t, err)

	got := svc.Entries(ctx)[0]
	assert.Equal(t, []string{"circuit"}, got.ExtraStrings("tags"))
	assert.JSONEq(t, `{"lit":true}`, string(got.Extra["widgetData"]))
	assert.Equal(t, e.ID, got.ID)
}

func TestCapacityDropsOldest(t *testing.T) {
	svc, _, clock, _ := newTestService(t, WithMaxEntries(3))
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		svc.Create(ctx, Draft{LessonID: "L1", Title: "t"})
		clock.advance(time.Second)
	}
	entries := svc.Entries(ctx)
	require.Len(t, entries, 3)
	assert.Equal(t, "L1-2026-03-02T10:00:02.000Z", entries[0].ID)
}

func TestQuotaEvictsOldestFifth(t *testing.T) {
	kv := store.NewMemory(0)
	clock := &testClock{t: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)}
	svc := NewService(kv, nil, nil, WithClock(clock.now))
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		svc.Create(ctx, Draft{LessonID: "L1", Title: "t", Reflection: strings.Repeat("x", 50)})
		clock.advance(time.Second)
	}
	raw, _, _ := kv.Get(ctx, store.KeyJournal)

	// Room for the current ten entries but not an eleventh.
	tight := store.NewMemory(len(store.KeyJournal) + len(raw) + 20)
	require.NoError(t, tight.Set(ctx, store.KeyJournal, raw))
	svc = NewService(tight, nil, nil, WithClock(clock.now))

	_, err := svc.Create(ctx, Draft{LessonID: "L2", Title: "t", Reflection: strings.Repeat("y", 50)})
	require.NoError(t, err)

	entries := svc.Entries(ctx)
	// Eleven entries minus the oldest ceil(2.2) = 3.
	require.Len(t, entries, 8)
	assert.Equal(t, "L1-2026-03-02T10:00:03.000Z", entries[0].ID)
	assert.Equal(t, "L2", entries[len(entries)-1].LessonID)
}

func TestStats(t *testing.T) {
	svc, _, clock, _ := newTestService(t)
	ctx := context.Background()
	img := "data:image/png;base64,AAAA"

	svc.Create(ctx, Draft{LessonID: "L1", Title: "a", EvidenceImg: &img})
	clock.advance(time.Minute)
	svc.Create(ctx, Draft{LessonID: "L1", Title: "b"})
	clock.advance(time.Minute)
	last, _ := svc.Create(ctx, Draft{LessonID: "L2", Title: "c"})

	st := svc.Stats(ctx)
	assert.Equal(t, 3, st.TotalEntries)
	assert.Equal(t, 2, st.LessonsWithEntries)
	assert.Equal(t, 1, st.EntriesWithEvidence)
	require.NotNil(t, st.LatestEntry)
	assert.Equal(t, last.ID, st.LatestEntry.ID)
}

func TestSearch(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()
	svc.Create(ctx, Draft{LessonID: "L1", Title: "Shade walk", Facts: []string{"Trees cool the ground"}})
	svc.Create(ctx, Draft{LessonID: "L4", Title: "Circuits", Reflection: "The lamp lit up"})

	if got := svc.Search(ctx, "TREES"); len(got) != 1 || got[0].LessonID != "L1" {
		t.Errorf("search trees = %v", got)
	}
	if got := svc.Search(ctx, "lamp"); len(got) != 1 || got[0].LessonID != "L4" {
		t.Errorf("search lamp = %v", got)
	}
	if got := svc.Search(ctx, ""); len(got) != 2 {
		t.Errorf("empty search = %d entries, want 2", len(got))
	}
}

func TestExportCSVEscaping(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()
	svc.Create(ctx, Draft{LessonID: "L1", Title: "Nature Detective", Reflection: `He said "hi", then left`})

	data, err := svc.ExportCSV(ctx, LayoutTimeline)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "ID,Date,Time,Type,Step,Content,Tags", lines[0])
	assert.Equal(t, `L1-2026-03-02T10:00:00.000Z,2026-03-02,10:00:00,journal,L1,"He said ""hi"", then left",`, lines[1])
}

func TestExportCSVProfileLayout(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()
	svc.Create(ctx, Draft{LessonID: "L2", Title: "Weather", Facts: []string{"Cairo is dry", "London is wet"}, Reflection: "ok"})

	data, err := svc.ExportCSV(ctx, LayoutProfile)
	require.NoError(t, err)

	want := "Date,Lesson,Title,Facts,Reflection\n2026-03-02,L2,Weather,Cairo is dry; London is wet,ok\n"
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Errorf("csv mismatch (-want +got):\n%s", diff)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	src, _, clock, _ := newTestService(t)
	ctx := context.Background()
	img := "data:image/png;base64,AAAA"
	src.Create(ctx, Draft{LessonID: "L1", Title: "a", Facts: []string{"f1"}, EvidenceImg: &img})
	clock.advance(time.Hour)
	src.Create(ctx, Draft{LessonID: "L2", Title: "b", Reflection: "r", Extra: map[string]any{"tags": []string{"t"}}})

	data, err := src.ExportJSON(ctx)
	require.NoError(t, err)

	var doc Export
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, ExportVersion, doc.Version)
	assert.Equal(t, Course, doc.Course)
	assert.Equal(t, 2, doc.TotalEntries)

	dst, _, _, rec := newTestService(t)
	n, err := dst.ImportJSON(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	if diff := cmp.Diff(src.Entries(ctx), dst.Entries(ctx)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	last := rec.events[len(rec.events)-1]
	assert.Equal(t, events.JournalImported, last.Kind)
	assert.Equal(t, 2, last.Count)
}

func TestImportJSON(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantCount int
		wantErr   error
		wantFmt   bool
	}{
		{"raw array", `[{"lessonId":"L1","title":"t","timestamp":5}]`, 1, nil, false},
		{"skips invalid", `[{"lessonId":"L1","title":"t","timestamp":5},{"lessonId":"","title":"t","timestamp":5},{"title":"t"}]`, 1, nil, false},
		{"object wrapper", `{"entries":[{"lessonId":"L1","title":"t","timestamp":5}]}`, 1, nil, false},
		{"none valid", `[{"lessonId":"L1"}]`, 0, ErrEmptyImport, false},
		{"empty array", `[]`, 0, ErrEmptyImport, false},
		{"object without entries", `{"foo":1}`, 0, nil, true},
		{"entries not array", `{"entries":"x"}`, 0, nil, true},
		{"scalar", `42`, 0, nil, true},
		{"null", `null`, 0, nil, true},
		{"broken json", `{`, 0, nil, true},
		{"newer major version", `{"version":"2.0","entries":[{"lessonId":"L1","title":"t","timestamp":5}]}`, 0, nil, true},
		{"same major version", `{"version":"1.4","entries":[{"lessonId":"L1","title":"t","timestamp":5}]}`, 1, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _, _ := newTestService(t)
			ctx := context.Background()
			existing, _ := svc.Create(ctx, Draft{LessonID: "L9", Title: "keep"})

			n, err := svc.ImportJSON(ctx, []byte(tt.payload))

			var ferr *FormatError
			switch {
			case tt.wantFmt:
				require.True(t, errors.As(err, &ferr), "err = %v, want *FormatError", err)
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			default:
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantCount, n)

			entries := svc.Entries(ctx)
			if err != nil {
				require.Len(t, entries, 1, "failed import must not mutate")
				assert.Equal(t, existing.ID, entries[0].ID)
				return
			}
			assert.Len(t, entries, tt.wantCount, "import replaces the collection")
			assert.NotEmpty(t, entries[0].ID, "imported entries get an id")
		})
	}
}

func TestExportXLSX(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()
	svc.Create(ctx, Draft{LessonID: "L1", Title: "Nature Detective", Facts: []string{"a", "b"}})

	data, err := svc.ExportXLSX(ctx)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Journal")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Lesson", rows[0][2])
	assert.Equal(t, "a; b", rows[1][4])
}

func TestParseLayout(t *testing.T) {
	for name, want := range map[string]Layout{"": LayoutTimeline, "csv": LayoutTimeline, "profile-csv": LayoutProfile} {
		got, err := ParseLayout(name)
		if err != nil || got != want {
			t.Errorf("ParseLayout(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseLayout("pdf"); err == nil {
		t.Error("expected error for unknown layout")
	}
}

func TestSubscriberCanReadJournal(t *testing.T) {
	ctx := context.Background()
	bus := events.NewBus(nil)
	svc := NewService(store.NewMemory(0), bus, nil)

	var sizes []int
	bus.Subscribe(func(events.Event) { sizes = append(sizes, len(svc.Entries(ctx))) },
		events.JournalUpdated, events.JournalCleared)

	done := make(chan struct{})
	go func() {
		defer close(done)
		e, _ := svc.Create(ctx, Draft{LessonID: "L1", Title: "t"})
		svc.Upsert(ctx, Entry{ID: "manual", LessonID: "L2"})
		svc.Delete(ctx, e.ID)
		svc.Clear(ctx)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler calling back into the journal blocked")
	}
	assert.Equal(t, []int{1, 2, 1, 0}, sizes)
}
