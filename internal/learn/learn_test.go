package learn

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/naturepower/internal/badges"
	"github.com/abhisek/naturepower/internal/catalog"
	"github.com/abhisek/naturepower/internal/journal"
	"github.com/abhisek/naturepower/internal/progress"
	"github.com/abhisek/naturepower/internal/store"
)

func newFlow(t *testing.T) (*Service, *progress.Service, *journal.Service) {
	t.Helper()
	kv := store.NewMemory(0)
	p := progress.NewService(kv, nil, nil)
	j := journal.NewService(kv, nil, nil)
	return NewService(catalog.Default(), p, j, nil), p, j
}

func TestFinishFirstLesson(t *testing.T) {
	ctx := context.Background()
	svc, p, j := newFlow(t)

	out, err := svc.Finish(ctx, "L1", Reflection{})
	require.NoError(t, err)

	assert.Equal(t, progress.CompletionXP, out.Completion.XPAwarded)
	require.NotNil(t, out.Badge)
	assert.Equal(t, "B1_nature_detective", out.Badge.ID)
	assert.True(t, out.NewBadge)
	assert.False(t, out.AllComplete)

	st := p.Progress(ctx)
	assert.Equal(t, progress.StatusComplete, st.LessonStatus["L1"])
	assert.Equal(t, progress.StatusInProgress, st.LessonStatus["L2"])
	assert.Equal(t, []string{"L1"}, st.CompletedLessons)

	entries := j.ByLesson(ctx, "L1")
	require.Len(t, entries, 1)
	assert.Equal(t, []string{DefaultFact}, entries[0].Facts)
	assert.Equal(t, "Weather or Climate?", entries[0].Title)
	assert.Contains(t, entries[0].Reflection, "Completed: ")
}

func TestFinishKeepsLearnerText(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newFlow(t)

	out, err := svc.Finish(ctx, "L1", Reflection{Facts: []string{" Rain is weather ", ""}, Reflection: "Climate is the long view"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Rain is weather"}, out.Entry.Facts)
	assert.Equal(t, "Climate is the long view", out.Entry.Reflection)
}

func TestFinishUnknownBadgeIsGeneric(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "badges.json"), []byte(`[{"id":"other","title":"Other"}]`), 0o644))
	kv := store.NewMemory(0)
	p := progress.NewService(kv, nil, nil)
	svc := NewService(catalog.Load(dir, nil), p, journal.NewService(kv, nil, nil), nil)

	out, err := svc.Finish(ctx, "L1", Reflection{})
	require.NoError(t, err)
	require.NotNil(t, out.Badge)
	assert.Equal(t, badges.Generic("B1_nature_detective"), *out.Badge)
	assert.True(t, out.NewBadge)
	assert.Contains(t, p.Progress(ctx).Badges, "B1_nature_detective")
}

func TestFinishTwiceDoesNotRebadge(t *testing.T) {
	ctx := context.Background()
	svc, _, j := newFlow(t)

	_, err := svc.Finish(ctx, "L1", Reflection{})
	require.NoError(t, err)
	out, err := svc.Finish(ctx, "L1", Reflection{})
	require.NoError(t, err)
	assert.False(t, out.NewBadge)
	assert.Len(t, j.Entries(ctx), 2)
}

func TestLockedLesson(t *testing.T) {
	ctx := context.Background()
	svc, _, j := newFlow(t)

	_, err := svc.Start(ctx, "L3")
	assert.True(t, errors.Is(err, progress.ErrLessonLocked))

	_, err = svc.Finish(ctx, "L11", Reflection{})
	assert.True(t, errors.Is(err, progress.ErrUnknownLesson))
	assert.Empty(t, j.Entries(ctx))
}

func TestAllComplete(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newFlow(t)

	var out Outcome
	for _, id := range progress.LessonIDs {
		var err error
		out, err = svc.Finish(ctx, id, Reflection{})
		require.NoError(t, err)
	}
	assert.True(t, out.AllComplete)
	assert.Equal(t, "B10_nature_power_hero", out.Badge.ID)
}
