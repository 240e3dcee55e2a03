package gallery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/naturepower/internal/events"
	"github.com/abhisek/naturepower/internal/store"
)

var now = time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*Service, *store.Memory, *events.Bus) {
	t.Helper()
	kv := store.NewMemory(0)
	bus := events.NewBus(nil)
	return NewService(kv, bus, nil, WithClock(func() time.Time { return now })), kv, bus
}

func ids(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestSeedsSamples(t *testing.T) {
	ctx := context.Background()
	svc, kv, _ := newService(t)

	items := svc.Items(ctx)
	require.Len(t, items, 4)
	_, ok, _ := kv.Get(ctx, store.KeyGallery)
	assert.True(t, ok, "samples should be persisted on first read")
	assert.Equal(t, Stats{Total: 4, Approved: 3, Pending: 1}, svc.Stats(ctx))
}

func TestListSortingAndModeration(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	tests := []struct {
		name string
		f    Filter
		want []string
	}{
		{"newest visible", Filter{}, []string{"1", "2", "3"}},
		{"oldest", Filter{Sort: SortOldest}, []string{"3", "2", "1"}},
		{"popular", Filter{Sort: SortPopular}, []string{"3", "1", "2"}},
		{"teacher view", Filter{All: true}, []string{"1", "2", "3", "4"}},
		{"by type", Filter{Type: "circuit"}, []string{"2"}},
		{"search tag", Filter{Query: "solar"}, []string{"1"}},
		{"search class", Filter{Query: "class 5a", All: true}, []string{"1", "4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(svc.List(ctx, tt.f)))
		})
	}

	require.NoError(t, svc.SaveSettings(ctx, Settings{ModerationOn: false}))
	assert.Len(t, svc.List(ctx, Filter{}), 4)
}

func TestSubmitIsPending(t *testing.T) {
	ctx := context.Background()
	svc, _, bus := newService(t)
	var got []events.Event
	bus.Subscribe(func(e events.Event) { got = append(got, e) }, events.GalleryUpdated)

	it, err := svc.Submit(ctx, Submission{Type: "design", Title: " My cool roof ", Class: "Class 5B"})
	require.NoError(t, err)
	assert.False(t, it.Approved)
	assert.Equal(t, "My cool roof", it.Title)
	assert.Equal(t, it.ID, svc.Items(ctx)[0].ID, "new work goes first")
	assert.NotContains(t, ids(svc.List(ctx, Filter{})), it.ID)

	it, err = svc.ToggleApproval(ctx, it.ID)
	require.NoError(t, err)
	assert.True(t, it.Approved)
	assert.Contains(t, ids(svc.List(ctx, Filter{})), it.ID)

	require.Len(t, got, 2)
	assert.Equal(t, events.ActionCreated, got[0].Action)
	assert.Equal(t, events.ActionUpdated, got[1].Action)

	_, err = svc.Submit(ctx, Submission{Type: "design"})
	assert.Error(t, err)
}

func TestLikeToggles(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	it, err := svc.Like(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, 9, it.Likes)
	assert.True(t, it.Liked)

	it, err = svc.Like(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, 8, it.Likes)
	assert.False(t, it.Liked)
}

func TestHideAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	_, err := svc.ToggleHidden(ctx, "1")
	require.NoError(t, err)
	assert.NotContains(t, ids(svc.List(ctx, Filter{})), "1")
	assert.Equal(t, 1, svc.Stats(ctx).Hidden)

	require.NoError(t, svc.Delete(ctx, "3"))
	_, err = svc.Get(ctx, "3")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(svc.Delete(ctx, "3"), ErrNotFound))
	_, err = svc.Like(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSettingsDefaultOnGarbage(t *testing.T) {
	ctx := context.Background()
	svc, kv, _ := newService(t)
	require.NoError(t, kv.Set(ctx, store.KeyGallerySettings, "{not json"))
	assert.Equal(t, DefaultSettings, svc.Settings(ctx))
}

func TestSubscriberCanReadGallery(t *testing.T) {
	ctx := context.Background()
	svc, _, bus := newService(t)

	var likes []int
	bus.Subscribe(func(e events.Event) {
		if it, ok := e.Payload.(Item); ok && e.Action == events.ActionUpdated {
			got, err := svc.Get(ctx, it.ID)
			assert.NoError(t, err)
			likes = append(likes, got.Likes)
		}
	}, events.GalleryUpdated)

	id := svc.Items(ctx)[0].ID
	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.Like(ctx, id)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler calling back into the gallery blocked")
	}
	require.Len(t, likes, 1)
	assert.Equal(t, svc.Items(ctx)[0].Likes, likes[0])
}
