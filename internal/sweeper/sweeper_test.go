package sweeper

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/abhisek/naturepower/internal/journal"
	"github.com/abhisek/naturepower/internal/progress"
	"github.com/abhisek/naturepower/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type counter struct{ n atomic.Int32 }

func (c *counter) Sweep(context.Context) { c.n.Add(1) }

func TestRunNow(t *testing.T) {
	a, b := &counter{}, &counter{}
	s := New(0, nil, a, b)
	assert.Equal(t, DefaultInterval, s.interval)

	s.RunNow(context.Background())
	assert.EqualValues(t, 1, a.n.Load())
	assert.EqualValues(t, 1, b.n.Load())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.RunNow(ctx)
	assert.EqualValues(t, 1, a.n.Load(), "cancelled sweep should do nothing")
}

func TestScheduledSweep(t *testing.T) {
	c := &counter{}
	s := New(20*time.Millisecond, nil, c)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Start(ctx))

	require.Eventually(t, func() bool { return c.n.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
	s.Stop()
}

func TestStopsWhenContextDone(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := New(time.Hour, nil, &counter{})
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))
	require.True(t, s.scheduler.IsRunning())

	cancel()
	require.Eventually(t, func() bool { return !s.scheduler.IsRunning() }, time.Second, 5*time.Millisecond)
}

// flakyKV rejects writes until ok is set.
type flakyKV struct {
	*store.Memory
	ok atomic.Bool
}

func (f *flakyKV) Set(ctx context.Context, key, value string) error {
	if !f.ok.Load() {
		return &store.WriteError{Key: key, Err: store.ErrUnavailable}
	}
	return f.Memory.Set(ctx, key, value)
}

func TestSweepFlushesFailedWrites(t *testing.T) {
	ctx := context.Background()
	kv := &flakyKV{Memory: store.NewMemory(0)}
	p := progress.NewService(kv, nil, nil)
	j := journal.NewService(kv, nil, nil)

	_, err := p.CompleteLesson(ctx, "L1")
	require.NoError(t, err)
	_, err = j.Create(ctx, journal.Draft{LessonID: "L1", Title: "Weather or Climate?"})
	require.NoError(t, err)

	_, ok, _ := kv.Get(ctx, store.KeyJournal)
	require.False(t, ok)

	kv.ok.Store(true)
	New(time.Minute, nil, p, j).RunNow(ctx)

	_, ok, _ = kv.Get(ctx, store.KeyJournal)
	assert.True(t, ok)
	raw, ok, _ := kv.Get(ctx, store.KeyProgress)
	require.True(t, ok)
	assert.Contains(t, raw, `"xp":50`)
}
