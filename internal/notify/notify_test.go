package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/naturepower/internal/events"
	"github.com/abhisek/naturepower/internal/logging"
)

// fakeTimer records scheduled expiries so tests can fire them.
type fakeTimer struct {
	pending []scheduled
}

type scheduled struct {
	d       time.Duration
	fn      func()
	stopped bool
}

func (f *fakeTimer) after(d time.Duration, fn func()) func() {
	f.pending = append(f.pending, scheduled{d: d, fn: fn})
	i := len(f.pending) - 1
	return func() { f.pending[i].stopped = true }
}

func (f *fakeTimer) fire(i int) {
	if !f.pending[i].stopped {
		f.pending[i].fn()
	}
}

type recordSink struct {
	toasts   []Toast
	announce []Announcement
}

func (r *recordSink) Toast(t Toast)           { r.toasts = append(r.toasts, t) }
func (r *recordSink) Announce(a Announcement) { r.announce = append(r.announce, a) }

func TestLifetimes(t *testing.T) {
	tests := []struct {
		name string
		ev   events.Event
		kind Kind
		want time.Duration
	}{
		{"xp", events.Event{Kind: events.XPAwarded, Points: 50}, KindXP, XPLifetime},
		{"badge", events.Event{Kind: events.BadgeEarned, BadgeID: "B1"}, KindBadge, BadgeLifetime},
		{"journal", events.Event{Kind: events.JournalUpdated, Action: events.ActionCreated}, KindSuccess, JournalLifetime},
		{"reset", events.Event{Kind: events.ProgressReset}, KindInfo, DefaultLifetime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timer := &fakeTimer{}
			now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
			e := New(nil, nil, WithTimer(timer.after), WithClock(func() time.Time { return now }))
			e.Handle(tt.ev)

			active := e.Active()
			require.Len(t, active, 1)
			assert.Equal(t, tt.kind, active[0].Kind)
			assert.Equal(t, now.Add(tt.want), active[0].Expires)
			require.Len(t, timer.pending, 1)
			assert.Equal(t, tt.want, timer.pending[0].d)
		})
	}
}

func TestExpiryRemovesToast(t *testing.T) {
	timer := &fakeTimer{}
	e := New(nil, nil, WithTimer(timer.after))
	e.Show(KindInfo, "first", 0)
	e.Show(KindInfo, "second", 0)

	timer.fire(0)
	active := e.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "second", active[0].Message)
}

func TestAtMostFiveToasts(t *testing.T) {
	timer := &fakeTimer{}
	e := New(nil, nil, WithTimer(timer.after))
	for i := 0; i < 7; i++ {
		e.Show(KindXP, string(rune('a'+i)), XPLifetime)
	}
	active := e.Active()
	require.Len(t, active, MaxToasts)
	assert.Equal(t, "c", active[0].Message)
	assert.True(t, timer.pending[0].stopped, "dropped toast should cancel its timer")
}

func TestBadgeUsesNamerAndAnnounces(t *testing.T) {
	sink := &recordSink{}
	e := New(sink, nil, WithTimer((&fakeTimer{}).after), WithBadgeNamer(func(id string) (string, string) {
		return "Nature Detective", "🧭"
	}))
	e.Handle(events.Event{Kind: events.BadgeEarned, BadgeID: "B1_nature_detective"})

	require.Len(t, sink.toasts, 1)
	assert.Equal(t, "🧭 Badge earned: Nature Detective", sink.toasts[0].Message)
	require.Len(t, sink.announce, 1)
	assert.Equal(t, Announcement{Priority: Assertive, Message: "New badge earned: Nature Detective"}, sink.announce[0])
}

func TestIgnoresQuietEvents(t *testing.T) {
	sink := &recordSink{}
	e := New(sink, nil, WithTimer((&fakeTimer{}).after))
	e.Handle(events.Event{Kind: events.ProgressUpdated})
	e.Handle(events.Event{Kind: events.StorageSynced})
	assert.Empty(t, sink.toasts)
	assert.Empty(t, e.Active())
}

func TestAttachToBus(t *testing.T) {
	bus := events.NewBus(nil)
	sink := NewChanSink(4)
	e := New(sink, nil, WithTimer((&fakeTimer{}).after))
	detach := e.Attach(bus)

	bus.Publish(events.Event{Kind: events.XPAwarded, Points: 10, Reason: "weekly streak"})
	msg := <-sink.C
	require.NotNil(t, msg.Toast)
	assert.Equal(t, "+10 XP (weekly streak)", msg.Toast.Message)

	detach()
	bus.Publish(events.Event{Kind: events.XPAwarded, Points: 10})
	assert.Len(t, sink.C, 0)
}

func TestLogSink(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e := New(LogSink{Log: logging.FromZap(zap.New(core))}, nil, WithTimer((&fakeTimer{}).after))
	e.Handle(events.Event{Kind: events.JournalCleared})

	assert.Equal(t, 1, logs.FilterMessage("Journal cleared").Len())
	assert.Equal(t, 1, logs.FilterMessage("All journal entries removed").Len())
}

func TestChanSinkDropsWhenFull(t *testing.T) {
	sink := NewChanSink(1)
	sink.Toast(Toast{Message: "one"})
	sink.Toast(Toast{Message: "two"})
	msg := <-sink.C
	assert.Equal(t, "one", msg.Toast.Message)
	assert.Len(t, sink.C, 0)
}
