// Package notify turns bus events into short-lived toasts and
// screen-reader announcements. It holds no ledger state.
package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/naturepower/internal/events"
	"github.com/abhisek/naturepower/internal/logging"
)

// MaxToasts is the number of toasts shown at once. The oldest toast is
// dropped when a new one would exceed it.
const MaxToasts = 5

// Toast lifetimes.
const (
	DefaultLifetime = 4 * time.Second
	XPLifetime      = 2 * time.Second
	BadgeLifetime   = 4 * time.Second
	JournalLifetime = 2500 * time.Millisecond
)

// Kind is the visual style of a toast.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindXP      Kind = "xp"
	KindBadge   Kind = "badge"
	KindError   Kind = "error"
)

// Priority is the aria-live politeness of an announcement.
type Priority string

const (
	Polite    Priority = "polite"
	Assertive Priority = "assertive"
)

// Toast is a transient on-screen message.
type Toast struct {
	ID      string    `json:"id"`
	Kind    Kind      `json:"kind"`
	Message string    `json:"message"`
	Expires time.Time `json:"expires"`
}

// Announcement is a message for assistive technology.
type Announcement struct {
	Priority Priority `json:"priority"`
	Message  string   `json:"message"`
}

// Sink receives notifications. Implementations must not block.
type Sink interface {
	Toast(Toast)
	Announce(Announcement)
}

// BadgeNamer resolves a badge id to a display title and icon.
type BadgeNamer func(id string) (title, icon string)

// Option configures an Emitter.
type Option func(*Emitter)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Emitter) { e.now = now }
}

// WithTimer overrides time.AfterFunc for scheduling toast expiry.
func WithTimer(after func(time.Duration, func()) func()) Option {
	return func(e *Emitter) { e.after = after }
}

// WithBadgeNamer sets how badge ids are rendered.
func WithBadgeNamer(fn BadgeNamer) Option {
	return func(e *Emitter) { e.badgeName = fn }
}

// Emitter tracks live toasts and forwards notifications to a sink.
type Emitter struct {
	sink      Sink
	log       *logging.Logger
	now       func() time.Time
	after     func(time.Duration, func()) func()
	badgeName BadgeNamer

	mu     sync.Mutex
	toasts []Toast
	cancel map[string]func()
}

// New creates an emitter delivering to sink. A nil sink only tracks
// Active toasts.
func New(sink Sink, log *logging.Logger, opts ...Option) *Emitter {
	e := &Emitter{
		sink:   sink,
		log:    logging.OrNop(log).With("component", "notify"),
		now:    time.Now,
		cancel: make(map[string]func()),
		after: func(d time.Duration, fn func()) func() {
			t := time.AfterFunc(d, fn)
			return func() { t.Stop() }
		},
		badgeName: func(id string) (string, string) { return id, "🏆" },
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Attach subscribes the emitter to bus. The returned func detaches it.
func (e *Emitter) Attach(bus *events.Bus) func() {
	return bus.Subscribe(e.Handle)
}

// Handle maps one event to notifications. Events with nothing to say
// are ignored.
func (e *Emitter) Handle(ev events.Event) {
	switch ev.Kind {
	case events.XPAwarded:
		msg := fmt.Sprintf("+%d XP", ev.Points)
		if ev.Reason != "" {
			msg += " (" + ev.Reason + ")"
		}
		e.Show(KindXP, msg, XPLifetime)
	case events.BadgeEarned:
		title, icon := e.badgeName(ev.BadgeID)
		e.Show(KindBadge, fmt.Sprintf("%s Badge earned: %s", icon, title), BadgeLifetime)
		e.Announce(Assertive, "New badge earned: "+title)
	case events.JournalUpdated:
		switch ev.Action {
		case events.ActionCreated:
			e.Show(KindSuccess, "📝 Saved to journal", JournalLifetime)
			e.Announce(Polite, "Entry saved to your journal")
		case events.ActionUpdated:
			e.Show(KindSuccess, "📝 Journal entry updated", JournalLifetime)
		case events.ActionDeleted:
			e.Show(KindInfo, "Journal entry deleted", JournalLifetime)
		}
	case events.JournalCleared:
		e.Show(KindInfo, "Journal cleared", DefaultLifetime)
		e.Announce(Polite, "All journal entries removed")
	case events.JournalImported:
		e.Show(KindSuccess, fmt.Sprintf("Imported %d journal entries", ev.Count), DefaultLifetime)
	case events.ProgressReset:
		e.Show(KindInfo, "Progress reset", DefaultLifetime)
		e.Announce(Polite, "Your progress has been reset")
	}
}

// Show adds a toast that expires after d. Non-positive d uses
// DefaultLifetime.
func (e *Emitter) Show(kind Kind, message string, d time.Duration) Toast {
	if d <= 0 {
		d = DefaultLifetime
	}
	t := Toast{ID: uuid.NewString(), Kind: kind, Message: message, Expires: e.now().Add(d)}

	e.mu.Lock()
	e.toasts = append(e.toasts, t)
	for len(e.toasts) > MaxToasts {
		e.dropLocked(e.toasts[0].ID)
	}
	e.cancel[t.ID] = e.after(d, func() { e.Dismiss(t.ID) })
	e.mu.Unlock()

	e.log.Debug("toast", "kind", kind, "message", message)
	if e.sink != nil {
		e.sink.Toast(t)
	}
	return t
}

// Announce forwards a message for assistive technology.
func (e *Emitter) Announce(p Priority, message string) {
	if e.sink != nil {
		e.sink.Announce(Announcement{Priority: p, Message: message})
	}
}

// Dismiss removes a toast before it expires. Unknown ids are ignored.
func (e *Emitter) Dismiss(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dropLocked(id)
}

func (e *Emitter) dropLocked(id string) {
	for i, t := range e.toasts {
		if t.ID == id {
			e.toasts = append(e.toasts[:i:i], e.toasts[i+1:]...)
			break
		}
	}
	if stop, ok := e.cancel[id]; ok {
		stop()
		delete(e.cancel, id)
	}
}

// Active returns live toasts, oldest first.
func (e *Emitter) Active() []Toast {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Toast, len(e.toasts))
	copy(out, e.toasts)
	return out
}

// Close cancels every pending expiry.
func (e *Emitter) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for id, stop := range e.cancel {
		stop()
		delete(e.cancel, id)
	}
	e.toasts = nil
}
