// Package events is the in-process publish/subscribe channel that the
// ledger, journal and other services notify after each successful mutation.
package events

import (
	"sync"
	"time"

	"github.com/abhisek/naturepower/internal/logging"
)

// Kind identifies an event type.
type Kind string

const (
	ProgressUpdated Kind = "progress.updated"
	ProgressReset   Kind = "progress.reset"
	XPAwarded       Kind = "xp.awarded"
	BadgeEarned     Kind = "badge.earned"
	JournalUpdated  Kind = "journal.updated"
	JournalCleared  Kind = "journal.cleared"
	JournalImported Kind = "journal.imported"
	StorageSynced   Kind = "storage.synced"
	GalleryUpdated  Kind = "gallery.updated"
	PrefsUpdated    Kind = "prefs.updated"
)

// Journal actions carried by JournalUpdated events.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Event is a notification. Only the fields relevant to Kind are set.
type Event struct {
	Kind Kind      `json:"kind"`
	At   time.Time `json:"at"`

	LessonID string `json:"lessonId,omitempty"`
	BadgeID  string `json:"badgeId,omitempty"`
	EntryID  string `json:"entryId,omitempty"`
	Action   string `json:"action,omitempty"`
	Key      string `json:"key,omitempty"`
	Points   int    `json:"points,omitempty"`
	Total    int    `json:"total,omitempty"`
	Count    int    `json:"count,omitempty"`
	Reason   string `json:"reason,omitempty"`

	// Payload is the affected record where one exists (a journal entry,
	// a gallery item, the ledger state).
	Payload any `json:"payload,omitempty"`
}

// Handler receives events.
type Handler func(Event)

// Publisher is the side services depend on.
type Publisher interface {
	Publish(Event)
}

type subscription struct {
	id    uint64
	kinds map[Kind]bool
	fn    Handler
}

// Bus delivers events synchronously to subscribers in subscription order.
type Bus struct {
	log *logging.Logger

	mu     sync.RWMutex
	nextID uint64
	subs   []subscription
	now    func() time.Time
}

// NewBus creates an empty bus.
func NewBus(log *logging.Logger) *Bus {
	return &Bus{log: logging.OrNop(log).With("component", "events"), now: time.Now}
}

// Subscribe registers fn for the given kinds, or for every kind when none
// are given. The returned func removes the subscription.
//
// Handlers run on the publisher's goroutine. Services publish only after
// releasing their own locks, so a handler may call back into them.
func (b *Bus) Subscribe(fn Handler, kinds ...Kind) func() {
	sub := subscription{fn: fn}
	if len(kinds) > 0 {
		sub.kinds = make(map[Kind]bool, len(kinds))
		for _, k := range kinds {
			sub.kinds[k] = true
		}
	}

	b.mu.Lock()
	b.nextID++
	sub.id = b.nextID
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(sub.id) })
	}
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers e to every matching subscriber. A panicking handler is
// logged and skipped.
func (b *Bus) Publish(e Event) {
	if e.At.IsZero() {
		e.At = b.now()
	}

	b.mu.RLock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, s := range subs {
		if s.kinds != nil && !s.kinds[e.Kind] {
			continue
		}
		b.deliver(s, e)
	}
}

func (b *Bus) deliver(s subscription, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("event handler panicked", "kind", e.Kind, "panic", r)
		}
	}()
	s.fn(e)
}

// Discard is a Publisher that drops every event.
type Discard struct{}

func (Discard) Publish(Event) {}
