package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/abhisek/naturepower/internal/events"
	"github.com/abhisek/naturepower/internal/logging"
	"github.com/abhisek/naturepower/internal/store"
)

// DefaultMaxEntries bounds the stored collection; older entries are dropped.
const DefaultMaxEntries = 1000

// Course labels exports.
const Course = "Y4 Harness the Power of Nature"

// Stats summarizes the journal.
type Stats struct {
	TotalEntries        int    `json:"totalEntries"`
	LessonsWithEntries  int    `json:"lessonsWithEntries"`
	EntriesWithEvidence int    `json:"entriesWithEvidence"`
	LatestEntry         *Entry `json:"latestEntry"`
}

// Service is the journal log. The whole collection lives under one key and
// every mutation rewrites it.
type Service struct {
	kv  store.KV
	bus events.Publisher
	log *logging.Logger
	now func() time.Time

	maxEntries int

	mu      sync.Mutex
	unsaved []Entry
	dirty   bool
	pending []events.Event // published by unlock
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithMaxEntries overrides DefaultMaxEntries.
func WithMaxEntries(n int) Option {
	return func(s *Service) { s.maxEntries = n }
}

// NewService creates a journal over kv. bus may be nil.
func NewService(kv store.KV, bus events.Publisher, log *logging.Logger, opts ...Option) *Service {
	if bus == nil {
		bus = events.Discard{}
	}
	s := &Service{
		kv:         kv,
		bus:        bus,
		log:        logging.OrNop(log).With("component", "journal"),
		now:        time.Now,
		maxEntries: DefaultMaxEntries,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// load returns the stored entries in storage order. Callers must hold s.mu.
func (s *Service) load(ctx context.Context) []Entry {
	if s.dirty {
		return cloneAll(s.unsaved)
	}
	var raws []json.RawMessage
	if !store.ReadJSON(ctx, s.kv, store.KeyJournal, &raws, s.log) {
		return []Entry{}
	}
	entries := make([]Entry, 0, len(raws))
	for i, raw := range raws {
		var e Entry
		if err := json.Unmarshal(raw, &e); err != nil {
			s.log.Warn("skipping malformed journal entry", "index", i, "error", err)
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

// save persists entries and returns what was kept. The collection is
// capped at maxEntries; when storage is full the oldest fifth is evicted
// and the write retried once. A write that still fails leaves the entries
// in memory only.
func (s *Service) save(ctx context.Context, entries []Entry) []Entry {
	if s.maxEntries > 0 && len(entries) > s.maxEntries {
		s.log.Warn("journal over capacity, dropping oldest", "dropped", len(entries)-s.maxEntries)
		entries = entries[len(entries)-s.maxEntries:]
	}

	err := store.WriteJSON(ctx, s.kv, store.KeyJournal, entries)
	if errors.Is(err, store.ErrQuotaExceeded) && len(entries) > 0 {
		evict := int(math.Ceil(float64(len(entries)) * 0.2))
		s.log.Warn("storage full, evicting oldest journal entries", "evicted", evict)
		entries = evictOldest(entries, evict)
		err = store.WriteJSON(ctx, s.kv, store.KeyJournal, entries)
	}
	if err != nil {
		s.log.Warn("persist journal", "error", err)
		s.unsaved = cloneAll(entries)
		s.dirty = true
		return entries
	}
	s.unsaved = nil
	s.dirty = false
	return entries
}

// evictOldest removes the n entries with the smallest timestamps, keeping
// the storage order of the rest.
func evictOldest(entries []Entry, n int) []Entry {
	if n >= len(entries) {
		return []Entry{}
	}
	idx := make([]int, len(entries))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return entries[idx[a]].Timestamp < entries[idx[b]].Timestamp
	})
	drop := make(map[int]bool, n)
	for _, i := range idx[:n] {
		drop[i] = true
	}
	out := make([]Entry, 0, len(entries)-n)
	for i, e := range entries {
		if !drop[i] {
			out = append(out, e)
		}
	}
	return out
}

func cloneAll(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = e.clone()
	}
	return out
}

// unlock releases s.mu, then publishes what was queued while it was held.
func (s *Service) unlock() {
	evs := s.pending
	s.pending = nil
	s.mu.Unlock()
	for _, e := range evs {
		s.bus.Publish(e)
	}
}

func (s *Service) publish(e Entry, action string) {
	s.pending = append(s.pending, events.Event{
		Kind:     events.JournalUpdated,
		Action:   action,
		EntryID:  e.ID,
		LessonID: e.LessonID,
		Payload:  e.clone(),
	})
}

// Create builds a new entry stamped with the current time and appends it.
// If the generated id is already taken the creation instant is advanced a
// millisecond at a time until it is unique.
func (s *Service) Create(ctx context.Context, d Draft) (Entry, error) {
	if strings.TrimSpace(d.LessonID) == "" {
		return Entry{}, ErrMissingLesson
	}

	var extra map[string]json.RawMessage
	if len(d.Extra) > 0 {
		extra = make(map[string]json.RawMessage, len(d.Extra))
		for k, v := range d.Extra {
			if slices.Contains(knownFields, k) {
				continue
			}
			raw, err := json.Marshal(v)
			if err != nil {
				return Entry{}, fmt.Errorf("marshal field %s: %w", k, err)
			}
			extra[k] = raw
		}
	}

	s.mu.Lock()
	defer s.unlock()

	entries := s.load(ctx)
	taken := make(map[string]bool, len(entries))
	for _, e := range entries {
		taken[e.ID] = true
	}

	ts := s.now().UnixMilli()
	id := entryID(d.LessonID, ts)
	for taken[id] {
		ts++
		id = entryID(d.LessonID, ts)
	}

	e := Entry{
		ID:          id,
		LessonID:    d.LessonID,
		Title:       d.Title,
		Facts:       append([]string{}, d.Facts...),
		Reflection:  d.Reflection,
		EvidenceImg: d.EvidenceImg,
		Timestamp:   ts,
		Extra:       extra,
	}
	s.save(ctx, append(entries, e))
	s.publish(e, events.ActionCreated)
	return e.clone(), nil
}

// Upsert inserts e when no entry shares its id, otherwise replaces that
// entry in place. It returns the action taken.
func (s *Service) Upsert(ctx context.Context, e Entry) (string, error) {
	if e.ID == "" {
		return "", ErrMissingID
	}
	s.mu.Lock()
	defer s.unlock()

	entries := s.load(ctx)
	action := events.ActionCreated
	if i := slices.IndexFunc(entries, func(x Entry) bool { return x.ID == e.ID }); i >= 0 {
		entries[i] = e.clone()
		action = events.ActionUpdated
	} else {
		entries = append(entries, e.clone())
	}
	s.save(ctx, entries)
	s.publish(e, action)
	return action, nil
}

// Entries returns the collection in storage order.
func (s *Service) Entries(ctx context.Context) []Entry {
	s.mu.Lock()
	defer s.unlock()
	return s.load(ctx)
}

// Get returns the entry with id.
func (s *Service) Get(ctx context.Context, id string) (Entry, error) {
	for _, e := range s.Entries(ctx) {
		if e.ID == id {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// ByLesson returns the lesson's entries in storage order.
func (s *Service) ByLesson(ctx context.Context, lessonID string) []Entry {
	var out []Entry
	for _, e := range s.Entries(ctx) {
		if e.LessonID == lessonID {
			out = append(out, e)
		}
	}
	return out
}

// LatestForLesson returns the lesson's entry with the greatest timestamp.
// Ties go to the entry stored later.
func (s *Service) LatestForLesson(ctx context.Context, lessonID string) (Entry, bool) {
	var (
		latest Entry
		found  bool
	)
	for _, e := range s.ByLesson(ctx, lessonID) {
		if !found || e.Timestamp >= latest.Timestamp {
			latest, found = e, true
		}
	}
	return latest, found
}

// Recent returns up to limit entries, newest first. limit <= 0 returns all.
func (s *Service) Recent(ctx context.Context, limit int) []Entry {
	entries := SortByNewest(s.Entries(ctx))
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// SortByNewest orders entries by timestamp, newest first, keeping storage
// order among equal timestamps reversed so later writes come first.
func SortByNewest(entries []Entry) []Entry {
	out := slices.Clone(entries)
	slices.Reverse(out)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	return out
}

// Search returns entries whose title, facts, reflection or content contain
// query, case-insensitively, newest first.
func (s *Service) Search(ctx context.Context, query string) []Entry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return s.Recent(ctx, 0)
	}
	var out []Entry
	for _, e := range s.Recent(ctx, 0) {
		hay := strings.ToLower(strings.Join(append([]string{e.Title, e.Reflection, e.ExtraString("content")}, e.Facts...), "\n"))
		if strings.Contains(hay, q) {
			out = append(out, e)
		}
	}
	return out
}

// Delete removes the entry with id and reports whether it existed.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.unlock()

	entries := s.load(ctx)
	i := slices.IndexFunc(entries, func(e Entry) bool { return e.ID == id })
	if i < 0 {
		return false, nil
	}
	entries = slices.Delete(entries, i, i+1)
	s.save(ctx, entries)
	s.pending = append(s.pending, events.Event{Kind: events.JournalUpdated, Action: events.ActionDeleted, EntryID: id})
	return true, nil
}

// Clear removes every entry.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.unlock()

	s.unsaved = nil
	s.dirty = false
	if err := s.kv.Remove(ctx, store.KeyJournal); err != nil {
		return fmt.Errorf("clear journal: %w", err)
	}
	s.pending = append(s.pending, events.Event{Kind: events.JournalCleared})
	return nil
}

// Stats summarizes the collection.
func (s *Service) Stats(ctx context.Context) Stats {
	entries := s.Entries(ctx)
	lessons := make(map[string]bool)
	st := Stats{TotalEntries: len(entries)}
	for _, e := range entries {
		lessons[e.LessonID] = true
		if e.EvidenceImg != nil && *e.EvidenceImg != "" {
			st.EntriesWithEvidence++
		}
	}
	st.LessonsWithEntries = len(lessons)
	if recent := SortByNewest(entries); len(recent) > 0 {
		latest := recent[0]
		st.LatestEntry = &latest
	}
	return st
}

// Sweep re-persists the collection, retrying a write that failed earlier.
func (s *Service) Sweep(ctx context.Context) {
	s.mu.Lock()
	defer s.unlock()
	if !s.dirty {
		return
	}
	s.save(ctx, s.load(ctx))
}

// Reload drops entries held back by a failed write so the next read comes
// from storage.
func (s *Service) Reload() {
	s.mu.Lock()
	defer s.unlock()
	s.unsaved = nil
	s.dirty = false
}
