// Package gallery is the class showcase of learner work. New work waits
// for a teacher to approve it.
package gallery

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/naturepower/internal/events"
	"github.com/abhisek/naturepower/internal/logging"
	"github.com/abhisek/naturepower/internal/store"
)

// ErrNotFound is returned for unknown item ids.
var ErrNotFound = errors.New("gallery item not found")

// Item is one piece of shared work.
type Item struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Class       string         `json:"class"`
	Date        time.Time      `json:"date"`
	Tags        []string       `json:"tags"`
	Likes       int            `json:"likes"`
	Liked       bool           `json:"liked"`
	Approved    bool           `json:"approved"`
	Hidden      bool           `json:"hidden"`
	Data        map[string]any `json:"data,omitempty"`
}

// Submission is the input to Submit.
type Submission struct {
	Type        string         `json:"type" validate:"required,oneof=design circuit poster weather other"`
	Title       string         `json:"title" validate:"required,max=120"`
	Description string         `json:"description" validate:"max=2000"`
	Class       string         `json:"class"`
	Tags        []string       `json:"tags"`
	Data        map[string]any `json:"data,omitempty"`
}

// Sort orders a listing.
type Sort string

const (
	SortNewest       Sort = "newest"
	SortOldest       Sort = "oldest"
	SortPopular      Sort = "popular"
	SortAlphabetical Sort = "alphabetical"
)

// Filter selects items for a listing. The zero value lists every visible
// item newest first.
type Filter struct {
	Type  string `query:"type"`
	Query string `query:"q"`
	Sort  Sort   `query:"sort"`
	// All includes pending and hidden items, for the teacher view.
	All bool `query:"all"`
}

// Settings are the teacher's gallery preferences.
type Settings struct {
	ModerationOn bool   `json:"moderationOn"`
	Filter       string `json:"currentFilter"`
	Sort         Sort   `json:"currentSort"`
}

// DefaultSettings has moderation on.
var DefaultSettings = Settings{ModerationOn: true, Filter: "all", Sort: SortNewest}

// Stats counts items by moderation state.
type Stats struct {
	Total    int `json:"total"`
	Approved int `json:"approved"`
	Pending  int `json:"pending"`
	Hidden   int `json:"hidden"`
}

// Service manages the gallery collection.
type Service struct {
	kv  store.KV
	bus events.Publisher
	log *logging.Logger
	now func() time.Time

	mu      sync.Mutex
	unsaved []Item
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a gallery over kv. bus may be nil.
func NewService(kv store.KV, bus events.Publisher, log *logging.Logger, opts ...Option) *Service {
	if bus == nil {
		bus = events.Discard{}
	}
	s := &Service{kv: kv, bus: bus, log: logging.OrNop(log).With("component", "gallery"), now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) load(ctx context.Context) []Item {
	if s.unsaved != nil {
		return slices.Clone(s.unsaved)
	}
	var items []Item
	if !store.ReadJSON(ctx, s.kv, store.KeyGallery, &items, s.log) {
		items = samples(s.now())
		s.save(ctx, items)
	}
	return items
}

func (s *Service) save(ctx context.Context, items []Item) {
	if err := store.WriteJSON(ctx, s.kv, store.KeyGallery, items); err != nil {
		s.log.Warn("persist gallery", "error", err)
		s.unsaved = slices.Clone(items)
		return
	}
	s.unsaved = nil
}

func (s *Service) publish(action string, it Item) {
	s.bus.Publish(events.Event{Kind: events.GalleryUpdated, Action: action, Payload: it})
}

// mutate applies fn to the item with id and persists the collection.
func (s *Service) mutate(ctx context.Context, id string, fn func(*Item)) (Item, error) {
	s.mu.Lock()
	items := s.load(ctx)
	i := slices.IndexFunc(items, func(it Item) bool { return it.ID == id })
	if i < 0 {
		s.mu.Unlock()
		return Item{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	fn(&items[i])
	s.save(ctx, items)
	it := items[i]
	s.mu.Unlock()

	s.publish(events.ActionUpdated, it)
	return it, nil
}

// Submit adds new work at the front of the gallery, pending approval.
func (s *Service) Submit(ctx context.Context, sub Submission) (Item, error) {
	if strings.TrimSpace(sub.Title) == "" {
		return Item{}, errors.New("submission needs a title")
	}
	it := Item{
		ID:          uuid.NewString(),
		Type:        cmp.Or(sub.Type, "other"),
		Title:       strings.TrimSpace(sub.Title),
		Description: sub.Description,
		Class:       sub.Class,
		Date:        s.now().UTC(),
		Tags:        append([]string{}, sub.Tags...),
		Data:        sub.Data,
	}

	s.mu.Lock()
	items := append([]Item{it}, s.load(ctx)...)
	s.save(ctx, items)
	s.mu.Unlock()

	s.publish(events.ActionCreated, it)
	return it, nil
}

// ToggleApproval flips whether an item is approved.
func (s *Service) ToggleApproval(ctx context.Context, id string) (Item, error) {
	return s.mutate(ctx, id, func(it *Item) { it.Approved = !it.Approved })
}

// ToggleHidden flips whether an item is hidden from learners.
func (s *Service) ToggleHidden(ctx context.Context, id string) (Item, error) {
	return s.mutate(ctx, id, func(it *Item) { it.Hidden = !it.Hidden })
}

// Like toggles this viewer's like on an item.
func (s *Service) Like(ctx context.Context, id string) (Item, error) {
	return s.mutate(ctx, id, func(it *Item) {
		if it.Liked {
			it.Likes = max(0, it.Likes-1)
		} else {
			it.Likes++
		}
		it.Liked = !it.Liked
	})
}

// Delete removes an item.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	items := s.load(ctx)
	i := slices.IndexFunc(items, func(it Item) bool { return it.ID == id })
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	removed := items[i]
	items = slices.Delete(items, i, i+1)
	s.save(ctx, items)
	s.mu.Unlock()

	s.publish(events.ActionDeleted, removed)
	return nil
}

// Get returns one item.
func (s *Service) Get(ctx context.Context, id string) (Item, error) {
	for _, it := range s.Items(ctx) {
		if it.ID == id {
			return it, nil
		}
	}
	return Item{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Items returns the whole collection in storage order.
func (s *Service) Items(ctx context.Context) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// List returns the items matching f. Unless f.All is set, hidden items
// are skipped, and so are pending items while moderation is on.
func (s *Service) List(ctx context.Context, f Filter) []Item {
	moderated := s.Settings(ctx).ModerationOn
	q := strings.ToLower(strings.TrimSpace(f.Query))

	var out []Item
	for _, it := range s.Items(ctx) {
		if !f.All && (it.Hidden || (moderated && !it.Approved)) {
			continue
		}
		if f.Type != "" && f.Type != "all" && it.Type != f.Type {
			continue
		}
		if q != "" && !matches(it, q) {
			continue
		}
		out = append(out, it)
	}

	switch f.Sort {
	case SortOldest:
		slices.SortStableFunc(out, func(a, b Item) int { return a.Date.Compare(b.Date) })
	case SortPopular:
		slices.SortStableFunc(out, func(a, b Item) int { return cmp.Compare(b.Likes, a.Likes) })
	case SortAlphabetical:
		slices.SortStableFunc(out, func(a, b Item) int {
			return cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		})
	default:
		slices.SortStableFunc(out, func(a, b Item) int { return b.Date.Compare(a.Date) })
	}
	return out
}

func matches(it Item, q string) bool {
	if strings.Contains(strings.ToLower(it.Title), q) ||
		strings.Contains(strings.ToLower(it.Description), q) ||
		strings.Contains(strings.ToLower(it.Class), q) {
		return true
	}
	return slices.ContainsFunc(it.Tags, func(t string) bool { return strings.Contains(strings.ToLower(t), q) })
}

// Stats counts items by moderation state.
func (s *Service) Stats(ctx context.Context) Stats {
	items := s.Items(ctx)
	st := Stats{Total: len(items)}
	for _, it := range items {
		if it.Approved {
			st.Approved++
		} else {
			st.Pending++
		}
		if it.Hidden {
			st.Hidden++
		}
	}
	return st
}

// Settings returns the stored settings, or DefaultSettings.
func (s *Service) Settings(ctx context.Context) Settings {
	st := DefaultSettings
	store.ReadJSON(ctx, s.kv, store.KeyGallerySettings, &st, s.log)
	return st
}

// SaveSettings stores st.
func (s *Service) SaveSettings(ctx context.Context, st Settings) error {
	if err := store.WriteJSON(ctx, s.kv, store.KeyGallerySettings, st); err != nil {
		return fmt.Errorf("save gallery settings: %w", err)
	}
	return nil
}

func samples(now time.Time) []Item {
	daysAgo := func(n int) time.Time { return now.UTC().Add(-time.Duration(n) * 24 * time.Hour) }
	return []Item{
		{
			ID:          "1",
			Type:        "design",
			Title:       "Future-Ready Home Design",
			Description: "A sustainable home design with solar panels, natural shading, and excellent ventilation for tropical climate.",
			Class:       "Class 5A",
			Date:        daysAgo(2),
			Tags:        []string{"Solar", "Shade", "Ventilation"},
			Likes:       12,
			Approved:    true,
			Data: map[string]any{
				"reasoning": "I chose solar panels because Singapore gets lots of sun, and shade trees to keep the house cool. The raised floor helps with flooding during heavy rain.",
				"features":  []string{"shade", "solar", "ventilation", "raised-floor"},
			},
		},
		{
			ID:          "2",
			Type:        "circuit",
			Title:       "Working Circuit Design",
			Description: "Successfully built a complete circuit with battery, switch, and lamp. The lamp lights up when the switch is closed!",
			Class:       "Class 5B",
			Date:        daysAgo(3),
			Tags:        []string{"Electronics", "Circuits"},
			Likes:       8,
			Approved:    true,
			Data:        map[string]any{"components": []string{"battery", "wire", "lamp", "switch"}},
		},
		{
			ID:          "3",
			Type:        "poster",
			Title:       "Our Golden Rules Poster",
			Description: "Class-created digital citizenship rules poster ready for classroom display.",
			Class:       "Class 5C",
			Date:        daysAgo(4),
			Tags:        []string{"DigitalCitizenship", "Safety"},
			Likes:       15,
			Approved:    true,
			Data:        map[string]any{"rules": []string{"Think before you share", "Ask before posting photos", "Balance screens and real life"}},
		},
		{
			ID:          "4",
			Type:        "weather",
			Title:       "Singapore vs London Weather",
			Description: "Compared weather patterns between Singapore and London. Singapore is much warmer and more humid!",
			Class:       "Class 5A",
			Date:        daysAgo(5),
			Tags:        []string{"Weather", "Climate", "Comparison"},
			Likes:       6,
			Data:        map[string]any{"facts": []string{"Singapore is 16°C warmer on average", "London has 4 distinct seasons", "Singapore gets more rainfall"}},
		},
	}
}

// Sweep retries a gallery write that failed earlier.
func (s *Service) Sweep(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsaved == nil {
		return
	}
	s.save(ctx, s.unsaved)
}

// Reload drops items held back by a failed write.
func (s *Service) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unsaved = nil
}
