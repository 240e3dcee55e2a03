// Package badges derives badge state from the catalog and the ledger's
// earned-badge map. It stores nothing of its own.
package badges

import (
	"context"
	"math"
	"time"

	"github.com/abhisek/naturepower/internal/catalog"
)

// Ledger is the part of the progress ledger badges read from.
type Ledger interface {
	EarnedBadges(ctx context.Context) map[string]time.Time
}

// Stats reports catalog completion.
type Stats struct {
	Earned     int `json:"earned"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// Slot is one badge on the board.
type Slot struct {
	Badge    catalog.Badge `json:"badge"`
	Earned   bool          `json:"earned"`
	EarnedAt *time.Time    `json:"earnedAt,omitempty"`
}

// Service binds the badge catalog to the ledger.
type Service struct {
	catalog *catalog.Catalog
	ledger  Ledger
}

// NewService creates a badge binding.
func NewService(c *catalog.Catalog, ledger Ledger) *Service {
	return &Service{catalog: c, ledger: ledger}
}

// IsEarned reports whether id has been awarded.
func (s *Service) IsEarned(ctx context.Context, id string) bool {
	_, ok := s.ledger.EarnedBadges(ctx)[id]
	return ok
}

// Next returns the first catalog badge not yet earned.
func (s *Service) Next(ctx context.Context) (catalog.Badge, bool) {
	earned := s.ledger.EarnedBadges(ctx)
	for _, b := range s.catalog.Badges() {
		if _, ok := earned[b.ID]; !ok {
			return b, true
		}
	}
	return catalog.Badge{}, false
}

// Stats counts earned catalog badges. Awards for ids outside the catalog
// are not counted.
func (s *Service) Stats(ctx context.Context) Stats {
	earned := s.ledger.EarnedBadges(ctx)
	all := s.catalog.Badges()
	st := Stats{Total: len(all)}
	for _, b := range all {
		if _, ok := earned[b.ID]; ok {
			st.Earned++
		}
	}
	if st.Total > 0 {
		st.Percentage = int(math.Round(float64(st.Earned) * 100 / float64(st.Total)))
	}
	return st
}

// Board lists every catalog badge with its earned state.
func (s *Service) Board(ctx context.Context) []Slot {
	earned := s.ledger.EarnedBadges(ctx)
	all := s.catalog.Badges()
	slots := make([]Slot, len(all))
	for i, b := range all {
		slots[i] = Slot{Badge: b}
		if at, ok := earned[b.ID]; ok {
			at := at
			slots[i].Earned = true
			slots[i].EarnedAt = &at
		}
	}
	return slots
}

// Lookup returns the catalog definition of id, or a generic trophy when
// the catalog has no such badge.
func (s *Service) Lookup(id string) catalog.Badge {
	if b, ok := s.catalog.Badge(id); ok {
		return b
	}
	return Generic(id)
}

// Generic is the display fallback for unknown badge ids.
func Generic(id string) catalog.Badge {
	return catalog.Badge{
		ID:      id,
		Title:   "Achievement Unlocked",
		Icon:    "🏆",
		Caption: "You earned a badge!",
	}
}
