package badges

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/naturepower/internal/catalog"
)

type fakeLedger map[string]time.Time

func (f fakeLedger) EarnedBadges(context.Context) map[string]time.Time { return f }

func TestStatsAndNext(t *testing.T) {
	c := catalog.Default()
	at := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		earned   fakeLedger
		wantStat Stats
		wantNext string
	}{
		{"none", fakeLedger{}, Stats{0, 10, 0}, "B1_nature_detective"},
		{"first", fakeLedger{"B1_nature_detective": at}, Stats{1, 10, 10}, "B2_home_explorer"},
		{"out of order", fakeLedger{"B2_home_explorer": at, "B3_shade_scientist": at}, Stats{2, 10, 20}, "B1_nature_detective"},
		{"unknown ids ignored", fakeLedger{"legacy": at}, Stats{0, 10, 0}, "B1_nature_detective"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(c, tt.earned)
			if got := svc.Stats(context.Background()); got != tt.wantStat {
				t.Errorf("Stats = %+v, want %+v", got, tt.wantStat)
			}
			next, ok := svc.Next(context.Background())
			if !ok || next.ID != tt.wantNext {
				t.Errorf("Next = %q (%v), want %q", next.ID, ok, tt.wantNext)
			}
		})
	}
}

func TestAllEarned(t *testing.T) {
	c := catalog.Default()
	earned := fakeLedger{}
	for _, b := range c.Badges() {
		earned[b.ID] = time.Now()
	}
	svc := NewService(c, earned)

	if _, ok := svc.Next(context.Background()); ok {
		t.Error("Next should report none left")
	}
	if got := svc.Stats(context.Background()).Percentage; got != 100 {
		t.Errorf("percentage = %d, want 100", got)
	}
}

func TestPercentageRounds(t *testing.T) {
	dir := t.TempDir()
	badges := `[{"id":"a","title":"A"},{"id":"b","title":"B"},{"id":"c","title":"C"}]`
	if err := os.WriteFile(filepath.Join(dir, "badges.json"), []byte(badges), 0o644); err != nil {
		t.Fatal(err)
	}
	svc := NewService(catalog.Load(dir, nil), fakeLedger{"a": time.Now(), "b": time.Now()})

	want := Stats{Earned: 2, Total: 3, Percentage: 67}
	if got := svc.Stats(context.Background()); got != want {
		t.Errorf("Stats = %+v, want %+v", got, want)
	}
}

func TestBoardAndLookup(t *testing.T) {
	at := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	svc := NewService(catalog.Default(), fakeLedger{"B4_circuit_builder": at})

	board := svc.Board(context.Background())
	if len(board) != 10 {
		t.Fatalf("board has %d slots, want 10", len(board))
	}
	if !board[3].Earned || !board[3].EarnedAt.Equal(at) {
		t.Errorf("slot 4 = %+v, want earned at %v", board[3], at)
	}
	if board[0].Earned {
		t.Error("slot 1 should not be earned")
	}
	if !svc.IsEarned(context.Background(), "B4_circuit_builder") {
		t.Error("IsEarned = false")
	}

	if got := svc.Lookup("mystery"); got.Icon != "🏆" || got.ID != "mystery" {
		t.Errorf("Lookup fallback = %+v", got)
	}
	if got := svc.Lookup("B1_nature_detective"); got.Icon != "🧭" {
		t.Errorf("Lookup = %+v", got)
	}
}
