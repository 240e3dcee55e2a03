package circuit

import (
	"errors"
	"testing"
)

func board(t *testing.T, parts ...Part) *Board {
	t.Helper()
	b := NewBoard()
	for _, p := range parts {
		if err := b.Place(p.Row, p.Col, p.Type); err != nil {
			t.Fatalf("Place(%+v): %v", p, err)
		}
	}
	return b
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name    string
		parts   []Part
		open    bool
		want    string
		working bool
	}{
		{"empty", nil, false, MsgNoBattery, false},
		{"battery only", []Part{{0, 0, Battery}}, false, MsgNoLamp, false},
		{"gap", []Part{{0, 0, Battery}, {0, 2, Lamp}}, false, MsgDisconnected, false},
		{"adjacent", []Part{{0, 0, Battery}, {0, 1, Lamp}}, false, MsgLit, true},
		{"wired", []Part{{2, 2, Battery}, {2, 3, Wire}, {3, 3, Wire}, {3, 4, Lamp}}, false, MsgLit, true},
		{"diagonal does not connect", []Part{{0, 0, Battery}, {1, 1, Lamp}}, false, MsgDisconnected, false},
		{"switch closed", []Part{{0, 0, Battery}, {0, 1, Switch}, {0, 2, Lamp}}, false, MsgLit, true},
		{"switch open", []Part{{0, 0, Battery}, {0, 1, Switch}, {0, 2, Lamp}}, true, MsgSwitchOpen, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := board(t, tt.parts...)
			if tt.open {
				b.Toggle()
			}
			got := b.Evaluate()
			if got.Message != tt.want || got.Working != tt.working {
				t.Errorf("Evaluate = %q working=%v, want %q working=%v", got.Message, got.Working, tt.want, tt.working)
			}
		})
	}
}

func TestPlaceErrors(t *testing.T) {
	b := board(t, Part{0, 0, Battery})
	if err := b.Place(0, 0, Lamp); !errors.Is(err, ErrCellTaken) {
		t.Errorf("err = %v, want ErrCellTaken", err)
	}
	if err := b.Place(Rows, 0, Lamp); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("err = %v, want ErrOutOfBounds", err)
	}
	if err := b.Place(1, 1, "resistor"); !errors.Is(err, ErrUnknownType) {
		t.Errorf("err = %v, want ErrUnknownType", err)
	}
	b.Remove(0, 0)
	if len(b.Parts) != 0 {
		t.Errorf("Parts = %v after Remove", b.Parts)
	}
}

func TestFinding(t *testing.T) {
	b := board(t, Part{0, 0, Battery}, Part{0, 1, Wire}, Part{0, 2, Lamp})
	f, err := b.Finding("L4")
	if err != nil {
		t.Fatal(err)
	}
	if f.Content != "Circuit completed successfully using 3 components: battery, wire, lamp" {
		t.Errorf("Content = %q", f.Content)
	}
	d := f.Draft()
	if d.LessonID != "L4" || d.Extra["step"] != "circuits_sandbox" {
		t.Errorf("Draft = %+v", d)
	}

	b.Remove(0, 1)
	if _, err := b.Finding("L4"); !errors.Is(err, ErrNotWorking) {
		t.Errorf("err = %v, want ErrNotWorking", err)
	}
}
