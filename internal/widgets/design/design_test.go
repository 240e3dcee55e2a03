package design

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		features []string
		want     Metrics
	}{
		{"baseline", nil, Metrics{Heat: 50, Water: 50, HeatDisplay: 50, WaterDisplay: 50, HeatLevel: LevelFair, WaterLevel: LevelFair}},
		{"cooling", []string{Shade, Ventilation, Insulation}, Metrics{Heat: 17, Water: 50, HeatDisplay: 83, WaterDisplay: 50, HeatLevel: LevelGood, WaterLevel: LevelFair}},
		{"water clamps", []string{RaisedFloor, Rainwater}, Metrics{Heat: 50, Water: 90, HeatDisplay: 50, WaterDisplay: 90, HeatLevel: LevelFair, WaterLevel: LevelGood}},
		{"solar warms", []string{Solar}, Metrics{Heat: 52, Water: 50, HeatDisplay: 48, WaterDisplay: 50, HeatLevel: LevelFair, WaterLevel: LevelFair}},
		{"duplicates count once", []string{Shade, Shade}, Metrics{Heat: 35, Water: 50, HeatDisplay: 65, WaterDisplay: 50, HeatLevel: LevelFair, WaterLevel: LevelFair}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.features)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Evaluate mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEvaluateUnknown(t *testing.T) {
	if _, err := Evaluate([]string{"moat"}); !errors.Is(err, ErrUnknownFeature) {
		t.Errorf("err = %v, want ErrUnknownFeature", err)
	}
}

func TestExport(t *testing.T) {
	if _, err := Export([]string{Shade}, "  ", ""); !errors.Is(err, ErrNoReason) {
		t.Errorf("err = %v, want ErrNoReason", err)
	}

	s, err := Export([]string{Shade, RaisedFloor}, "Keeps us cool and dry", "")
	if err != nil {
		t.Fatal(err)
	}
	if s.ClassCode != "DEMO" {
		t.Errorf("ClassCode = %q", s.ClassCode)
	}
	f := s.Finding("L8")
	if f.Content != "Design Summary: 2 features selected. Reasoning: Keeps us cool and dry" {
		t.Errorf("Content = %q", f.Content)
	}
	if diff := cmp.Diff([]string{"design", "home", "sustainability", Shade, RaisedFloor}, f.Tags); diff != "" {
		t.Errorf("Tags mismatch (-want +got):\n%s", diff)
	}
}
