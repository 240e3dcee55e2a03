// Package design scores a home design by the features it uses.
package design

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/naturepower/internal/widgets"
)

// Baseline meter values before any feature is added.
const (
	BaselineHeat  = 50
	BaselineWater = 50
)

// Feature names.
const (
	Shade       = "shade"
	Ventilation = "ventilation"
	Insulation  = "insulation"
	RaisedFloor = "raised-floor"
	Rainwater   = "rainwater"
	Solar       = "solar"
)

// Effect is how one feature moves the meters.
type Effect struct {
	Heat     int
	Water    int
	Feedback string
}

// Effects lists every feature in display order.
var Effects = []struct {
	Name string
	Effect
}{
	{Shade, Effect{-15, 0, "Shade added. Likely cooler at midday."}},
	{Ventilation, Effect{-10, 0, "Vent added. Better airflow."}},
	{Insulation, Effect{-8, 0, "Insulation added. Keeps inside temperature steadier."}},
	{RaisedFloor, Effect{0, 25, "Raised floor added. Safer from floods."}},
	{Rainwater, Effect{0, 15, "Rainwater tank added. Stores water for later."}},
	{Solar, Effect{2, 0, "Solar panels added. Makes clean electricity."}},
}

var (
	ErrUnknownFeature = errors.New("unknown feature")
	ErrNoReason       = errors.New("explain your design choices before exporting")
)

// Lookup returns the effect of a feature.
func Lookup(name string) (Effect, bool) {
	for _, e := range Effects {
		if e.Name == name {
			return e.Effect, true
		}
	}
	return Effect{}, false
}

// Level colours a meter.
type Level string

const (
	LevelGood Level = "green"
	LevelFair Level = "yellow"
	LevelPoor Level = "coral"
)

func level(v int) Level {
	switch {
	case v > 70:
		return LevelGood
	case v > 40:
		return LevelFair
	}
	return LevelPoor
}

// Metrics are the meter readings. Heat is lower-is-cooler; HeatDisplay
// inverts it so that a fuller bar is always better.
type Metrics struct {
	Heat         int   `json:"heat"`
	Water        int   `json:"water"`
	HeatDisplay  int   `json:"heatDisplay"`
	WaterDisplay int   `json:"waterDisplay"`
	HeatLevel    Level `json:"heatLevel"`
	WaterLevel   Level `json:"waterLevel"`
}

// Evaluate applies the named features to the baseline. Each feature
// counts once.
func Evaluate(features []string) (Metrics, error) {
	heat, water := BaselineHeat, BaselineWater
	seen := make(map[string]bool, len(features))
	for _, f := range features {
		e, ok := Lookup(f)
		if !ok {
			return Metrics{}, fmt.Errorf("%w: %q", ErrUnknownFeature, f)
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		heat += e.Heat
		water += e.Water
	}
	heat = max(0, min(100, heat))
	water = max(0, min(100, water))
	return Metrics{
		Heat:         heat,
		Water:        water,
		HeatDisplay:  100 - heat,
		WaterDisplay: water,
		HeatLevel:    level(100 - heat),
		WaterLevel:   level(water),
	}, nil
}

// Summary is an exported design.
type Summary struct {
	Title     string   `json:"title"`
	Features  []string `json:"features"`
	Metrics   Metrics  `json:"metrics"`
	Reasoning string   `json:"reasoning"`
	ClassCode string   `json:"classCode"`
}

// Export builds a design summary. A reason is required.
func Export(features []string, reason, classCode string) (Summary, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Summary{}, ErrNoReason
	}
	m, err := Evaluate(features)
	if err != nil {
		return Summary{}, err
	}
	if classCode == "" {
		classCode = "DEMO"
	}
	var active []string
	for _, f := range features {
		if !slices.Contains(active, f) {
			active = append(active, f)
		}
	}
	return Summary{
		Title:     "My Future-Ready Home Design",
		Features:  active,
		Metrics:   m,
		Reasoning: reason,
		ClassCode: classCode,
	}, nil
}

// Finding builds the journal entry for an exported design.
func (s Summary) Finding(lessonID string) widgets.Finding {
	return widgets.Finding{
		LessonID: lessonID,
		Title:    s.Title,
		Type:     "design_summary",
		Step:     "design_tester",
		Content:  fmt.Sprintf("Design Summary: %d features selected. Reasoning: %s", len(s.Features), s.Reasoning),
		Data:     s,
		Tags:     append([]string{"design", "home", "sustainability"}, s.Features...),
	}
}
