// Package shade models how roof shade lowers surface temperature.
package shade

import (
	"fmt"
	"math"

	"github.com/abhisek/naturepower/internal/widgets"
)

// MaxReduction is the cooling, in °C, of a fully shaded roof before the
// non-linear falloff.
const MaxReduction = 12.0

// Step is the keyboard increment of the slider.
const Step = 5

// Band names the strength of a temperature change.
type Band string

const (
	BandNone     Band = "none"
	BandSlight   Band = "slightly-cool"
	BandCool     Band = "cool"
	BandVeryCool Band = "very-cool"
)

// Clamp limits a shade percentage to 0..100.
func Clamp(p int) int {
	return max(0, min(100, p))
}

// TempChange returns the temperature change in °C, to one decimal place,
// for a shade percentage.
func TempChange(p int) float64 {
	p = Clamp(p)
	pct := float64(p)
	reduction := pct / 100 * MaxReduction
	reduction *= 1 - math.Exp(-pct/40)
	// half-way values round up, matching the slider readout
	return math.Floor(-reduction*10+0.5) / 10
}

// Classify returns the band for a temperature change.
func Classify(change float64) Band {
	switch {
	case change < -5:
		return BandVeryCool
	case change < -2:
		return BandCool
	case change < 0:
		return BandSlight
	}
	return BandNone
}

// Reading is the slider output for one position.
type Reading struct {
	Shade      int     `json:"shade"`
	TempChange float64 `json:"tempChange"`
	Band       Band    `json:"band"`
	Announce   string  `json:"announce"`
}

// Read evaluates a slider position.
func Read(p int) Reading {
	p = Clamp(p)
	c := TempChange(p)
	return Reading{
		Shade:      p,
		TempChange: c,
		Band:       Classify(c),
		Announce:   fmt.Sprintf("Shade level %d%%. Temperature change %s degrees Celsius.", p, format(c)),
	}
}

// Finding builds the journal entry for a slider position.
func Finding(lessonID string, p int) widgets.Finding {
	r := Read(p)
	return widgets.Finding{
		LessonID: lessonID,
		Title:    "Wonder Slider",
		Type:     "wonder_finding",
		Step:     "wonder_slider",
		Content:  fmt.Sprintf("My wonder finding: %d%% shade changes roof temperature by %s°C", r.Shade, format(r.TempChange)),
		Data: map[string]any{
			"shade_level":        r.Shade,
			"temperature_change": r.TempChange,
			"finding":            fmt.Sprintf("Adding %d%% shade reduces roof temperature by %s°C", r.Shade, format(math.Abs(r.TempChange))),
		},
	}
}

func format(f float64) string {
	if f == 0 {
		return "0"
	}
	return fmt.Sprintf("%g", f)
}
