// Package weather compares the monthly climate of sample places.
package weather

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/abhisek/naturepower/internal/widgets"
)

// Place is twelve months of averages for one location.
type Place struct {
	Key         string  `json:"key"`
	Name        string  `json:"name"`
	Climate     string  `json:"climate"`
	AvgTemp     [12]int `json:"avgTemp"`
	Rainfall    [12]int `json:"rainfall"`
	Humidity    [12]int `json:"humidity"`
	Description string  `json:"description"`
}

// Places is the built-in dataset in display order.
var Places = []Place{
	{
		Key:         "singapore",
		Name:        "Singapore",
		Climate:     "Tropical",
		AvgTemp:     [12]int{26, 27, 28, 28, 28, 28, 28, 28, 27, 27, 26, 26},
		Rainfall:    [12]int{159, 112, 171, 154, 171, 132, 158, 176, 170, 193, 231, 287},
		Humidity:    [12]int{84, 81, 82, 84, 84, 83, 83, 83, 84, 85, 86, 85},
		Description: "Hot and humid all year with two monsoon seasons",
	},
	{
		Key:         "london",
		Name:        "London, UK",
		Climate:     "Temperate",
		AvgTemp:     [12]int{4, 5, 7, 10, 14, 17, 19, 19, 16, 12, 7, 5},
		Rainfall:    [12]int{55, 40, 42, 44, 49, 45, 57, 59, 49, 69, 59, 55},
		Humidity:    [12]int{86, 83, 79, 75, 74, 75, 76, 78, 81, 85, 87, 87},
		Description: "Mild summers, cool winters with regular rainfall",
	},
	{
		Key:         "cairo",
		Name:        "Cairo, Egypt",
		Climate:     "Desert",
		AvgTemp:     [12]int{14, 16, 20, 25, 29, 32, 34, 33, 30, 26, 21, 16},
		Rainfall:    [12]int{5, 3, 3, 1, 0, 0, 0, 0, 0, 1, 2, 5},
		Humidity:    [12]int{59, 54, 50, 45, 43, 48, 52, 55, 56, 58, 61, 61},
		Description: "Very hot, dry summers and mild winters",
	},
	{
		Key:         "stockholm",
		Name:        "Stockholm, Sweden",
		Climate:     "Continental",
		AvgTemp:     [12]int{-3, -2, 1, 6, 12, 17, 19, 18, 13, 8, 3, -1},
		Rainfall:    [12]int{43, 30, 26, 30, 30, 45, 72, 66, 55, 50, 53, 46},
		Humidity:    [12]int{86, 83, 78, 71, 65, 68, 72, 76, 79, 83, 86, 87},
		Description: "Cold winters with snow, warm summers",
	},
}

var (
	ErrUnknownPlace = errors.New("unknown place")
	ErrMissingFacts = errors.New("write two facts before saving")
)

// Lookup finds a place by key.
func Lookup(key string) (Place, bool) {
	i := slices.IndexFunc(Places, func(p Place) bool { return p.Key == strings.ToLower(key) })
	if i < 0 {
		return Place{}, false
	}
	return Places[i], true
}

// MeanTemp is the yearly average temperature.
func (p Place) MeanTemp() float64 {
	sum := 0
	for _, t := range p.AvgTemp {
		sum += t
	}
	return float64(sum) / 12
}

// TotalRain is the yearly rainfall in mm.
func (p Place) TotalRain() int {
	sum := 0
	for _, r := range p.Rainfall {
		sum += r
	}
	return sum
}

// Range is the spread between the warmest and coldest month.
func (p Place) Range() (lo, hi int) {
	return slices.Min(p.AvgTemp[:]), slices.Max(p.AvgTemp[:])
}

// Comparison is the side-by-side view of two places.
type Comparison struct {
	First    Place    `json:"first"`
	Second   Place    `json:"second"`
	Insights []string `json:"insights"`
}

// SimilarInsight is reported when no difference stands out.
const SimilarInsight = "Both places have similar weather patterns"

// Compare builds insights about two places by key.
func Compare(a, b string) (Comparison, error) {
	pa, ok := Lookup(a)
	if !ok {
		return Comparison{}, fmt.Errorf("%w: %q", ErrUnknownPlace, a)
	}
	pb, ok := Lookup(b)
	if !ok {
		return Comparison{}, fmt.Errorf("%w: %q", ErrUnknownPlace, b)
	}
	return Comparison{First: pa, Second: pb, Insights: insights(pa, pb)}, nil
}

func insights(a, b Place) []string {
	var out []string

	avgA, avgB := a.MeanTemp(), b.MeanTemp()
	diff := math.Abs(avgA - avgB)
	switch {
	case diff > 10:
		word := "much cooler"
		if avgA > avgB {
			word = "much warmer"
		}
		out = append(out, fmt.Sprintf("Temperature: %s is %s on average (%.1f°C difference)", a.Name, word, diff))
	case diff > 5:
		word := "cooler"
		if avgA > avgB {
			word = "warmer"
		}
		out = append(out, fmt.Sprintf("Temperature: %s is %s than %s", a.Name, word, b.Name))
	}

	rainA, rainB := a.TotalRain(), b.TotalRain()
	if d := rainA - rainB; d > 500 || d < -500 {
		wetter := a.Name
		if rainB > rainA {
			wetter = b.Name
		}
		out = append(out, fmt.Sprintf("Rainfall: %s gets much more rain (%dmm more per year)", wetter, max(d, -d)))
	}

	if a.Climate != b.Climate {
		out = append(out, fmt.Sprintf("Climate types: %s vs %s", a.Climate, b.Climate))
	}

	loA, hiA := a.Range()
	loB, hiB := b.Range()
	rangeA, rangeB := hiA-loA, hiB-loB
	if d := rangeA - rangeB; d > 10 || d < -10 {
		bigger := a.Name
		if rangeB > rangeA {
			bigger = b.Name
		}
		out = append(out, fmt.Sprintf("Seasons: %s has bigger temperature changes between seasons", bigger))
	}

	if len(out) == 0 {
		out = append(out, SimilarInsight)
	}
	return out
}

// Finding builds the journal entry for a comparison with the learner's
// two facts.
func (c Comparison) Finding(lessonID, fact1, fact2 string) (widgets.Finding, error) {
	fact1, fact2 = strings.TrimSpace(fact1), strings.TrimSpace(fact2)
	if fact1 == "" || fact2 == "" {
		return widgets.Finding{}, ErrMissingFacts
	}
	return widgets.Finding{
		LessonID: lessonID,
		Title:    "Weather Explorer",
		Type:     "weather_climate_comparison",
		Step:     "weather_explorer",
		Content: fmt.Sprintf("Weather vs Climate Comparison: %s and %s. Fact 1: %s. Fact 2: %s",
			c.First.Name, c.Second.Name, fact1, fact2),
		Data: map[string]any{
			"place1": c.First.Name,
			"place2": c.Second.Name,
			"fact1":  fact1,
			"fact2":  fact2,
		},
		Tags: []string{"weather", "climate", "comparison", c.First.Key, c.Second.Key},
	}, nil
}
