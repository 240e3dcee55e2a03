// Package plates explores earthquake risk for cities near and far from
// tectonic plate boundaries.
package plates

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/naturepower/internal/widgets"
)

// City is one marker on the map.
type City struct {
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	Population  string   `json:"population"`
	RingOfFire  bool     `json:"ringOfFire"`
	Risk        string   `json:"risk"`
	LastMajor   string   `json:"lastMajor"`
	Adaptations []string `json:"adaptations"`
	Boundary    string   `json:"boundary"`
	Fact        string   `json:"fact"`
}

// Cities in display order.
var Cities = []City{
	{
		Key: "tokyo", Name: "Tokyo, Japan", Population: "14 million", RingOfFire: true,
		Risk: "Very High", LastMajor: "2011 (Magnitude 9.0)",
		Adaptations: []string{"Building codes require earthquake-resistant design", "Early warning systems", "Emergency drills in schools"},
		Boundary:    "Pacific Plate meets Philippine Sea Plate",
		Fact:        "Tokyo is built on the meeting point of three tectonic plates",
	},
	{
		Key: "sanfrancisco", Name: "San Francisco, USA", Population: "880,000", RingOfFire: true,
		Risk: "High", LastMajor: "1989 (Magnitude 6.9)",
		Adaptations: []string{"Strict building codes", "Retrofitting old buildings", "Golden Gate Bridge designed to flex"},
		Boundary:    "Pacific Plate meets North American Plate",
		Fact:        "San Francisco sits on the famous San Andreas Fault",
	},
	{
		Key: "christchurch", Name: "Christchurch, New Zealand", Population: "380,000", RingOfFire: true,
		Risk: "High", LastMajor: "2011 (Magnitude 6.3)",
		Adaptations: []string{"New building standards after 2011", "Base isolation technology", "Community preparedness programs"},
		Boundary:    "Pacific Plate meets Australian Plate",
		Fact:        "Christchurch rebuilt with earthquake-safe design after 2011",
	},
	{
		Key: "london", Name: "London, UK", Population: "9 million",
		Risk: "Low", LastMajor: "Very rare, small tremors only",
		Adaptations: []string{"Not needed - stable continental location"},
		Boundary:    "Far from plate boundaries",
		Fact:        "London is on stable continental crust, far from plate boundaries",
	},
	{
		Key: "singapore", Name: "Singapore", Population: "5.9 million",
		Risk: "Very Low", LastMajor: "None recorded",
		Adaptations: []string{"Not needed - very stable location"},
		Boundary:    "Far from major plate boundaries",
		Fact:        "Singapore is in a very stable part of the Eurasian Plate",
	},
	{
		Key: "losangeles", Name: "Los Angeles, USA", Population: "4 million", RingOfFire: true,
		Risk: "High", LastMajor: "1994 (Magnitude 6.7)",
		Adaptations: []string{"Seismic building codes", "Emergency response systems", "Earthquake drills"},
		Boundary:    "Pacific Plate meets North American Plate",
		Fact:        "Los Angeles moves 2 inches closer to San Francisco each year due to plate movement",
	},
}

// Magnitude slider bounds.
const (
	MinMagnitude = 3.0
	MaxMagnitude = 8.0
)

// Facts needed before an exploration can be saved.
const MinFacts = 2

var (
	ErrUnknownCity  = errors.New("unknown city")
	ErrMagnitude    = errors.New("magnitude out of range")
	ErrTooFewFacts  = errors.New("discover at least 2 city facts before saving")
	ErrNoReflection = errors.New("write a reflection about earthquake patterns")
)

// Lookup finds a city by key.
func Lookup(key string) (City, bool) {
	i := slices.IndexFunc(Cities, func(c City) bool { return c.Key == strings.ToLower(key) })
	if i < 0 {
		return City{}, false
	}
	return Cities[i], true
}

// Impact describes what an earthquake of a given magnitude does.
type Impact struct {
	Magnitude   float64 `json:"magnitude"`
	Icon        string  `json:"icon"`
	Level       string  `json:"level"`
	Description string  `json:"description"`
}

// Describe grades a magnitude between MinMagnitude and MaxMagnitude.
func Describe(m float64) (Impact, error) {
	if m < MinMagnitude || m > MaxMagnitude {
		return Impact{}, fmt.Errorf("%w: %.1f", ErrMagnitude, m)
	}
	im := Impact{Magnitude: m}
	switch {
	case m < 4:
		im.Icon, im.Level, im.Description = "🟢", "Weak", "Usually not felt, detected only by instruments."
	case m < 5:
		im.Icon, im.Level, im.Description = "🟡", "Light", "Felt by many people, dishes may rattle."
	case m < 6:
		im.Icon, im.Level, im.Description = "🟠", "Moderate", "Some damage to weak buildings, felt by everyone."
	case m < 7:
		im.Icon, im.Level, im.Description = "🔴", "Strong", "Damage to well-built buildings, people have trouble walking."
	default:
		im.Icon, im.Level, im.Description = "🟣", "Major", "Serious damage to buildings and infrastructure, ground cracks."
	}
	return im, nil
}

// Exploration is a set of discovered city facts.
type Exploration struct {
	RingOfFire bool     `json:"ringOfFire"`
	Cities     []string `json:"cities"`
	Facts      []string `json:"facts"`
}

// Explore collects the key fact of each named city once, in order.
func Explore(keys []string, ringOfFire bool) (Exploration, error) {
	x := Exploration{RingOfFire: ringOfFire}
	for _, k := range keys {
		c, ok := Lookup(k)
		if !ok {
			return Exploration{}, fmt.Errorf("%w: %q", ErrUnknownCity, k)
		}
		if slices.Contains(x.Cities, c.Key) {
			continue
		}
		x.Cities = append(x.Cities, c.Key)
		x.Facts = append(x.Facts, c.Name+": "+c.Fact)
	}
	return x, nil
}

// AtRisk lists the explored cities inside the Ring of Fire.
func (x Exploration) AtRisk() []string {
	var out []string
	for _, k := range x.Cities {
		if c, _ := Lookup(k); c.RingOfFire {
			out = append(out, c.Name)
		}
	}
	return out
}

// Finding builds the journal entry. The entry keeps a summary of the
// exploration and up to three of the discovered facts.
func (x Exploration) Finding(lessonID, reflection string) (widgets.Finding, error) {
	if len(x.Facts) < MinFacts {
		return widgets.Finding{}, ErrTooFewFacts
	}
	reflection = strings.TrimSpace(reflection)
	if reflection == "" {
		return widgets.Finding{}, ErrNoReflection
	}
	mode := "Basic city comparison"
	if x.RingOfFire {
		mode = "Discovered dangerous zones"
	}
	facts := []string{
		"Ring of Fire exploration: " + mode,
		fmt.Sprintf("Cities explored: %d facts collected", len(x.Facts)),
	}
	facts = append(facts, x.Facts[:min(3, len(x.Facts))]...)
	return widgets.Finding{
		LessonID: lessonID,
		Title:    "Earthquakes: Where and why?",
		Type:     "plates_exploration",
		Step:     "plates_map",
		Content:  reflection,
		Facts:    facts,
		Data:     x,
		Tags:     append([]string{"earthquakes", "plates"}, x.Cities...),
	}, nil
}
