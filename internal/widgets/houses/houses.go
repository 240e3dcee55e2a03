// Package houses matches building features to the climates they suit.
package houses

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/naturepower/internal/widgets"
)

// Feature keys.
const (
	Ventilation = "ventilation"
	Insulation  = "insulation"
	ThermalMass = "thermal-mass"
)

// Feature is a card the learner places on a house.
type Feature struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// House is a climate with the one feature that suits it.
type House struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Climate     string `json:"climate"`
	Feature     string `json:"-"`
	Explanation string `json:"-"`
}

var Features = []Feature{
	{Ventilation, "Good Ventilation", "💨", "Allows air to flow through the building to cool it down"},
	{Insulation, "Heavy Insulation", "🧥", "Thick materials that keep heat in during cold weather"},
	{ThermalMass, "Thermal Mass", "🧱", "Heavy materials that store heat during day and release it at night"},
}

var Houses = []House{
	{
		Key: "tropical", Name: "Tropical House", Climate: "Hot and humid", Feature: Ventilation,
		Explanation: "Open walls and raised floors allow air to flow freely, keeping the house cool and preventing moisture buildup. The steep roof quickly sheds heavy rainfall.",
	},
	{
		Key: "arctic", Name: "Arctic House", Climate: "Very cold", Feature: Insulation,
		Explanation: "Thick walls and heavy insulation trap heat inside. Small windows reduce heat loss while still letting in precious sunlight during long winters.",
	},
	{
		Key: "desert", Name: "Desert House", Climate: "Hot and dry", Feature: ThermalMass,
		Explanation: "Thick adobe walls absorb heat during the day and release it slowly at night. The central courtyard creates cooling air circulation.",
	},
}

var (
	ErrUnknownHouse   = errors.New("unknown house")
	ErrUnknownFeature = errors.New("unknown feature")
	ErrIncomplete     = errors.New("match every house before saving")
)

func lookupHouse(key string) (House, bool) {
	i := slices.IndexFunc(Houses, func(h House) bool { return h.Key == strings.ToLower(key) })
	if i < 0 {
		return House{}, false
	}
	return Houses[i], true
}

func lookupFeature(key string) (Feature, bool) {
	i := slices.IndexFunc(Features, func(f Feature) bool { return f.Key == strings.ToLower(key) })
	if i < 0 {
		return Feature{}, false
	}
	return Features[i], true
}

// Match is a feature placed on a house.
type Match struct {
	House       string `json:"house"`
	Feature     string `json:"feature"`
	Correct     bool   `json:"correct"`
	Feedback    string `json:"feedback"`
	Explanation string `json:"explanation,omitempty"`
}

// Place checks one feature against one house. The explanation is only
// revealed for a correct match.
func Place(house, feature string) (Match, error) {
	h, ok := lookupHouse(house)
	if !ok {
		return Match{}, fmt.Errorf("%w: %q", ErrUnknownHouse, house)
	}
	f, ok := lookupFeature(feature)
	if !ok {
		return Match{}, fmt.Errorf("%w: %q", ErrUnknownFeature, feature)
	}
	m := Match{House: h.Name, Feature: f.Name, Correct: h.Feature == f.Key}
	if m.Correct {
		m.Feedback = fmt.Sprintf("Correct! %s helps %s in its climate.", f.Name, h.Name)
		m.Explanation = h.Explanation
	} else {
		m.Feedback = fmt.Sprintf("Try again! %s might not be the best match for %s.", f.Name, h.Name)
	}
	return m, nil
}

// Result scores a whole board.
type Result struct {
	Matches  []Match `json:"matches"`
	Correct  int     `json:"correct"`
	Complete bool    `json:"complete"`
}

// Score places each house→feature pair. Houses are scored in display
// order; a board is complete once every house holds its feature.
func Score(board map[string]string) (Result, error) {
	for k := range board {
		if _, ok := lookupHouse(k); !ok {
			return Result{}, fmt.Errorf("%w: %q", ErrUnknownHouse, k)
		}
	}
	var r Result
	for _, h := range Houses {
		feature, ok := board[h.Key]
		if !ok {
			continue
		}
		m, err := Place(h.Key, feature)
		if err != nil {
			return Result{}, err
		}
		r.Matches = append(r.Matches, m)
		if m.Correct {
			r.Correct++
		}
	}
	r.Complete = r.Correct == len(Houses)
	return r, nil
}

// Finding builds the journal entry for a completed board.
func (r Result) Finding(lessonID string) (widgets.Finding, error) {
	if !r.Complete {
		return widgets.Finding{}, ErrIncomplete
	}
	facts := make([]string, 0, len(r.Matches))
	for _, m := range r.Matches {
		facts = append(facts, m.House+": "+m.Feature)
	}
	return widgets.Finding{
		LessonID: lessonID,
		Title:    "Houses Around the World",
		Type:     "houses_matching",
		Step:     "houses_widget",
		Content:  fmt.Sprintf("Houses matching activity completed. Matched %d features correctly.", r.Correct),
		Facts:    facts,
		Data: map[string]any{
			"matches":       r.Matches,
			"total_correct": r.Correct,
		},
		Tags: []string{"houses", "climate", "architecture", "matching"},
	}, nil
}
