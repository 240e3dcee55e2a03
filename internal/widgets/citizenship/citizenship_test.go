package citizenship

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEachScenarioHasOneCorrectChoice(t *testing.T) {
	for _, s := range Scenarios {
		n := 0
		for _, c := range s.Choices {
			if c.Correct {
				n++
			}
		}
		if n != 1 {
			t.Errorf("%s has %d correct choices", s.Key, n)
		}
	}
}

func TestChoose(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		choice  int
		correct bool
		err     error
	}{
		{"right answer", "strangers", 1, true, nil},
		{"wrong answer", "truth", 2, false, nil},
		{"key is case-insensitive", "Photos", 1, true, nil},
		{"unknown scenario", "cyberbullying", 0, false, ErrUnknownScenario},
		{"choice out of range", "balance", 3, false, ErrBadChoice},
		{"negative choice", "balance", -1, false, ErrBadChoice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Choose(tt.key, tt.choice)
			if !errors.Is(err, tt.err) {
				t.Fatalf("err = %v, want %v", err, tt.err)
			}
			if err != nil {
				return
			}
			if got.Correct != tt.correct {
				t.Errorf("Correct = %v, want %v", got.Correct, tt.correct)
			}
			if got.Best != 1 {
				t.Errorf("Best = %d, want 1", got.Best)
			}
		})
	}
}

func TestAddRule(t *testing.T) {
	rules := [RuleSlots]string{"Be kind", " ", ""}
	rules, err := AddRule(rules, "Ask before posting photos of others")
	if err != nil {
		t.Fatal(err)
	}
	if rules[1] != "Ask before posting photos of others" {
		t.Errorf("rules = %q", rules)
	}
	rules, _ = AddRule(rules, "Take breaks")
	if _, err := AddRule(rules, "One more"); !errors.Is(err, ErrRulesFull) {
		t.Errorf("err = %v, want ErrRulesFull", err)
	}
}

func TestNewPoster(t *testing.T) {
	if _, err := NewPoster("5A", []string{"", "  "}, nil); !errors.Is(err, ErrNoRules) {
		t.Errorf("err = %v, want ErrNoRules", err)
	}
	if _, err := NewPoster("5A", []string{"a", "b", "c", "d"}, nil); !errors.Is(err, ErrTooManyRules) {
		t.Errorf("err = %v, want ErrTooManyRules", err)
	}
	if _, err := NewPoster("5A", []string{"a"}, []string{"gaming"}); !errors.Is(err, ErrUnknownScenario) {
		t.Errorf("err = %v, want ErrUnknownScenario", err)
	}

	p, err := NewPoster("", []string{" Be kind ", "", "Check sources"}, []string{"truth", "TRUTH", "photos"})
	if err != nil {
		t.Fatal(err)
	}
	want := Poster{ClassName: DefaultClass, Rules: []string{"Be kind", "Check sources"}, Completed: []string{"truth", "photos"}}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("NewPoster mismatch (-want +got):\n%s", diff)
	}
	if got := p.Text(); got != "Our Digital Citizenship Golden Rules\nDemo Class\n\n1. Be kind\n2. Check sources\n" {
		t.Errorf("Text = %q", got)
	}

	f := p.Finding("L9")
	if f.Content != "Digital Citizenship Poster created for Demo Class. Rules: Be kind; Check sources" {
		t.Errorf("Content = %q", f.Content)
	}
	d := f.Draft()
	if d.LessonID != "L9" || d.Extra["type"] != "digital_citizenship_poster" {
		t.Errorf("Draft = %+v", d)
	}
	if diff := cmp.Diff(p.Rules, d.Facts); diff != "" {
		t.Errorf("Facts mismatch (-want +got):\n%s", diff)
	}
}
