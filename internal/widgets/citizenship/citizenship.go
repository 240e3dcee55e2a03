// Package citizenship runs the online-safety scenarios and builds the class
// golden rules poster.
package citizenship

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/naturepower/internal/widgets"
)

// Choice is one answer to a scenario.
type Choice struct {
	Text     string `json:"text"`
	Correct  bool   `json:"correct"`
	Feedback string `json:"feedback"`
}

// Scenario is a situation with exactly one correct choice.
type Scenario struct {
	Key         string   `json:"key"`
	Icon        string   `json:"icon"`
	Title       string   `json:"title"`
	Situation   string   `json:"situation"`
	Choices     []Choice `json:"choices"`
	Rule        string   `json:"rule"`
	Explanation string   `json:"explanation"`
}

// Scenarios in display order.
var Scenarios = []Scenario{
	{
		Key:       "photos",
		Icon:      "📸",
		Title:     "Respect & Photos",
		Situation: "Your friend Maya posted a photo of you and your family at the beach without asking. You feel uncomfortable because some family members prefer privacy. What's the most respectful choice?",
		Choices: []Choice{
			{"Comment angrily on the post telling Maya she's wrong", false, "While your feelings are valid, public anger can hurt friendships and doesn't solve the problem."},
			{"Send Maya a private message asking her to remove the photo and explain why", true, "Perfect! Private, respectful communication protects everyone's feelings and solves the problem."},
			{"Ignore it and hope Maya realizes her mistake", false, "Staying silent means the problem continues, and Maya might not understand your concerns."},
		},
		Rule:        "Ask before posting photos of others",
		Explanation: "Ask before sharing photos. If someone's upset, talk privately and remove it.",
	},
	{
		Key:       "strangers",
		Icon:      "💬",
		Title:     "Strangers in Chats",
		Situation: "While playing an online game, someone you don't know asks for your real name, your school and your address so they can send you a game gift. What should you do?",
		Choices: []Choice{
			{"Answer their questions because they seem nice and offered a gift", false, "Never share personal information online, even if someone seems friendly. Gifts can be tricks."},
			{"Block them immediately and tell a trusted adult", true, "Excellent! Strangers asking for personal information is a red flag. Always tell a trusted adult."},
			{"Give them fake information to trick them", false, "Even fake information keeps the conversation going, which isn't safe. It's better to block and report."},
		},
		Rule:        "Never share personal information with strangers",
		Explanation: "Block and report strangers asking personal questions. Tell a trusted adult.",
	},
	{
		Key:       "truth",
		Icon:      "🔍",
		Title:     "Truth or Trick?",
		Situation: "A post says scientists PROVE eating 25 chocolate bars a day makes you 50% smarter. Your friend is excited and wants to try it. What do you think?",
		Choices: []Choice{
			{"It must be true because it mentions scientists", false, "Just saying \"scientists prove\" doesn't make something true. Real science studies are published with details."},
			{"Check if this claim appears on reliable health websites before believing it", true, "Smart thinking! Always check multiple trusted sources before believing surprising claims."},
			{"Share it immediately because it sounds amazing", false, "Sharing false information can mislead others. It's better to check facts first."},
		},
		Rule:        "Check sources before believing or sharing",
		Explanation: "Check another trusted source. If it sounds too good to be true, it probably is.",
	},
	{
		Key:       "balance",
		Icon:      "⏰",
		Title:     "Screen Balance",
		Situation: "You started watching videos for just 10 minutes but an hour has gone by. You have homework and promised to help with dinner. The next video looks really interesting. What helps you stop?",
		Choices: []Choice{
			{"Watch just one more video, then stop for sure", false, "\"Just one more\" often becomes many more. It's hard to stop when you're already in the habit."},
			{"Close the app, put the device away, and set a timer for homework time", true, "Perfect! Removing temptation and using timers helps you stick to your intentions."},
			{"Keep watching while doing homework to multitask", false, "Multitasking with screens makes homework take longer and reduces quality. Focus on one thing at a time."},
		},
		Rule:        "Use timers and take breaks from screens",
		Explanation: "Use a timer. Remove the device from sight when you need to focus on other things.",
	},
}

// RuleSlots is how many golden rules fit on a poster.
const RuleSlots = 3

// DefaultClass names the poster when no class is given.
const DefaultClass = "Demo Class"

var (
	ErrUnknownScenario = errors.New("unknown scenario")
	ErrBadChoice       = errors.New("no such choice")
	ErrRulesFull       = errors.New("all rule slots are full")
	ErrNoRules         = errors.New("add at least one golden rule")
	ErrTooManyRules    = errors.New("a poster holds three golden rules")
)

// Lookup finds a scenario by key.
func Lookup(key string) (Scenario, bool) {
	i := slices.IndexFunc(Scenarios, func(s Scenario) bool { return s.Key == strings.ToLower(key) })
	if i < 0 {
		return Scenario{}, false
	}
	return Scenarios[i], true
}

// Answer is the outcome of picking a choice.
type Answer struct {
	Scenario string `json:"scenario"`
	Correct  bool   `json:"correct"`
	Best     int    `json:"best"`
	Feedback string `json:"feedback"`
	Rule     string `json:"rule"`
}

// Choose scores choice (zero-based) for the named scenario. Best is the
// index of the correct choice so a wrong answer can show it.
func Choose(key string, choice int) (Answer, error) {
	s, ok := Lookup(key)
	if !ok {
		return Answer{}, fmt.Errorf("%w: %q", ErrUnknownScenario, key)
	}
	if choice < 0 || choice >= len(s.Choices) {
		return Answer{}, fmt.Errorf("%w: %d", ErrBadChoice, choice+1)
	}
	c := s.Choices[choice]
	return Answer{
		Scenario: s.Key,
		Correct:  c.Correct,
		Best:     slices.IndexFunc(s.Choices, func(c Choice) bool { return c.Correct }),
		Feedback: c.Feedback,
		Rule:     s.Rule,
	}, nil
}

// AddRule puts rule in the first blank slot.
func AddRule(rules [RuleSlots]string, rule string) ([RuleSlots]string, error) {
	for i, r := range rules {
		if strings.TrimSpace(r) == "" {
			rules[i] = strings.TrimSpace(rule)
			return rules, nil
		}
	}
	return rules, ErrRulesFull
}

// Poster is an approved set of golden rules for a class.
type Poster struct {
	ClassName string   `json:"className"`
	Rules     []string `json:"rules"`
	Completed []string `json:"completedScenarios"`
}

// NewPoster keeps the non-blank rules. Completed lists the scenario keys
// the class worked through; unknown keys are rejected.
func NewPoster(className string, rules, completed []string) (Poster, error) {
	var filled []string
	for _, r := range rules {
		if r = strings.TrimSpace(r); r != "" {
			filled = append(filled, r)
		}
	}
	switch {
	case len(filled) == 0:
		return Poster{}, ErrNoRules
	case len(filled) > RuleSlots:
		return Poster{}, ErrTooManyRules
	}
	var done []string
	for _, k := range completed {
		s, ok := Lookup(k)
		if !ok {
			return Poster{}, fmt.Errorf("%w: %q", ErrUnknownScenario, k)
		}
		if !slices.Contains(done, s.Key) {
			done = append(done, s.Key)
		}
	}
	if className = strings.TrimSpace(className); className == "" {
		className = DefaultClass
	}
	return Poster{ClassName: className, Rules: filled, Completed: done}, nil
}

// Text renders the poster as numbered lines.
func (p Poster) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Our Digital Citizenship Golden Rules\n%s\n\n", p.ClassName)
	for i, r := range p.Rules {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r)
	}
	return b.String()
}

// Finding builds the journal entry for an approved poster.
func (p Poster) Finding(lessonID string) widgets.Finding {
	return widgets.Finding{
		LessonID: lessonID,
		Title:    "Digital Citizenship Poster",
		Type:     "digital_citizenship_poster",
		Step:     "digital_citizenship",
		Content:  fmt.Sprintf("Digital Citizenship Poster created for %s. Rules: %s", p.ClassName, strings.Join(p.Rules, "; ")),
		Facts:    p.Rules,
		Data: map[string]any{
			"golden_rules":        p.Rules,
			"class_name":          p.ClassName,
			"completed_scenarios": p.Completed,
		},
		Tags: []string{"digital-citizenship", "poster", "golden-rules", "safety"},
	}
}
