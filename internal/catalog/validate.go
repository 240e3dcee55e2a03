package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// validateLessons checks the curriculum is exactly L1..Ln in order with
// unique ids. Returns a combined error describing all problems found.
func validateLessons(lessons []Lesson, want int) error {
	var errs []string

	if len(lessons) != want {
		errs = append(errs, fmt.Sprintf("expected %d lessons, got %d", want, len(lessons)))
	}

	seen := make(map[string]bool, len(lessons))
	for i, l := range lessons {
		if seen[l.ID] {
			errs = append(errs, fmt.Sprintf("duplicate lesson ID: %q", l.ID))
		}
		seen[l.ID] = true
		if wantID := fmt.Sprintf("L%d", i+1); l.ID != wantID {
			errs = append(errs, fmt.Sprintf("lesson %d has ID %q, want %q", i+1, l.ID, wantID))
		}
	}

	if len(errs) > 0 {
		return errors.New("lesson catalog validation failed:\n  " + strings.Join(errs, "\n  "))
	}
	return nil
}

func validateBadges(badges []Badge) error {
	var errs []string
	seen := make(map[string]bool, len(badges))
	for _, b := range badges {
		if seen[b.ID] {
			errs = append(errs, fmt.Sprintf("duplicate badge ID: %q", b.ID))
		}
		seen[b.ID] = true
	}
	if len(errs) > 0 {
		return errors.New("badge catalog validation failed:\n  " + strings.Join(errs, "\n  "))
	}
	return nil
}

// danglingBadges lists lesson badge references missing from the badge
// catalog.
func danglingBadges(lessons []Lesson, badges []Badge) []string {
	ids := make(map[string]bool, len(badges))
	for _, b := range badges {
		ids[b.ID] = true
	}
	var out []string
	for _, l := range lessons {
		if l.Badge != "" && !ids[l.Badge] {
			out = append(out, fmt.Sprintf("%s -> %s", l.ID, l.Badge))
		}
	}
	return out
}
