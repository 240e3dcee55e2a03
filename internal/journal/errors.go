package journal

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyImport is returned when no candidate entry passes validation.
	ErrEmptyImport = errors.New("no valid entries found")

	// ErrNotFound is returned when an entry id does not exist.
	ErrNotFound = errors.New("journal entry not found")

	// ErrMissingLesson is returned by Create without a lesson id.
	ErrMissingLesson = errors.New("journal entry needs a lesson id")

	// ErrMissingID is returned by Upsert for an entry without an id.
	ErrMissingID = errors.New("journal entry needs an id")
)

// FormatError reports an import payload that is not a journal export.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid journal import: %s: %v", e.Reason, e.Err)
	}
	return "invalid journal import: " + e.Reason
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
