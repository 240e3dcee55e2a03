package progress

import "errors"

var (
	// ErrUnknownLesson is returned for ids outside L1..L10.
	ErrUnknownLesson = errors.New("unknown lesson")

	// ErrInvalidStatus is returned for unknown statuses and for locking L1.
	ErrInvalidStatus = errors.New("invalid lesson status")

	// ErrLessonLocked is returned when opening a lesson whose predecessor
	// is not complete.
	ErrLessonLocked = errors.New("lesson is locked")

	// ErrReopen is returned when moving a lesson below complete while the
	// lesson after it is already open.
	ErrReopen = errors.New("cannot reopen lesson")

	// ErrInvalidPoints is returned by AddXP for non-positive amounts.
	ErrInvalidPoints = errors.New("xp points must be positive")
)
