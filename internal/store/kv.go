package store

import (
	"context"
	"errors"
	"fmt"
)

// Stable storage keys. Values are JSON text except for the preference keys,
// which hold literal strings.
const (
	KeyProgress        = "np_progress"
	KeyJournal         = "np_journal"
	KeyPreferredTab    = "np_preferred_tab"
	KeyReadAloud       = "np_read_aloud_enabled"
	KeyHighContrast    = "np_high_contrast"
	KeyReducedMotion   = "np_reduced_motion"
	KeyGallery         = "np_gallery"
	KeyGallerySettings = "np_gallery_settings"
)

var (
	// ErrQuotaExceeded is reported when the medium has no room for a write.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrUnavailable is reported when the medium is closed or disabled.
	ErrUnavailable = errors.New("storage unavailable")

	// ErrInvalidKey is reported for keys a backend cannot address.
	ErrInvalidKey = errors.New("invalid storage key")
)

// KV is a string key/value store. Implementations are safe for concurrent use.
type KV interface {
	// Get returns the stored value. A missing key is ok=false with a nil error.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key. Rejections are reported as *WriteError.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	Close() error
}

// Change describes a write to key made by another process.
type Change struct {
	Key string
}

// Watcher is implemented by backends that can observe writes made outside
// the current process. The channel is closed when ctx is done.
type Watcher interface {
	Watch(ctx context.Context) (<-chan Change, error)
}

// WriteError reports a rejected Set.
type WriteError struct {
	Key string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Key, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
