package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/abhisek/naturepower/internal/logging"
)

const (
	fileSuffix    = ".value"
	removedMarker = "\x00removed"
)

// File stores each key in its own file under a directory. Writes go to a
// temporary file that is renamed into place, so readers never observe a
// partially written value.
type File struct {
	dir string
	log *logging.Logger

	mu     sync.Mutex
	own    map[string]string // last value written by this process, per key
	closed bool

	debounce time.Duration
}

// OpenFile opens (creating if needed) a file store rooted at dir.
func OpenFile(dir string, log *logging.Logger) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &File{
		dir:      dir,
		log:      logging.OrNop(log).With("backend", "file"),
		own:      make(map[string]string),
		debounce: 100 * time.Millisecond,
	}, nil
}

// Dir returns the directory holding the store's files.
func (f *File) Dir() string {
	return f.dir
}

func (f *File) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(f.dir, key+fileSuffix), nil
}

func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	p, err := f.path(key)
	if err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return string(data), true, nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	closed := f.closed
	f.mu.Unlock()
	if closed {
		return &WriteError{Key: key, Err: ErrUnavailable}
	}

	p, err := f.path(key)
	if err != nil {
		return &WriteError{Key: key, Err: err}
	}

	tmp, err := os.CreateTemp(f.dir, ".tmp-"+key+"-")
	if err != nil {
		return &WriteError{Key: key, Err: classify(err)}
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &WriteError{Key: key, Err: classify(err)}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &WriteError{Key: key, Err: classify(err)}
	}

	f.mu.Lock()
	f.own[key] = value
	f.mu.Unlock()

	if err := os.Rename(tmpName, p); err != nil {
		os.Remove(tmpName)
		return &WriteError{Key: key, Err: classify(err)}
	}
	return nil
}

func (f *File) Remove(_ context.Context, key string) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.own[key] = removedMarker
	f.mu.Unlock()

	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// classify maps a full disk onto ErrQuotaExceeded.
func classify(err error) error {
	if errors.Is(err, syscall.ENOSPC) {
		return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
	}
	return err
}

// Watch reports writes to the store's directory made by other processes.
// Bursts of filesystem events for one key are coalesced.
func (f *File) Watch(ctx context.Context) (<-chan Change, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(f.dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", f.dir, err)
	}

	out := make(chan Change, 16)
	go f.run(ctx, w, out)
	return out, nil
}

func (f *File) run(ctx context.Context, w *fsnotify.Watcher, out chan<- Change) {
	defer close(out)
	defer w.Close()

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(f.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			key, ok := keyFromPath(ev.Name)
			if !ok {
				continue
			}
			pending[key] = time.Now()

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			f.log.Warn("watch error", "error", err)

		case now := <-ticker.C:
			for key, at := range pending {
				if now.Sub(at) < f.debounce {
					continue
				}
				delete(pending, key)
				if f.isOwnWrite(key) {
					continue
				}
				select {
				case out <- Change{Key: key}:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

// isOwnWrite reports whether the file currently holds what this process
// last wrote for key.
func (f *File) isOwnWrite(key string) bool {
	f.mu.Lock()
	own, ok := f.own[key]
	f.mu.Unlock()
	if !ok {
		return false
	}
	cur, present, err := f.Get(context.Background(), key)
	if err != nil {
		return false
	}
	if !present {
		return own == removedMarker
	}
	return cur == own
}

func keyFromPath(name string) (string, bool) {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") || !strings.HasSuffix(base, fileSuffix) {
		return "", false
	}
	return strings.TrimSuffix(base, fileSuffix), true
}
