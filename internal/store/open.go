package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/abhisek/naturepower/internal/logging"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Backend     string
	Dir         string // data directory for file and sqlite backends
	QuotaBytes  int    // memory backend only
	RedisAddr   string
	RedisPrefix string
}

// Open constructs the configured backend.
func Open(ctx context.Context, opts Options, log *logging.Logger) (KV, error) {
	switch opts.Backend {
	case BackendMemory:
		return NewMemory(opts.QuotaBytes), nil
	case "", BackendFile:
		dir, err := resolveDir(opts.Dir)
		if err != nil {
			return nil, err
		}
		return OpenFile(dir, log)
	case BackendSQLite:
		dir, err := resolveDir(opts.Dir)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		return OpenSQLite(filepath.Join(dir, "naturepower.db"))
	case BackendRedis:
		return OpenRedis(ctx, opts.RedisAddr, opts.RedisPrefix, log)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}

func resolveDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	return DefaultDataDir()
}

// DefaultDataDir resolves the data directory in priority order:
// 1. NATUREPOWER_DATA environment variable
// 2. $XDG_DATA_HOME/naturepower
// 3. ~/.local/share/naturepower
func DefaultDataDir() (string, error) {
	if p := os.Getenv("NATUREPOWER_DATA"); p != "" {
		return p, nil
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "naturepower"), nil
}
