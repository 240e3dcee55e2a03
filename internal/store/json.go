package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/naturepower/internal/logging"
)

// ReadJSON loads key into v. It reports false when the key is missing,
// unreadable or holds malformed JSON; the latter two are logged, never
// returned.
func ReadJSON(ctx context.Context, kv KV, key string, v any, log *logging.Logger) bool {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		logging.OrNop(log).Warn("read persisted state", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		logging.OrNop(log).Warn("discarding malformed persisted state", "key", key, "error", err)
		return false
	}
	return true
}

// WriteJSON marshals v and stores it under key.
func WriteJSON(ctx context.Context, kv KV, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return kv.Set(ctx, key, string(data))
}
