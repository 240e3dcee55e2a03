package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/abhisek/naturepower/internal/logging"
)

// Redis stores keys in a Redis database under a prefix and announces each
// write on a pub/sub channel so other processes sharing the database can
// reload.
type Redis struct {
	log    *logging.Logger
	rdb    *goredis.Client
	prefix string
	origin string
}

type redisChange struct {
	Origin string `json:"origin"`
	Key    string `json:"key"`
}

// OpenRedis connects to addr and verifies the connection.
func OpenRedis(ctx context.Context, addr, prefix string, log *logging.Logger) (*Redis, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	if prefix == "" {
		prefix = "naturepower:"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Redis{
		log:    logging.OrNop(log).With("backend", "redis"),
		rdb:    rdb,
		prefix: prefix,
		origin: uuid.NewString(),
	}, nil
}

func (r *Redis) channel() string {
	return r.prefix + "changes"
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.rdb.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.rdb.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		if strings.HasPrefix(err.Error(), "OOM") {
			err = fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
		}
		return &WriteError{Key: key, Err: err}
	}
	r.announce(ctx, key)
	return nil
}

func (r *Redis) Remove(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	r.announce(ctx, key)
	return nil
}

func (r *Redis) announce(ctx context.Context, key string) {
	raw, err := json.Marshal(redisChange{Origin: r.origin, Key: key})
	if err != nil {
		return
	}
	if err := r.rdb.Publish(ctx, r.channel(), raw).Err(); err != nil {
		r.log.Warn("publish change", "key", key, "error", err)
	}
}

// Watch subscribes to change announcements from other processes.
func (r *Redis) Watch(ctx context.Context) (<-chan Change, error) {
	sub := r.rdb.Subscribe(ctx, r.channel())
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	out := make(chan Change, 16)
	go func() {
		defer close(out)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				c, ok := r.decodeChange(m.Payload)
				if !ok {
					continue
				}
				select {
				case out <- c:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// decodeChange parses an announcement, dropping malformed payloads and
// this client's own writes.
func (r *Redis) decodeChange(payload string) (Change, bool) {
	var msg redisChange
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		r.log.Warn("bad change payload", "error", err)
		return Change{}, false
	}
	if msg.Origin == r.origin || msg.Key == "" {
		return Change{}, false
	}
	return Change{Key: msg.Key}, true
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
