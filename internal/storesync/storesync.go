// Package storesync reacts to writes made by other processes sharing the
// same store. There is no locking between writers: the last write wins
// and this process simply re-reads.
package storesync

import (
	"context"
	"fmt"

	"github.com/abhisek/naturepower/internal/events"
	"github.com/abhisek/naturepower/internal/logging"
	"github.com/abhisek/naturepower/internal/store"
)

// Reloader discards state cached from an earlier failed write.
type Reloader interface {
	Reload()
}

// Syncer forwards store changes to the bus.
type Syncer struct {
	watcher store.Watcher
	bus     events.Publisher
	log     *logging.Logger
	keys    map[string][]Reloader
}

// New creates a syncer over w.
func New(w store.Watcher, bus events.Publisher, log *logging.Logger) *Syncer {
	if bus == nil {
		bus = events.Discard{}
	}
	return &Syncer{
		watcher: w,
		bus:     bus,
		log:     logging.OrNop(log).With("component", "storesync"),
		keys:    make(map[string][]Reloader),
	}
}

// Watch adds key to the set of synced keys. Each reloader is told to drop
// its cache when key changes. Call before Run.
func (s *Syncer) Watch(key string, reloaders ...Reloader) *Syncer {
	s.keys[key] = append(s.keys[key], reloaders...)
	return s
}

// Run consumes changes until ctx is done or the watcher stops.
func (s *Syncer) Run(ctx context.Context) error {
	changes, err := s.watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch store: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			// drain so the watcher goroutine can close its channel
			for range changes {
			}
			return nil
		case c, ok := <-changes:
			if !ok {
				return nil
			}
			s.apply(c)
		}
	}
}

func (s *Syncer) apply(c store.Change) {
	reloaders, ok := s.keys[c.Key]
	if !ok {
		return
	}
	for _, r := range reloaders {
		r.Reload()
	}
	s.log.Debug("store changed elsewhere", "key", c.Key)
	s.bus.Publish(events.Event{Kind: events.StorageSynced, Key: c.Key})
}

// Watcher returns kv as a Watcher when its backend supports one.
func Watcher(kv store.KV) (store.Watcher, bool) {
	w, ok := kv.(store.Watcher)
	return w, ok
}
