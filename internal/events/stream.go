package events

import (
	"context"
	"sync"
)

// Stream subscribes to the bus and returns a buffered channel of events
// that is closed when ctx is done. When the consumer falls behind, events
// are dropped rather than blocking publishers.
func (b *Bus) Stream(ctx context.Context, size int, kinds ...Kind) <-chan Event {
	if size <= 0 {
		size = 32
	}
	ch := make(chan Event, size)

	var (
		mu     sync.Mutex
		closed bool
	)
	unsubscribe := b.Subscribe(func(e Event) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- e:
		default:
			b.log.Debug("dropping event for slow stream", "kind", e.Kind)
		}
	}, kinds...)

	go func() {
		<-ctx.Done()
		unsubscribe()
		mu.Lock()
		closed = true
		close(ch)
		mu.Unlock()
	}()
	return ch
}
