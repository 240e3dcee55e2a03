package notify

import "github.com/abhisek/naturepower/internal/logging"

// LogSink writes notifications to a structured logger.
type LogSink struct {
	Log *logging.Logger
}

func (s LogSink) Toast(t Toast) {
	logging.OrNop(s.Log).Info(t.Message, "toast", t.Kind)
}

func (s LogSink) Announce(a Announcement) {
	logging.OrNop(s.Log).Debug(a.Message, "announce", a.Priority)
}

// Message is what ChanSink delivers. Exactly one field is set.
type Message struct {
	Toast        *Toast
	Announcement *Announcement
}

// ChanSink delivers notifications on a buffered channel. Messages are
// dropped when the channel is full.
type ChanSink struct {
	C chan Message
}

// NewChanSink creates a sink with the given buffer size.
func NewChanSink(size int) *ChanSink {
	if size <= 0 {
		size = 16
	}
	return &ChanSink{C: make(chan Message, size)}
}

func (s *ChanSink) Toast(t Toast) {
	select {
	case s.C <- Message{Toast: &t}:
	default:
	}
}

func (s *ChanSink) Announce(a Announcement) {
	select {
	case s.C <- Message{Announcement: &a}:
	default:
	}
}
