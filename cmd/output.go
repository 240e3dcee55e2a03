package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/abhisek/naturepower/internal/logging"
	"github.com/abhisek/naturepower/internal/notify"
	"github.com/abhisek/naturepower/internal/server"
)

func newServer(addr string, c *container) *server.Server {
	return server.New(addr, c.serverDeps(), log)
}

// attachNotifier logs toasts raised by service events.
func attachNotifier(c *container, l *logging.Logger) {
	em := notify.New(notify.LogSink{Log: l}, l, notify.WithBadgeNamer(badgeNamer(c)))
	em.Attach(c.bus)
}

func badgeNamer(c *container) notify.BadgeNamer {
	return func(id string) (string, string) {
		b := c.badges.Lookup(id)
		return b.Title, b.Icon
	}
}

// consoleSink prints toasts for one-shot commands.
type consoleSink struct{ w io.Writer }

func (s consoleSink) Toast(t notify.Toast) {
	fmt.Fprintln(s.w, "✨", t.Message)
}

func (consoleSink) Announce(notify.Announcement) {}

// withConsoleToasts echoes toasts to w for the duration of a command.
func withConsoleToasts(c *container, w io.Writer) func() {
	em := notify.New(consoleSink{w: w}, log, notify.WithBadgeNamer(badgeNamer(c)))
	detach := em.Attach(c.bus)
	return func() {
		detach()
		em.Close()
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeOut writes data to path, or to w when path is empty or "-".
func writeOut(w io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s (%d bytes)\n", path, len(data))
	return nil
}
