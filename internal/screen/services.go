package screen

import (
	"github.com/abhisek/naturepower/internal/badges"
	"github.com/abhisek/naturepower/internal/catalog"
	"github.com/abhisek/naturepower/internal/events"
	"github.com/abhisek/naturepower/internal/journal"
	"github.com/abhisek/naturepower/internal/learn"
	"github.com/abhisek/naturepower/internal/prefs"
	"github.com/abhisek/naturepower/internal/progress"
)

// Services are the learner services screens read from and act on.
type Services struct {
	Catalog  *catalog.Catalog
	Progress *progress.Service
	Journal  *journal.Service
	Badges   *badges.Service
	Prefs    *prefs.Service
	Learn    *learn.Service
}

// DataChangedMsg is delivered to every screen on the stack when stored
// learner data changes, locally or from another process.
type DataChangedMsg struct {
	Event events.Event
}
