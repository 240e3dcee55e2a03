package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/naturepower/internal/ui/layout"
)

// Screen is one page of the terminal app.
type Screen interface {
	// Init returns an initial command when the screen is first shown.
	Init() tea.Cmd

	// Update handles messages and returns the updated screen.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area, excluding header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider is implemented by screens with their own footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Refresher is implemented by screens that reload their data when they
// become active again.
type Refresher interface {
	Refresh() tea.Cmd
}
