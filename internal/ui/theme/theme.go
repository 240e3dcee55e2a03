package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette is a set of named colours. Styles are rebuilt from the active
// palette by Use.
type Palette struct {
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	Sun       color.Color
	Sky       color.Color
	Success   color.Color
	Error     color.Color
	Text      color.Color
	TextDim   color.Color
	BgDark    color.Color
	BgCard    color.Color
	Border    color.Color
}

// Nature is the default palette: leaf green, sunrise yellow and sky blue.
var Nature = Palette{
	Primary:   lipgloss.Color("#22C55E"), // Leaf green
	Secondary: lipgloss.Color("#0EA5E9"), // Sky
	Accent:    lipgloss.Color("#FB7185"), // Coral
	Sun:       lipgloss.Color("#FACC15"), // Sunrise yellow
	Sky:       lipgloss.Color("#38BDF8"),
	Success:   lipgloss.Color("#4ADE80"),
	Error:     lipgloss.Color("#F43F5E"),
	Text:      lipgloss.Color("#F8FAFC"),
	TextDim:   lipgloss.Color("#94A3B8"),
	BgDark:    lipgloss.Color("#052E16"), // Forest floor
	BgCard:    lipgloss.Color("#14532D"),
	Border:    lipgloss.Color("#166534"),
}

// HighContrast is used when the high-contrast preference is on.
var HighContrast = Palette{
	Primary:   lipgloss.Color("#FFFF00"),
	Secondary: lipgloss.Color("#00FFFF"),
	Accent:    lipgloss.Color("#FF00FF"),
	Sun:       lipgloss.Color("#FFFF00"),
	Sky:       lipgloss.Color("#00FFFF"),
	Success:   lipgloss.Color("#00FF00"),
	Error:     lipgloss.Color("#FF0000"),
	Text:      lipgloss.Color("#FFFFFF"),
	TextDim:   lipgloss.Color("#FFFFFF"),
	BgDark:    lipgloss.Color("#000000"),
	BgCard:    lipgloss.Color("#000000"),
	Border:    lipgloss.Color("#FFFFFF"),
}

// Colours of the active palette.
var (
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	Sun       color.Color
	Sky       color.Color
	Success   color.Color
	Error     color.Color
	Text      color.Color
	TextDim   color.Color
	BgDark    color.Color
	BgCard    color.Color
	Border    color.Color
)

// Typography
var (
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Hint     lipgloss.Style
)

// Layout
var (
	Header lipgloss.Style
	Footer lipgloss.Style
	Card   lipgloss.Style
)

// States
var (
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Done       lipgloss.Style
	Locked     lipgloss.Style
)

// Components
var (
	ProgressFilled lipgloss.Style
	ProgressEmpty  lipgloss.Style
	Toast          lipgloss.Style
)

func init() {
	Use(Nature)
}

// Use makes p the active palette. It is not safe to call while a frame is
// being rendered.
func Use(p Palette) {
	Primary, Secondary, Accent, Sun, Sky = p.Primary, p.Secondary, p.Accent, p.Sun, p.Sky
	Success, Error, Text, TextDim = p.Success, p.Error, p.Text, p.TextDim
	BgDark, BgCard, Border = p.BgDark, p.BgCard, p.Border

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
		Foreground(TextDim).
		Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim)

	Header = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border)

	Footer = Header

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	Selected = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	Unselected = lipgloss.NewStyle().
		Foreground(Text)

	Done = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Locked = lipgloss.NewStyle().
		Foreground(TextDim)

	ProgressFilled = lipgloss.NewStyle().
		Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
		Background(Border)

	Toast = lipgloss.NewStyle().
		Foreground(BgDark).
		Background(Sun).
		Bold(true).
		Padding(0, 1)
}

// ForContrast returns the palette for the high-contrast preference.
func ForContrast(high bool) Palette {
	if high {
		return HighContrast
	}
	return Nature
}
