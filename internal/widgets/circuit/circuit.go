// Package circuit checks whether a grid of placed components forms a
// working circuit.
package circuit

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/naturepower/internal/widgets"
)

// Default grid size.
const (
	Rows = 6
	Cols = 8
)

// Component types.
const (
	Battery = "battery"
	Wire    = "wire"
	Lamp    = "lamp"
	Switch  = "switch"
)

// Feedback messages.
const (
	MsgNoBattery    = "Add a battery to power your circuit"
	MsgNoLamp       = "Add a lamp to see if your circuit works"
	MsgLit          = "It works! The lamp is lit."
	MsgSwitchOpen   = "Circuit complete but switch is open. Close the switch to light the lamp."
	MsgDisconnected = "Connect the components to complete the circuit"
)

var (
	ErrOutOfBounds = errors.New("component outside the grid")
	ErrCellTaken   = errors.New("cell already occupied")
	ErrUnknownType = errors.New("unknown component type")
	ErrNotWorking  = errors.New("circuit is not working")
)

// Part is one placed component.
type Part struct {
	Row  int    `json:"row" validate:"gte=0"`
	Col  int    `json:"col" validate:"gte=0"`
	Type string `json:"type" validate:"required,oneof=battery wire lamp switch"`
}

// Board is a grid with placed parts. A switch starts closed.
type Board struct {
	Rows         int    `json:"rows"`
	Cols         int    `json:"cols"`
	Parts        []Part `json:"parts" validate:"dive"`
	SwitchClosed bool   `json:"switchClosed"`
}

// NewBoard returns an empty board of the default size with the switch
// closed.
func NewBoard() *Board {
	return &Board{Rows: Rows, Cols: Cols, SwitchClosed: true}
}

func (b *Board) dims() (int, int) {
	rows, cols := b.Rows, b.Cols
	if rows <= 0 {
		rows = Rows
	}
	if cols <= 0 {
		cols = Cols
	}
	return rows, cols
}

// Place puts a component on an empty cell.
func (b *Board) Place(row, col int, typ string) error {
	if !validType(typ) {
		return fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}
	rows, cols := b.dims()
	if row < 0 || row >= rows || col < 0 || col >= cols {
		return fmt.Errorf("%w: %d,%d", ErrOutOfBounds, row, col)
	}
	if _, ok := b.at(row, col); ok {
		return fmt.Errorf("%w: %d,%d", ErrCellTaken, row, col)
	}
	b.Parts = append(b.Parts, Part{Row: row, Col: col, Type: typ})
	return nil
}

// Remove clears a cell. Empty cells are ignored.
func (b *Board) Remove(row, col int) {
	b.Parts = slices.DeleteFunc(b.Parts, func(p Part) bool { return p.Row == row && p.Col == col })
}

// Toggle flips the switch.
func (b *Board) Toggle() { b.SwitchClosed = !b.SwitchClosed }

func (b *Board) at(row, col int) (Part, bool) {
	for _, p := range b.Parts {
		if p.Row == row && p.Col == col {
			return p, true
		}
	}
	return Part{}, false
}

func (b *Board) find(typ string) (Part, bool) {
	for _, p := range b.Parts {
		if p.Type == typ {
			return p, true
		}
	}
	return Part{}, false
}

// Result is the evaluation of a board.
type Result struct {
	Working   bool   `json:"working"`
	Complete  bool   `json:"complete"`
	Message   string `json:"message"`
	Connected []Part `json:"connected,omitempty"`
}

// Evaluate walks from the battery to the lamp through occupied cells,
// moving up, down, left or right.
func (b *Board) Evaluate() Result {
	battery, ok := b.find(Battery)
	if !ok {
		return Result{Message: MsgNoBattery}
	}
	lamp, ok := b.find(Lamp)
	if !ok {
		return Result{Message: MsgNoLamp}
	}

	connected, found := b.path(battery, lamp)
	if !found {
		return Result{Message: MsgDisconnected}
	}
	if _, hasSwitch := b.find(Switch); hasSwitch && !b.SwitchClosed {
		return Result{Complete: true, Message: MsgSwitchOpen, Connected: connected}
	}
	return Result{Working: true, Complete: true, Message: MsgLit, Connected: connected}
}

type cell struct{ row, col int }

func (b *Board) path(from, to Part) ([]Part, bool) {
	rows, cols := b.dims()
	start := cell{from.Row, from.Col}
	end := cell{to.Row, to.Col}
	if start == end {
		return []Part{from}, true
	}

	visited := map[cell]bool{start: true}
	queue := []cell{start}
	connected := []Part{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
			n := cell{cur.row + d[0], cur.col + d[1]}
			if n.row < 0 || n.row >= rows || n.col < 0 || n.col >= cols {
				continue
			}
			if n == end {
				return append(connected, to), true
			}
			p, occupied := b.at(n.row, n.col)
			if !occupied || visited[n] {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
			connected = append(connected, p)
		}
	}
	return nil, false
}

// Finding builds the journal entry for a working circuit.
func (b *Board) Finding(lessonID string) (widgets.Finding, error) {
	if !b.Evaluate().Working {
		return widgets.Finding{}, ErrNotWorking
	}
	used := make([]string, 0, len(b.Parts))
	var unique []string
	for _, p := range b.Parts {
		used = append(used, p.Type)
		if !slices.Contains(unique, p.Type) {
			unique = append(unique, p.Type)
		}
	}
	return widgets.Finding{
		LessonID: lessonID,
		Title:    "Circuit Builder",
		Type:     "circuit_completion",
		Step:     "circuits_sandbox",
		Content:  fmt.Sprintf("Circuit completed successfully using %d components: %s", len(used), strings.Join(unique, ", ")),
		Data: map[string]any{
			"components_used":   used,
			"unique_components": unique,
			"total_components":  len(used),
			"switch_used":       slices.Contains(unique, Switch),
		},
		Tags: append([]string{"circuits", "completion", "electronics"}, unique...),
	}, nil
}

func validType(t string) bool {
	return t == Battery || t == Wire || t == Lamp || t == Switch
}
