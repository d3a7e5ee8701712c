package engine

import (
	"errors"

	"github.com/atreyapandit/gameoflife/server/internal/domain/board"
)

// ErrNothingToUndo is the informational outcome when the retained
// snapshot is identical to the live board. It is reported to the user,
// not treated as a failure.
var ErrNothingToUndo = errors.New("nothing to undo")

// History keeps exactly one retained snapshot next to the live grid.
// It is a two-slot structure, not a stack: undo swaps the slots, so a
// second undo returns to the pre-undo state.
type History struct {
	current  *board.Grid
	previous *board.Grid
}

// NewHistory starts with the given live grid and a matching snapshot,
// so an immediate undo reports nothing to do.
func NewHistory(g *board.Grid) *History {
	return &History{current: g, previous: g.Clone()}
}

// Current returns the live grid.
func (h *History) Current() *board.Grid {
	return h.current
}

// SetCurrent replaces the live grid. The snapshot slot is untouched;
// callers snapshot first when the replacement is undoable.
func (h *History) SetCurrent(g *board.Grid) {
	h.current = g
}

// SnapshotBefore overwrites the retained snapshot with a copy of the
// live grid. Called immediately before every undoable operation.
func (h *History) SnapshotBefore() {
	h.previous = h.current.Clone()
}

// Undo swaps the live grid and the snapshot. When both are already
// cell-for-cell identical it returns ErrNothingToUndo and mutates
// nothing.
func (h *History) Undo() error {
	if h.current.Equal(h.previous) {
		return ErrNothingToUndo
	}
	h.current, h.previous = h.previous, h.current
	return nil
}
