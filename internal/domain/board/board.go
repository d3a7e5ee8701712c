// Package board defines the domain entities for the life board.
// This package is PURE and must NOT import any infrastructure packages.
package board

import "fmt"

// State is the value of a single cell. Exactly two states exist.
type State uint8

const (
	Dead  State = 0
	Alive State = 1
)

// Rows and Cols are fixed for the lifetime of every Grid.
// The reference board is 80x80.
const (
	Rows = 80
	Cols = 80
)

// Grid is a row-major matrix of cell states with fixed dimensions.
type Grid struct {
	cells []State
}

// NewGrid returns an all-Dead grid.
func NewGrid() *Grid {
	return &Grid{cells: make([]State, Rows*Cols)}
}

// index converts (row, col) to the backing slice offset.
// Out-of-range coordinates are a contract violation, not a runtime error.
func (g *Grid) index(row, col int) int {
	if row < 0 || row >= Rows || col < 0 || col >= Cols {
		panic(fmt.Sprintf("board: cell (%d,%d) out of range for %dx%d grid", row, col, Rows, Cols))
	}
	return row*Cols + col
}

// Get returns the state of one cell.
func (g *Grid) Get(row, col int) State {
	return g.cells[g.index(row, col)]
}

// Set changes the state of one cell.
func (g *Grid) Set(row, col int, s State) {
	g.cells[g.index(row, col)] = s
}

// Clone returns an independent deep copy. Mutating the copy never
// affects the original; the backing storage is never aliased.
func (g *Grid) Clone() *Grid {
	cells := make([]State, len(g.cells))
	copy(cells, g.cells)
	return &Grid{cells: cells}
}

// Reset sets every cell to Dead.
func (g *Grid) Reset() {
	for i := range g.cells {
		g.cells[i] = Dead
	}
}

// Equal reports whether both grids hold identical cells.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// Alive returns the live-cell population.
func (g *Grid) Alive() int {
	count := 0
	for _, s := range g.cells {
		if s == Alive {
			count++
		}
	}
	return count
}
