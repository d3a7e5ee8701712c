package board

// Cell identifies one board coordinate.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// PendingEdits tracks the cells touched during one press-to-release
// gesture so the same cell is never flipped twice before the commit.
// It holds membership only, no cell-state data.
type PendingEdits struct {
	marks map[Cell]struct{}
}

// NewPendingEdits returns an empty gesture set.
func NewPendingEdits() *PendingEdits {
	return &PendingEdits{marks: make(map[Cell]struct{})}
}

// Mark records a cell for the current gesture. It reports whether the
// cell was newly added (false means it was already pending).
func (p *PendingEdits) Mark(row, col int) bool {
	c := Cell{Row: row, Col: col}
	if _, ok := p.marks[c]; ok {
		return false
	}
	p.marks[c] = struct{}{}
	return true
}

// Has reports whether a cell is pending.
func (p *PendingEdits) Has(row, col int) bool {
	_, ok := p.marks[Cell{Row: row, Col: col}]
	return ok
}

// Len returns the number of pending cells.
func (p *PendingEdits) Len() int {
	return len(p.marks)
}

// Cells returns the pending coordinates in unspecified order.
func (p *PendingEdits) Cells() []Cell {
	cells := make([]Cell, 0, len(p.marks))
	for c := range p.marks {
		cells = append(cells, c)
	}
	return cells
}

// Commit flips (XOR) every pending cell's state in g and clears the set.
func (p *PendingEdits) Commit(g *Grid) {
	for c := range p.marks {
		if g.Get(c.Row, c.Col) == Alive {
			g.Set(c.Row, c.Col, Dead)
		} else {
			g.Set(c.Row, c.Col, Alive)
		}
	}
	p.Clear()
}

// Clear abandons the gesture without touching the grid.
func (p *PendingEdits) Clear() {
	clear(p.marks)
}
