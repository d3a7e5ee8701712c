package engine

import "github.com/atreyapandit/gameoflife/server/internal/domain/board"

// Next computes the next generation of g and returns it as a new grid.
// The input is never mutated; callers may keep referencing the pre-step
// board. Neighbors are the up-to-8 Moore cells; the board edge is finite
// and does not wrap, so corner and edge cells simply have fewer
// neighbors. All neighbor counts are read from g before any cell of the
// new generation is decided.
func Next(g *board.Grid) *board.Grid {
	next := board.NewGrid()
	for row := 0; row < board.Rows; row++ {
		for col := 0; col < board.Cols; col++ {
			n := liveNeighbors(g, row, col)
			alive := g.Get(row, col) == board.Alive
			// Survival on 2 or 3 neighbors, birth on exactly 3.
			if (alive && (n == 2 || n == 3)) || (!alive && n == 3) {
				next.Set(row, col, board.Alive)
			}
		}
	}
	return next
}

// Advance applies Next n times sequentially.
func Advance(g *board.Grid, n int) *board.Grid {
	for i := 0; i < n; i++ {
		g = Next(g)
	}
	return g
}

func liveNeighbors(g *board.Grid, row, col int) int {
	count := 0
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r, c := row+dr, col+dc
			if r < 0 || r >= board.Rows || c < 0 || c >= board.Cols {
				continue
			}
			if g.Get(r, c) == board.Alive {
				count++
			}
		}
	}
	return count
}
