// Package codec encodes boards to the delimited save-file text and
// decodes them back. Rows are joined by "-", cells within a row by ",",
// and cell values are the literals "0" and "1". Decoding is
// all-or-nothing: a partially valid text never yields a grid.
package codec

import (
	"fmt"
	"strings"

	"github.com/atreyapandit/gameoflife/server/internal/domain/board"
)

const (
	rowSeparator = "-"
	colSeparator = ","
)

// RowCountError reports a text whose row count is not board.Rows.
type RowCountError struct {
	Got int
}

func (e *RowCountError) Error() string {
	return fmt.Sprintf("board text has %d rows, want %d", e.Got, board.Rows)
}

// ColumnCountError reports a row whose field count is not board.Cols.
type ColumnCountError struct {
	Row int
	Got int
}

func (e *ColumnCountError) Error() string {
	return fmt.Sprintf("row %d has %d columns, want %d", e.Row, e.Got, board.Cols)
}

// InvalidCharacterError reports a cell token that is neither "0" nor "1".
type InvalidCharacterError struct {
	Row   int
	Col   int
	Token string
}

func (e *InvalidCharacterError) Error() string {
	return fmt.Sprintf("invalid character %q at cell (%d,%d)", e.Token, e.Row, e.Col)
}

// Encode renders g as delimited text with no leading or trailing
// separators on either axis.
func Encode(g *board.Grid) string {
	var b strings.Builder
	b.Grow(board.Rows * board.Cols * 2)
	for row := 0; row < board.Rows; row++ {
		if row > 0 {
			b.WriteString(rowSeparator)
		}
		for col := 0; col < board.Cols; col++ {
			if col > 0 {
				b.WriteString(colSeparator)
			}
			if g.Get(row, col) == board.Alive {
				b.WriteByte('1')
			} else {
				b.WriteByte('0')
			}
		}
	}
	return b.String()
}

// Decode parses delimited text into a grid. Validation order: the row
// count first, then every row's column count, and only after all rows
// pass does per-cell parsing begin. The first failure aborts the whole
// decode with a typed error and a nil grid.
func Decode(text string) (*board.Grid, error) {
	rows := strings.Split(text, rowSeparator)
	if len(rows) != board.Rows {
		return nil, &RowCountError{Got: len(rows)}
	}

	fields := make([][]string, len(rows))
	for i, row := range rows {
		fields[i] = strings.Split(row, colSeparator)
		if len(fields[i]) != board.Cols {
			return nil, &ColumnCountError{Row: i, Got: len(fields[i])}
		}
	}

	g := board.NewGrid()
	for row, cells := range fields {
		for col, token := range cells {
			switch token {
			case "0":
				// already Dead
			case "1":
				g.Set(row, col, board.Alive)
			default:
				return nil, &InvalidCharacterError{Row: row, Col: col, Token: token}
			}
		}
	}
	return g, nil
}
