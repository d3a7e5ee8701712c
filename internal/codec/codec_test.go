package codec

import (
	"errors"
	"strings"
	"testing"

	"github.com/atreyapandit/gameoflife/server/internal/domain/board"
)

// patternedGrid builds a deterministic non-trivial board.
func patternedGrid() *board.Grid {
	g := board.NewGrid()
	for row := 0; row < board.Rows; row++ {
		for col := 0; col < board.Cols; col++ {
			if (row*31+col*17)%5 == 0 {
				g.Set(row, col, board.Alive)
			}
		}
	}
	return g
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	g := patternedGrid()

	decoded, err := Decode(Encode(g))
	if err != nil {
		t.Fatalf("decode of encoded board failed: %v", err)
	}
	if !g.Equal(decoded) {
		t.Errorf("round trip did not reproduce the board")
	}
}

func TestEncodeShape(t *testing.T) {
	text := Encode(board.NewGrid())

	rows := strings.Split(text, "-")
	if len(rows) != board.Rows {
		t.Fatalf("expected %d rows, got %d", board.Rows, len(rows))
	}
	for i, row := range rows {
		if cols := strings.Count(row, ",") + 1; cols != board.Cols {
			t.Fatalf("row %d has %d columns, want %d", i, cols, board.Cols)
		}
	}
	if strings.HasPrefix(text, "-") || strings.HasSuffix(text, "-") {
		t.Errorf("encoded text has a leading or trailing row separator")
	}
}

func TestDecodeRowCountMismatch(t *testing.T) {
	// The rows are also full of garbage; the row count check must fire
	// before any cell is parsed.
	text := strings.Repeat("x-", 9) + "x"

	_, err := Decode(text)
	var rowErr *RowCountError
	if !errors.As(err, &rowErr) {
		t.Fatalf("expected RowCountError, got %v", err)
	}
	if rowErr.Got != 10 {
		t.Errorf("expected reported row count 10, got %d", rowErr.Got)
	}
}

func TestDecodeColumnCountMismatch(t *testing.T) {
	g := board.NewGrid()
	rows := strings.Split(Encode(g), "-")
	rows[3] = rows[3] + ",0"     // one column too many
	rows[7] = "not,even,numbers" // later row is worse, must not be reached
	text := strings.Join(rows, "-")

	// Row 7 is also short, so it would fail its own column check; the
	// point is that row 3 is reported, not row 7's invalid characters.
	_, err := Decode(text)
	var colErr *ColumnCountError
	if !errors.As(err, &colErr) {
		t.Fatalf("expected ColumnCountError, got %v", err)
	}
	if colErr.Row != 3 {
		t.Errorf("expected failure at row 3, got row %d", colErr.Row)
	}
}

func TestDecodeInvalidCharacter(t *testing.T) {
	g := board.NewGrid()
	rows := strings.Split(Encode(g), "-")

	for _, bad := range []string{"2", "x", " 1", ""} {
		cells := strings.Split(rows[12], ",")
		cells[34] = bad
		mutated := make([]string, len(rows))
		copy(mutated, rows)
		mutated[12] = strings.Join(cells, ",")

		_, err := Decode(strings.Join(mutated, "-"))
		var charErr *InvalidCharacterError
		if !errors.As(err, &charErr) {
			t.Fatalf("token %q: expected InvalidCharacterError, got %v", bad, err)
		}
		if charErr.Row != 12 || charErr.Col != 34 {
			t.Errorf("token %q: expected location (12,34), got (%d,%d)", bad, charErr.Row, charErr.Col)
		}
	}
}

func TestDecodeNeverReturnsPartialGrid(t *testing.T) {
	g := board.NewGrid()
	rows := strings.Split(Encode(g), "-")
	cells := strings.Split(rows[50], ",")
	cells[0] = "9"
	rows[50] = strings.Join(cells, ",")

	decoded, err := Decode(strings.Join(rows, "-"))
	if err == nil {
		t.Fatalf("expected decode error")
	}
	if decoded != nil {
		t.Errorf("failed decode must not return a grid")
	}
}
