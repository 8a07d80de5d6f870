// Package game implements the reduced 2048 model: boards of tile exponents,
// the deterministic player move, the random nature spawn, the state codec and
// the terminal reward.
package game

import (
	"fmt"
	"strconv"
	"strings"
)

// Board is a rows x cols grid of tile exponents.
// A cell value of 0 is empty, k represents a tile of 2^k.
//
// The cells slice is owned by the board. Use Clone before handing a board to
// code that mutates it.
type Board struct {
	rows  int
	cols  int
	cells []uint8
}

// NewBoard creates an empty board.
func NewBoard(rows, cols int) Board {
	return Board{
		rows:  rows,
		cols:  cols,
		cells: make([]uint8, rows*cols),
	}
}

// BoardFromRows builds a board from a row-major literal.
// All rows must have the same length and values must fit in a byte.
func BoardFromRows(rows [][]int) (Board, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return Board{}, fmt.Errorf("%w: empty board literal", ErrShape)
	}

	b := NewBoard(len(rows), len(rows[0]))
	for r, row := range rows {
		if len(row) != b.cols {
			return Board{}, fmt.Errorf("%w: row %d has %d cells, want %d", ErrShape, r, len(row), b.cols)
		}
		for c, v := range row {
			if v < 0 || v > 255 {
				return Board{}, fmt.Errorf("%w: cell (%d,%d) = %d", ErrShape, r, c, v)
			}
			b.cells[r*b.cols+c] = uint8(v)
		}
	}
	return b, nil
}

// MustBoard is BoardFromRows for literals known to be valid.
func MustBoard(rows [][]int) Board {
	b, err := BoardFromRows(rows)
	if err != nil {
		panic(err)
	}
	return b
}

// ParseBoard parses "1,0,2;0,0,3" (rows separated by ';', cells by ',').
func ParseBoard(s string) (Board, error) {
	var rows [][]int
	for _, line := range strings.Split(strings.TrimSpace(s), ";") {
		var row []int
		for _, field := range strings.Split(line, ",") {
			v, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				return Board{}, fmt.Errorf("%w: %q is not an exponent", ErrShape, field)
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	return BoardFromRows(rows)
}

// Rows returns the number of rows.
func (b Board) Rows() int {
	return b.rows
}

// Cols returns the number of columns.
func (b Board) Cols() int {
	return b.cols
}

// Len returns the number of cells.
func (b Board) Len() int {
	return len(b.cells)
}

// At returns the exponent at (r, c).
func (b Board) At(r, c int) uint8 {
	return b.cells[r*b.cols+c]
}

// Set writes the exponent at (r, c).
func (b *Board) Set(r, c int, v uint8) {
	b.cells[r*b.cols+c] = v
}

// Clone returns a deep copy.
func (b Board) Clone() Board {
	out := Board{rows: b.rows, cols: b.cols, cells: make([]uint8, len(b.cells))}
	copy(out.cells, b.cells)
	return out
}

// CopyFrom overwrites b with src. Both boards must have the same shape.
func (b *Board) CopyFrom(src Board) {
	copy(b.cells, src.cells)
}

// Clear empties every cell.
func (b *Board) Clear() {
	for i := range b.cells {
		b.cells[i] = 0
	}
}

// Equal reports whether both boards have the same shape and cells.
func (b Board) Equal(other Board) bool {
	if b.rows != other.rows || b.cols != other.cols {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// IsEmpty reports whether no tile is on the board.
func (b Board) IsEmpty() bool {
	for _, v := range b.cells {
		if v != 0 {
			return false
		}
	}
	return true
}

// MaxExponent returns the highest exponent on the board.
func (b Board) MaxExponent() int {
	maxVal := 0
	for _, v := range b.cells {
		if int(v) > maxVal {
			maxVal = int(v)
		}
	}
	return maxVal
}

// Grid returns a copy of the cells as rows of exponents.
func (b Board) Grid() [][]int {
	grid := make([][]int, b.rows)
	for r := range b.rows {
		grid[r] = make([]int, b.cols)
		for c := range b.cols {
			grid[r][c] = int(b.At(r, c))
		}
	}
	return grid
}

// String renders the board with literal tile values, blank for empty cells.
func (b Board) String() string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat("_", 5*b.cols))
	for r := range b.rows {
		sb.WriteByte('\n')
		for c := range b.cols {
			v := b.At(r, c)
			if v == 0 {
				sb.WriteString("     ")
				continue
			}
			fmt.Fprintf(&sb, "%4d ", TileValue(v))
		}
	}
	sb.WriteByte('\n')
	sb.WriteString(strings.Repeat("-", 5*b.cols))
	return sb.String()
}

// Literal renders the board as exponent rows, e.g. "{2, 1, 3},\n{3, 3, 1}".
// Handy for turning a position seen while playing into a test case.
func (b Board) Literal() string {
	lines := make([]string, b.rows)
	for r := range b.rows {
		vals := make([]string, b.cols)
		for c := range b.cols {
			vals[c] = strconv.Itoa(int(b.At(r, c)))
		}
		lines[r] = "{" + strings.Join(vals, ", ") + "}"
	}
	return strings.Join(lines, ",\n")
}

// TileValue converts an exponent to the displayed tile magnitude.
func TileValue(exp uint8) int {
	if exp == 0 {
		return 0
	}
	return 1 << exp
}
