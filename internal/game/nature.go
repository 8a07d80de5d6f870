package game

import "math/rand"

// SpawnExponents are the exponents nature may place: a 2 or a 4, equally likely.
var SpawnExponents = [2]uint8{1, 2}

// Coord addresses a cell.
type Coord struct {
	Row int
	Col int
}

// Successor is one outcome of a nature move.
type Successor struct {
	Board Board
	Cell  Coord
	Exp   uint8
	Prob  float64
}

// EmptyCells returns the coordinates of all empty cells in row-major order.
func EmptyCells(b Board) []Coord {
	var cells []Coord
	for r := range b.rows {
		for c := range b.cols {
			if b.At(r, c) == 0 {
				cells = append(cells, Coord{Row: r, Col: c})
			}
		}
	}
	return cells
}

// AppendEmptyIndices appends the flat indices of empty cells to dst.
func AppendEmptyIndices(b Board, dst []int) []int {
	for i, v := range b.cells {
		if v == 0 {
			dst = append(dst, i)
		}
	}
	return dst
}

// SpawnProbability is the probability of each (cell, exponent) outcome when
// empty cells are free.
func SpawnProbability(empty int) float64 {
	if empty == 0 {
		return 0
	}
	return 1.0 / float64(len(SpawnExponents)*empty)
}

// Successors enumerates every nature outcome from b with its probability.
// A full board has no successors.
func Successors(b Board) []Successor {
	empty := EmptyCells(b)
	prob := SpawnProbability(len(empty))

	out := make([]Successor, 0, len(empty)*len(SpawnExponents))
	for _, cell := range empty {
		for _, exp := range SpawnExponents {
			next := b.Clone()
			next.Set(cell.Row, cell.Col, exp)
			out = append(out, Successor{Board: next, Cell: cell, Exp: exp, Prob: prob})
		}
	}
	return out
}

// Sample places a random tile on b, picking an empty cell uniformly and then
// one of SpawnExponents uniformly. Returns false and leaves b untouched when
// the board is full.
func Sample(b *Board, rng *rand.Rand) bool {
	empty := EmptyCells(*b)
	if len(empty) == 0 {
		return false
	}

	cell := empty[rng.Intn(len(empty))]
	exp := SpawnExponents[rng.Intn(len(SpawnExponents))]
	b.Set(cell.Row, cell.Col, exp)
	return true
}
