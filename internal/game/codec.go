package game

import (
	"fmt"
	"math"
)

// StateID is the dense index of a board in a Codec's state space.
type StateID int

// Codec maps boards whose cells are all <= winMax to state ids and back.
//
// The id of a board is sum(cell[i] * (winMax+1)^i) with i = row*cols + col,
// so cell (0,0) is the least significant digit and the empty board is id 0.
type Codec struct {
	rows    int
	cols    int
	winMax  uint8
	radix   int
	weights []int
	states  int
}

// NewCodec creates a codec for rows x cols boards with exponents in [0, winMax].
func NewCodec(rows, cols, winMax int) (*Codec, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrShape, rows, cols)
	}
	if winMax < 1 || winMax > 254 {
		return nil, fmt.Errorf("%w: win max %d outside [1,254]", ErrShape, winMax)
	}

	radix := winMax + 1
	n := rows * cols
	weights := make([]int, n)
	states := 1
	for i := range n {
		weights[i] = states
		if states > math.MaxInt/radix {
			return nil, fmt.Errorf("%w: (%d+1)^%d overflows a state id", ErrStateSpaceTooLarge, winMax, n)
		}
		states *= radix
	}

	return &Codec{
		rows:    rows,
		cols:    cols,
		winMax:  uint8(winMax),
		radix:   radix,
		weights: weights,
		states:  states,
	}, nil
}

// Rows returns the board height the codec was built for.
func (c *Codec) Rows() int { return c.rows }

// Cols returns the board width the codec was built for.
func (c *Codec) Cols() int { return c.cols }

// WinMax returns the largest encodable exponent.
func (c *Codec) WinMax() int { return int(c.winMax) }

// States returns the size of the state space, (winMax+1)^(rows*cols).
func (c *Codec) States() int { return c.states }

// Weight returns the place value of flat cell index i. Spawning exponent e
// into empty cell i of a board with id s yields id s + e*Weight(i).
func (c *Codec) Weight(i int) int { return c.weights[i] }

// NewBoard returns an empty board of the codec's shape.
func (c *Codec) NewBoard() Board {
	return NewBoard(c.rows, c.cols)
}

// Encode returns the state id of b.
// A cell above winMax yields ErrOverBound rather than a colliding id.
func (c *Codec) Encode(b Board) (StateID, error) {
	if b.rows != c.rows || b.cols != c.cols {
		return 0, fmt.Errorf("%w: board %dx%d, codec %dx%d", ErrShape, b.rows, b.cols, c.rows, c.cols)
	}

	id := 0
	for i := len(b.cells) - 1; i >= 0; i-- {
		v := b.cells[i]
		if v > c.winMax {
			return 0, fmt.Errorf("%w: cell %d = %d > %d", ErrOverBound, i, v, c.winMax)
		}
		id = id*c.radix + int(v)
	}
	return StateID(id), nil
}

// Decode returns the board with the given id.
func (c *Codec) Decode(id StateID) (Board, error) {
	if id < 0 || int(id) >= c.states {
		return Board{}, fmt.Errorf("%w: %d not in [0,%d)", ErrIDRange, id, c.states)
	}
	b := c.NewBoard()
	c.DecodeInto(id, &b)
	return b, nil
}

// DecodeInto writes the board with the given id into dst without allocating.
// dst must have the codec's shape and id must be in range.
func (c *Codec) DecodeInto(id StateID, dst *Board) {
	rest := int(id)
	for i := range dst.cells {
		dst.cells[i] = uint8(rest % c.radix)
		rest /= c.radix
	}
}
