package game

import (
	"fmt"
	"strings"
	"sync"
)

// Action is a player choice. The order of the constants is the solver's
// tie-break order: the first maximal action wins.
type Action uint8

const (
	Up Action = iota
	Down
	Left
	Right
	None
)

// Directions lists the four moving actions in tie-break order.
var Directions = [4]Action{Up, Down, Left, Right}

// Actions lists every action in tie-break order.
var Actions = [5]Action{Up, Down, Left, Right, None}

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case Up:
		return "Up"
	case Down:
		return "Down"
	case Left:
		return "Left"
	case Right:
		return "Right"
	case None:
		return "None"
	default:
		return "Unknown"
	}
}

// IsDirection reports whether a moves tiles.
func (a Action) IsDirection() bool {
	return a <= Right
}

// ParseAction maps a name or a wasd letter to an action.
// Anything unrecognised is None.
func ParseAction(s string) Action {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "w":
		return Up
	case "down", "s":
		return Down
	case "left", "a":
		return Left
	case "right", "d":
		return Right
	default:
		return None
	}
}

// Apply returns the board after the player move and whether the move was legal.
// The input board is not modified. An illegal move returns an equal board.
func Apply(b Board, a Action) (Board, bool) {
	out := b.Clone()
	legal := ApplyInPlace(&out, a)
	return out, legal
}

// ApplyInPlace performs the player move on b.
//
// The caller must own b exclusively for the duration of the call. When the
// move is illegal b is left unchanged.
func ApplyInPlace(b *Board, a Action) bool {
	if !a.IsDirection() {
		return false
	}

	legal := false
	for _, line := range linesFor(b.rows, b.cols, a) {
		if compactLine(b.cells, line) {
			legal = true
		}
	}
	return legal
}

// CanMove reports whether any direction is legal on b.
func CanMove(b Board) bool {
	scratch := b.Clone()
	for _, d := range Directions {
		scratch.CopyFrom(b)
		if ApplyInPlace(&scratch, d) {
			return true
		}
	}
	return false
}

// compactLine compacts one row or column toward line[0].
//
// line holds the flat cell indices ordered from the target edge outward.
// A tile fuses at most once per move: after a fusion prev is cleared, so with
// three equal tiles the two nearest the edge fuse and the third stays.
func compactLine(cells []uint8, line []int) bool {
	n := len(line)
	legal := false

	var prev uint8
	prevPos := -1
	i := 0
	collapsed := 0

	for i < n && collapsed < n {
		v := cells[line[i]]
		switch {
		case v == 0:
			if collapse(cells, line, i) {
				legal = true
			}
			collapsed++
		case v == prev:
			cells[line[prevPos]]++
			collapse(cells, line, i)
			prev = 0
			legal = true
		default:
			prev = v
			prevPos = i
			i++
		}
	}
	return legal
}

// collapse removes position i from the line, shifting every later cell one
// step toward the edge and emptying the far end.
// Returns true if a non-empty tile moved.
func collapse(cells []uint8, line []int, i int) bool {
	moved := false
	last := len(line) - 1
	for k := i; k < last; k++ {
		v := cells[line[k+1]]
		cells[line[k]] = v
		if v != 0 {
			moved = true
		}
	}
	cells[line[last]] = 0
	return moved
}

type lineKey struct {
	rows, cols int
	dir        Action
}

var lineCache sync.Map // lineKey -> [][]int

// linesFor returns the lines scanned by a move in direction dir, each ordered
// from the target edge outward.
func linesFor(rows, cols int, dir Action) [][]int {
	key := lineKey{rows: rows, cols: cols, dir: dir}
	if cached, ok := lineCache.Load(key); ok {
		return cached.([][]int)
	}

	var lines [][]int
	switch dir {
	case Up:
		for c := range cols {
			line := make([]int, rows)
			for r := range rows {
				line[r] = r*cols + c
			}
			lines = append(lines, line)
		}
	case Down:
		for c := range cols {
			line := make([]int, rows)
			for r := range rows {
				line[r] = (rows-1-r)*cols + c
			}
			lines = append(lines, line)
		}
	case Left:
		for r := range rows {
			line := make([]int, cols)
			for c := range cols {
				line[c] = r*cols + c
			}
			lines = append(lines, line)
		}
	case Right:
		for r := range rows {
			line := make([]int, cols)
			for c := range cols {
				line[c] = r*cols + (cols - 1 - c)
			}
			lines = append(lines, line)
		}
	default:
		panic(fmt.Sprintf("game: no lines for action %v", dir))
	}

	actual, _ := lineCache.LoadOrStore(key, lines)
	return actual.([][]int)
}
