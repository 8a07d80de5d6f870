package game

import (
	"math/rand"
	"testing"
)

func TestApplyUpFusion(t *testing.T) {
	tests := []struct {
		name     string
		input    [][]int
		expected [][]int
		legal    bool
	}{
		{
			name:     "single row has nothing to compact upward",
			input:    [][]int{{0, 0, 3, 2}},
			expected: [][]int{{0, 0, 3, 2}},
			legal:    false,
		},
		{
			name: "gaps and pairs",
			input: [][]int{
				{0, 0, 3, 2},
				{0, 1, 1, 2},
				{3, 1, 1, 4},
			},
			expected: [][]int{
				{3, 2, 3, 3},
				{0, 0, 2, 4},
				{0, 0, 0, 0},
			},
			legal: true,
		},
		{
			name: "five by five",
			input: [][]int{
				{0, 0, 3, 3, 2},
				{0, 1, 1, 1, 2},
				{3, 1, 1, 1, 4},
				{4, 0, 0, 3, 5},
				{3, 4, 4, 4, 4},
			},
			expected: [][]int{
				{3, 2, 3, 3, 3},
				{4, 4, 2, 2, 4},
				{3, 0, 4, 3, 5},
				{0, 0, 0, 4, 4},
				{0, 0, 0, 0, 0},
			},
			legal: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := MustBoard(tt.input)
			want := MustBoard(tt.expected)

			got, legal := Apply(board, Up)
			if !got.Equal(want) {
				t.Errorf("Apply(Up): got\n%s\nwant\n%s", got.Literal(), want.Literal())
			}
			if legal != tt.legal {
				t.Errorf("Apply(Up) legal = %v, want %v", legal, tt.legal)
			}
		})
	}
}

func TestApplyDirections(t *testing.T) {
	board := MustBoard([][]int{
		{1, 1, 0, 0},
		{2, 0, 2, 0},
		{1, 1, 1, 1},
		{0, 0, 0, 1},
	})

	tests := []struct {
		dir      Action
		expected [][]int
	}{
		{
			dir: Left,
			expected: [][]int{
				{2, 0, 0, 0},
				{3, 0, 0, 0},
				{2, 2, 0, 0},
				{1, 0, 0, 0},
			},
		},
		{
			dir: Right,
			expected: [][]int{
				{0, 0, 0, 2},
				{0, 0, 0, 3},
				{0, 0, 2, 2},
				{0, 0, 0, 1},
			},
		},
		{
			dir: Up,
			expected: [][]int{
				{1, 2, 2, 2},
				{2, 0, 1, 0},
				{1, 0, 0, 0},
				{0, 0, 0, 0},
			},
		},
		{
			dir: Down,
			expected: [][]int{
				{0, 0, 0, 0},
				{1, 0, 0, 0},
				{2, 0, 2, 0},
				{1, 2, 1, 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			got, legal := Apply(board, tt.dir)
			want := MustBoard(tt.expected)
			if !got.Equal(want) {
				t.Errorf("Apply(%v): got\n%s\nwant\n%s", tt.dir, got.Literal(), want.Literal())
			}
			if !legal {
				t.Errorf("Apply(%v) should be legal", tt.dir)
			}
		})
	}
}

func TestTripleMergeFusesNearestPair(t *testing.T) {
	board := MustBoard([][]int{
		{0, 1, 0, 0},
		{0, 1, 0, 0},
		{0, 1, 0, 0},
	})
	want := MustBoard([][]int{
		{0, 2, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 0, 0},
	})

	got, legal := Apply(board, Up)
	if !legal {
		t.Fatal("triple merge should be legal")
	}
	if !got.Equal(want) {
		t.Errorf("triple merge: got\n%s\nwant\n%s", got.Literal(), want.Literal())
	}

	got, _ = Apply(board, Down)
	want = MustBoard([][]int{
		{0, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 2, 0, 0},
	})
	if !got.Equal(want) {
		t.Errorf("triple merge down: got\n%s\nwant\n%s", got.Literal(), want.Literal())
	}
}

func TestIllegalMoves(t *testing.T) {
	tests := []struct {
		name  string
		input [][]int
		dir   Action
	}{
		{
			name: "already packed up",
			input: [][]int{
				{3, 4, 4, 4},
				{1, 3, 2, 1},
				{2, 0, 1, 0},
				{0, 0, 0, 0},
			},
			dir: Up,
		},
		{
			name:  "full rows without pairs left",
			input: [][]int{{2, 1, 3}, {2, 3, 1}},
			dir:   Left,
		},
		{
			name:  "full columns without pairs down",
			input: [][]int{{2, 1, 3}, {3, 3, 1}},
			dir:   Down,
		},
		{
			name:  "empty board",
			input: [][]int{{0, 0}, {0, 0}},
			dir:   Right,
		},
		{
			name:  "none never moves",
			input: [][]int{{1, 1}, {0, 0}},
			dir:   None,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := MustBoard(tt.input)
			got, legal := Apply(board, tt.dir)
			if legal {
				t.Errorf("Apply(%v) should be illegal", tt.dir)
			}
			if !got.Equal(board) {
				t.Errorf("illegal move changed the board:\n%s", got.Literal())
			}
		})
	}
}

func TestApplyDoesNotModifyInput(t *testing.T) {
	board := MustBoard([][]int{{1, 1, 2}})
	before := board.Clone()

	Apply(board, Left)

	if !board.Equal(before) {
		t.Errorf("Apply modified its input: %s", board.Literal())
	}
}

func TestMoveNeverLowersSurvivingTiles(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for range 2000 {
		board := NewBoard(3, 3)
		for i := range board.cells {
			board.cells[i] = uint8(rng.Intn(5))
		}
		before := board.MaxExponent()

		for _, d := range Directions {
			got, legal := Apply(board, d)
			if got.MaxExponent() < before {
				t.Fatalf("Apply(%v) lowered max exponent %d -> %d on\n%s", d, before, got.MaxExponent(), board.Literal())
			}
			if !legal && !got.Equal(board) {
				t.Fatalf("illegal Apply(%v) changed\n%s", d, board.Literal())
			}
			if legal && got.Equal(board) {
				t.Fatalf("legal Apply(%v) left board unchanged\n%s", d, board.Literal())
			}
			if tileSum(got) != tileSum(board) {
				t.Fatalf("Apply(%v) changed the tile total on\n%s", d, board.Literal())
			}
		}
	}
}

func TestCanMove(t *testing.T) {
	stuck := MustBoard([][]int{{1, 2}, {2, 1}})
	if CanMove(stuck) {
		t.Error("checkerboard without gaps should have no legal move")
	}

	open := MustBoard([][]int{{1, 0}, {2, 1}})
	if !CanMove(open) {
		t.Error("board with a gap should have a legal move")
	}
}

func TestParseAction(t *testing.T) {
	tests := map[string]Action{
		"w":     Up,
		"a":     Left,
		"s":     Down,
		"d":     Right,
		"Up":    Up,
		"right": Right,
		"x":     None,
		"":      None,
	}
	for in, want := range tests {
		if got := ParseAction(in); got != want {
			t.Errorf("ParseAction(%q) = %v, want %v", in, got, want)
		}
	}
}

// tileSum is the total displayed value on the board.
func tileSum(b Board) int {
	sum := 0
	for _, v := range b.cells {
		sum += TileValue(v)
	}
	return sum
}
