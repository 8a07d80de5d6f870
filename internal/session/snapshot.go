package session

import "github.com/vovakirdan/lite2048/internal/game"

// Snapshot is a read-only view of a session for display and history.
type Snapshot struct {
	Grid       [][]int // tile exponents, 0 = empty
	StateID    game.StateID
	Elapsed    int // legal moves played, also the policy time index
	Horizon    int
	Suggestion game.Action
	Value      float64 // time-0 win probability of the current state
	Followed   int     // moves that matched the suggestion
	Rejected   int     // None or illegal inputs
	MaxTile    int
	Won        bool
	Over       bool
	Reason     Reason
}

// Snapshot captures the current session state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Grid:       s.board.Grid(),
		StateID:    s.id,
		Elapsed:    s.elapsed,
		Horizon:    s.res.Horizon,
		Suggestion: s.suggestion,
		Followed:   s.followed,
		Rejected:   s.rejected,
		MaxTile:    game.TileValue(uint8(s.board.MaxExponent())),
		Won:        game.HasWon(s.board, s.res.WinExponent),
		Over:       s.over,
		Reason:     s.reason,
	}

	if s.reason == ReasonOffTable {
		// above the codec bound means above the win exponent
		snap.Value = 1
	} else {
		snap.Value = s.res.Value(s.id)
	}
	return snap
}
