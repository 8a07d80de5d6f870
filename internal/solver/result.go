package solver

import (
	"fmt"
	"time"

	"github.com/vovakirdan/lite2048/internal/game"
)

// Result is the output of a solve: the value table at time 0 and one policy
// table per time step. Policy[t][s] is the optimal action at elapsed time t
// from state s.
//
// A Result is read-only once returned and may be shared between sessions.
type Result struct {
	Codec       *game.Codec
	WinExponent int
	Horizon     int
	Values      []float64
	Policy      [][]game.Action
	Elapsed     time.Duration
}

// Action returns the optimal action at time t from state id.
// Past the horizon there is nothing left to gain and the answer is None.
func (r *Result) Action(t int, id game.StateID) game.Action {
	if t < 0 || t >= len(r.Policy) {
		return game.None
	}
	return r.Policy[t][id]
}

// Value returns the time-0 value of state id: the probability of holding a
// winning tile after Horizon optimal decisions.
func (r *Result) Value(id game.StateID) float64 {
	return r.Values[id]
}

// Lookup encodes b and returns its time-0 value and the action at time t.
func (r *Result) Lookup(t int, b game.Board) (game.StateID, game.Action, float64, error) {
	id, err := r.Codec.Encode(b)
	if err != nil {
		return 0, game.None, 0, err
	}
	return id, r.Action(t, id), r.Values[id], nil
}

// StartValue is the expected time-0 value over the first nature spawn on an
// empty board, i.e. the win probability of a fresh game.
func (r *Result) StartValue() float64 {
	empty := r.Codec.NewBoard()
	sum := 0.0
	for _, succ := range game.Successors(empty) {
		id, err := r.Codec.Encode(succ.Board)
		if err != nil {
			// The spawned tile is above WinMax and so already wins.
			sum += succ.Prob
			continue
		}
		sum += r.Values[id] * succ.Prob
	}
	return sum
}

// Summary is a one-line description for logs and the CLI.
func (r *Result) Summary() string {
	return fmt.Sprintf("%dx%d win=2^%d horizon=%d states=%d start=%.6f took=%s",
		r.Codec.Rows(), r.Codec.Cols(), r.WinExponent, r.Horizon, r.Codec.States(),
		r.StartValue(), r.Elapsed.Round(time.Millisecond))
}

// ActionCounts tallies the actions chosen at time t across all states.
func (r *Result) ActionCounts(t int) map[game.Action]int {
	counts := make(map[game.Action]int, len(game.Actions))
	if t < 0 || t >= len(r.Policy) {
		return counts
	}
	for _, a := range r.Policy[t] {
		counts[a]++
	}
	return counts
}
