// Package session drives a live board against a solved policy: nature spawns
// a tile, the policy suggests a move, the player answers.
package session

import (
	"errors"
	"math/rand"

	"github.com/vovakirdan/lite2048/internal/game"
	"github.com/vovakirdan/lite2048/internal/solver"
)

// ErrOver is returned by Play once the session has ended.
var ErrOver = errors.New("session: game is over")

// Reason tells why a session ended.
type Reason uint8

const (
	ReasonNone       Reason = iota
	ReasonBoardFull         // nature found no empty cell
	ReasonOffTable          // a tile grew past the codec bound
	ReasonPolicyStop        // the policy suggests None, including past the horizon
)

func (r Reason) String() string {
	switch r {
	case ReasonBoardFull:
		return "board full"
	case ReasonOffTable:
		return "off table"
	case ReasonPolicyStop:
		return "policy stop"
	default:
		return "playing"
	}
}

// Session is one game played against a solved Result.
//
// The Result is only read. A Session itself is not safe for concurrent use.
type Session struct {
	res *solver.Result
	rng *rand.Rand

	board      game.Board
	id         game.StateID
	suggestion game.Action

	elapsed  int
	followed int
	rejected int

	over   bool
	reason Reason
}

// New creates a session and starts its first game.
// rng is seeded once by the caller and owned by the session from now on.
func New(res *solver.Result, rng *rand.Rand) *Session {
	s := &Session{res: res, rng: rng}
	s.Start()
	return s
}

// Start clears the board and runs the first nature turn.
func (s *Session) Start() {
	s.board = s.res.Codec.NewBoard()
	s.id = 0
	s.suggestion = game.None
	s.elapsed = 0
	s.followed = 0
	s.rejected = 0
	s.over = false
	s.reason = ReasonNone

	s.natureTurn()
}

// Play applies a player move. It returns false without advancing time when
// the move is None or moves nothing; the player is expected to try again.
func (s *Session) Play(a game.Action) (bool, error) {
	if s.over {
		return false, ErrOver
	}
	if !game.ApplyInPlace(&s.board, a) {
		s.rejected++
		return false, nil
	}

	if a == s.suggestion {
		s.followed++
	}
	s.elapsed++
	s.natureTurn()
	return true, nil
}

// PlaySuggested plays the move the policy suggests.
func (s *Session) PlaySuggested() (bool, error) {
	return s.Play(s.suggestion)
}

// Over reports whether the session has ended.
func (s *Session) Over() bool { return s.over }

// Board returns a copy of the current board.
func (s *Session) Board() game.Board { return s.board.Clone() }

func (s *Session) natureTurn() {
	if !game.Sample(&s.board, s.rng) {
		s.finish(ReasonBoardFull)
		return
	}
	s.observe()
}

// observe encodes the board and looks up the suggestion for the current time.
func (s *Session) observe() {
	id, err := s.res.Codec.Encode(s.board)
	if err != nil {
		s.finish(ReasonOffTable)
		return
	}

	s.id = id
	s.suggestion = s.res.Action(s.elapsed, id)
	if s.suggestion == game.None {
		s.finish(ReasonPolicyStop)
	}
}

func (s *Session) finish(r Reason) {
	s.over = true
	s.reason = r
	s.suggestion = game.None
}
