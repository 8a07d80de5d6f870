// Package solver computes the exact finite-horizon optimal policy of the
// reduced 2048 game by backward induction over the full state space.
package solver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/lite2048/internal/game"
)

// ErrInvalidConfig is returned for configurations the solver cannot run.
var ErrInvalidConfig = errors.New("solver: invalid config")

// illegal is the Bellman term of a direction that moves nothing. It loses
// every comparison, including against a legitimate 0.
var illegal = math.Inf(-1)

// overBoundValue is the value of a successor holding a tile above WinMax.
// Such a board already contains a winning tile, and a winning board keeps
// value 1 at every step because None preserves it.
const overBoundValue = 1.0

// MaxTableStates is the largest state space the solver allocates tables for.
// Values and every policy step are dense slices indexed by state id.
const MaxTableStates = 1<<31 - 1

// chunkSize is the number of state ids a worker processes between
// cancellation checks.
const chunkSize = 4096

// Config holds the solver parameters.
type Config struct {
	Rows        int
	Cols        int
	WinExponent int // reward is 1 once a tile reaches this exponent
	WinMax      int // largest exponent the codec represents, >= WinExponent
	Horizon     int // number of decision steps T
	Workers     int // goroutines per step, 0 = runtime.NumCPU()
}

// Validate checks the configuration.
func (c Config) Validate() error {
	switch {
	case c.Rows <= 0 || c.Cols <= 0:
		return fmt.Errorf("%w: board %dx%d", ErrInvalidConfig, c.Rows, c.Cols)
	case c.WinExponent < 1:
		return fmt.Errorf("%w: win exponent %d < 1", ErrInvalidConfig, c.WinExponent)
	case c.WinMax < c.WinExponent:
		return fmt.Errorf("%w: win max %d below win exponent %d", ErrInvalidConfig, c.WinMax, c.WinExponent)
	case c.Horizon < 0:
		return fmt.Errorf("%w: negative horizon %d", ErrInvalidConfig, c.Horizon)
	case c.Workers < 0:
		return fmt.Errorf("%w: negative workers %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}

// Progress reports a completed time step.
type Progress struct {
	Step      int // time index just finished, counting down to 0
	Remaining int // steps still to compute
	Elapsed   time.Duration
}

// Option configures a Solver.
type Option func(*Solver)

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *log.Logger) Option {
	return func(s *Solver) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithProgress registers a callback invoked after every time step.
func WithProgress(fn func(Progress)) Option {
	return func(s *Solver) {
		s.progress = fn
	}
}

// Solver runs backward induction for one configuration.
//
// A Solver is not safe for concurrent use; Solve parallelizes internally.
type Solver struct {
	cfg      Config
	codec    *game.Codec
	workers  int
	logger   *log.Logger
	progress func(Progress)
}

// New creates a solver after validating cfg and sizing the state space.
func New(cfg Config, opts ...Option) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	codec, err := game.NewCodec(cfg.Rows, cfg.Cols, cfg.WinMax)
	if err != nil {
		return nil, fmt.Errorf("solver: %w", err)
	}
	if codec.States() > MaxTableStates {
		return nil, fmt.Errorf("solver: %w: %d states exceed %d", game.ErrStateSpaceTooLarge, codec.States(), MaxTableStates)
	}

	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	s := &Solver{
		cfg:     cfg,
		codec:   codec,
		workers: workers,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Codec returns the state codec the solver indexes its tables with.
func (s *Solver) Codec() *game.Codec {
	return s.codec
}

// Boundary returns the value table at t = T: the terminal reward of every state.
func Boundary(codec *game.Codec, winExponent int) []float64 {
	values := make([]float64, codec.States())
	board := codec.NewBoard()
	for id := range values {
		codec.DecodeInto(game.StateID(id), &board)
		values[id] = game.Reward(board, winExponent)
	}
	return values
}

// Solve computes the value table at time 0 and the policy of every step.
//
// Steps run strictly one after another from T-1 down to 0; within a step the
// state ids are split across workers, each writing only its own entries.
func (s *Solver) Solve(ctx context.Context) (*Result, error) {
	start := time.Now()
	states := s.codec.States()

	s.logger.Info("solving",
		"board", fmt.Sprintf("%dx%d", s.cfg.Rows, s.cfg.Cols),
		"win", s.cfg.WinExponent,
		"winMax", s.cfg.WinMax,
		"horizon", s.cfg.Horizon,
		"states", states,
		"workers", s.workers,
	)

	current := Boundary(s.codec, s.cfg.WinExponent)
	next := make([]float64, states)
	policy := make([][]game.Action, s.cfg.Horizon)

	for t := s.cfg.Horizon - 1; t >= 0; t-- {
		stepStart := time.Now()
		policyT := make([]game.Action, states)

		if err := s.step(ctx, current, next, policyT); err != nil {
			return nil, fmt.Errorf("solver: step %d: %w", t, err)
		}

		policy[t] = policyT
		current, next = next, current

		s.logger.Debug("step done", "t", t, "took", time.Since(stepStart))
		if s.progress != nil {
			s.progress(Progress{Step: t, Remaining: t, Elapsed: time.Since(start)})
		}
	}

	res := &Result{
		Codec:       s.codec,
		WinExponent: s.cfg.WinExponent,
		Horizon:     s.cfg.Horizon,
		Values:      current,
		Policy:      policy,
		Elapsed:     time.Since(start),
	}

	s.logger.Info("solved", "took", res.Elapsed, "startValue", fmt.Sprintf("%.6f", res.StartValue()))
	return res, nil
}

// step fills next and policy from current for every state id.
func (s *Solver) step(ctx context.Context, current, next []float64, policy []game.Action) error {
	states := len(current)
	g, ctx := errgroup.WithContext(ctx)

	per := (states + s.workers - 1) / s.workers
	for w := range s.workers {
		lo := w * per
		hi := min(lo+per, states)
		if lo >= hi {
			break
		}

		g.Go(func() error {
			sc := newScratch(s.codec)
			for chunk := lo; chunk < hi; chunk += chunkSize {
				if err := ctx.Err(); err != nil {
					return err
				}
				end := min(chunk+chunkSize, hi)
				for id := chunk; id < end; id++ {
					policy[id], next[id] = s.bellman(game.StateID(id), current, sc)
				}
			}
			return nil
		})
	}

	return g.Wait()
}

// scratch holds per-worker buffers so the inner loop does not allocate.
type scratch struct {
	board game.Board
	moved game.Board
	empty []int
}

func newScratch(codec *game.Codec) *scratch {
	return &scratch{
		board: codec.NewBoard(),
		moved: codec.NewBoard(),
		empty: make([]int, 0, codec.Rows()*codec.Cols()),
	}
}

// bellman returns the optimal action and value of state id given the values
// of the following step.
func (s *Solver) bellman(id game.StateID, current []float64, sc *scratch) (game.Action, float64) {
	// The empty board has no legal move.
	if id == 0 {
		return game.None, 0
	}

	s.codec.DecodeInto(id, &sc.board)

	best := game.None
	bestValue := illegal
	for _, a := range game.Actions {
		term := current[id]
		if a != game.None {
			term = s.expectation(a, current, sc)
		}
		if term > bestValue {
			best, bestValue = a, term
		}
	}
	return best, bestValue
}

// expectation returns the expected next-step value of playing direction a
// from sc.board, or illegal if a moves nothing.
func (s *Solver) expectation(a game.Action, current []float64, sc *scratch) float64 {
	sc.moved.CopyFrom(sc.board)
	if !game.ApplyInPlace(&sc.moved, a) {
		return illegal
	}

	sc.empty = game.AppendEmptyIndices(sc.moved, sc.empty[:0])
	if len(sc.empty) == 0 {
		// unreachable: a legal move always leaves a cell empty
		return illegal
	}
	prob := game.SpawnProbability(len(sc.empty))

	base, err := s.codec.Encode(sc.moved)
	if err != nil {
		// Every successor keeps the over-bound tile.
		return overBoundValue
	}

	winMax := s.codec.WinMax()
	sum := 0.0
	for _, idx := range sc.empty {
		w := s.codec.Weight(idx)
		for _, exp := range game.SpawnExponents {
			if int(exp) > winMax {
				sum += overBoundValue * prob
				continue
			}
			sum += current[int(base)+int(exp)*w] * prob
		}
	}
	return sum
}
