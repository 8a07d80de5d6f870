package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/lite2048/internal/game"
	"github.com/vovakirdan/lite2048/internal/solver"
)

var (
	flagInspectBoard string
	flagInspectTable string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [state-id]",
	Short: "Show the value and policy of one state",
	Long: `Print a state of the configured board, its win probability and the optimal
action at every elapsed time. The state is given either by its id or with
--board as exponent rows separated by ';' (0 = empty, 1 = tile 2, 2 = tile 4).

Examples:
  lite2048 inspect 1234
  lite2048 inspect --board "1,0,2;0,0,0"
  lite2048 inspect --board "1,1;0,2" --preset tiny
  lite2048 inspect 42 --table tables/2x3.parquet`,
	Args: cobra.MaximumNArgs(1),
	Run:  runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&flagInspectBoard, "board", "", `Board as exponent rows, e.g. "1,0,2;0,0,0"`)
	inspectCmd.Flags().StringVar(&flagInspectTable, "table", "", "Load tables from a parquet file instead of solving")
}

func runInspect(cmd *cobra.Command, args []string) {
	if (len(args) == 1) == (flagInspectBoard != "") {
		fmt.Fprintln(os.Stderr, "Error: give either a state id or --board")
		os.Exit(1)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		fail("loading config", err)
	}
	logger := newLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	res, err := loadTable(ctx, flagInspectTable, cfg, logger, nil)
	stop()
	if err != nil {
		fail("preparing tables", err)
	}

	board, id, err := resolveState(res, args)
	if err != nil {
		fail("reading state", err)
	}

	fmt.Printf("State %d of %d\n", id, res.Codec.States())
	fmt.Println(board.String())
	fmt.Println()
	fmt.Println(board.Literal())
	fmt.Println()
	fmt.Printf("  %-12s  %.6f\n", "Win chance", res.Value(id))
	fmt.Printf("  %-12s  %v\n", "Won", game.HasWon(board, res.WinExponent))
	fmt.Printf("  %-12s  %v\n", "Can move", game.CanMove(board))
	fmt.Println()

	if res.Horizon == 0 {
		fmt.Println("Horizon is 0: no decisions to make.")
		return
	}

	fmt.Println("Policy:")
	for _, run := range policyRuns(res, id) {
		if run.from == run.to {
			fmt.Printf("  t=%-9d  %s\n", run.from, run.action)
			continue
		}
		fmt.Printf("  t=%-9s  %s\n", fmt.Sprintf("%d-%d", run.from, run.to), run.action)
	}
}

// resolveState returns the inspected board and its id.
func resolveState(res *solver.Result, args []string) (game.Board, game.StateID, error) {
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return game.Board{}, 0, fmt.Errorf("state id %q: %w", args[0], err)
		}
		id := game.StateID(n)
		board, err := res.Codec.Decode(id)
		return board, id, err
	}

	board, err := game.ParseBoard(flagInspectBoard)
	if err != nil {
		return game.Board{}, 0, err
	}
	if board.Rows() != res.Codec.Rows() || board.Cols() != res.Codec.Cols() {
		return game.Board{}, 0, fmt.Errorf("%w: board is %dx%d, tables are %dx%d", game.ErrShape,
			board.Rows(), board.Cols(), res.Codec.Rows(), res.Codec.Cols())
	}
	id, err := res.Codec.Encode(board)
	if errors.Is(err, game.ErrOverBound) {
		return game.Board{}, 0, fmt.Errorf("%w (raise --win-max)", err)
	}
	return board, id, err
}

// policyRun is a stretch of elapsed times sharing one action.
type policyRun struct {
	from, to int
	action   game.Action
}

// policyRuns compresses the policy of id over all elapsed times.
func policyRuns(res *solver.Result, id game.StateID) []policyRun {
	var runs []policyRun
	for t := range res.Horizon {
		a := res.Action(t, id)
		if n := len(runs); n > 0 && runs[n-1].action == a {
			runs[n-1].to = t
			continue
		}
		runs = append(runs, policyRun{from: t, to: t, action: a})
	}
	return runs
}
