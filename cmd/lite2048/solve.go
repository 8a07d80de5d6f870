package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/lite2048/internal/config"
	"github.com/vovakirdan/lite2048/internal/export"
	"github.com/vovakirdan/lite2048/internal/game"
	"github.com/vovakirdan/lite2048/internal/solver"
)

var flagSolveExport string

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve the configured board",
	Long: `Run backward induction over every state of the configured board and print
the win probability of a fresh game together with the policy mix.

The run is recorded in the history database. With --export the value and
policy tables are also written to a parquet file that play, serve and
inspect can load with --table.

Examples:
  lite2048 solve
  lite2048 solve --rows 3 --cols 3 --win 4
  lite2048 solve --preset tiny --horizon 20
  lite2048 solve --export tables/2x3.parquet`,
	Args: cobra.NoArgs,
	Run:  runSolve,
}

func init() {
	solveCmd.Flags().StringVar(&flagSolveExport, "export", "", "Also write the tables to this parquet file")
}

func runSolve(cmd *cobra.Command, _ []string) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fail("loading config", err)
	}

	if err := solveAndExport(cfg, newLogger(), flagSolveExport); err != nil {
		fail("solving", err)
	}
}

// solveAndExport solves cfg, records and summarizes the run and, when
// outPath is set, writes the tables there. The history store and the signal
// handler are released before it returns.
func solveAndExport(cfg config.Config, logger *log.Logger, outPath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := openStore(cfg.Storage.DBPath, logger)
	if store != nil {
		defer store.Close()
	}

	res, err := solveTable(ctx, cfg, logger, store)
	if err != nil {
		return err
	}

	printSummary(res)

	if outPath == "" {
		return nil
	}
	if err := export.Write(outPath, res); err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("Tables written to %s\n", outPath)
	return nil
}

// printSummary prints a solve in the same layout for solve and export.
func printSummary(res *solver.Result) {
	states := res.Codec.States()
	fmt.Printf("Board %dx%d, goal %d, horizon %d\n",
		res.Codec.Rows(), res.Codec.Cols(), game.TileValue(uint8(res.WinExponent)), res.Horizon)
	fmt.Println()
	fmt.Printf("  %-12s  %d\n", "States", states)
	fmt.Printf("  %-12s  %.6f\n", "Win chance", res.StartValue())
	fmt.Printf("  %-12s  %s\n", "Solved in", res.Elapsed.Round(time.Millisecond))
	fmt.Println()

	if res.Horizon == 0 {
		return
	}
	counts := res.ActionCounts(0)
	fmt.Println("Policy at t=0:")
	for _, a := range game.Actions {
		share := float64(counts[a]) / float64(states) * 100
		fmt.Printf("  %-6s  %8d  %5.1f%%\n", a, counts[a], share)
	}
}
