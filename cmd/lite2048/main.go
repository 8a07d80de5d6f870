// lite2048 solves small 2048 boards exactly and plays the optimal policy in the terminal.
//
// Usage:
//
//	lite2048 solve                 - Solve the configured board and print a summary
//	lite2048 play                  - Play with the optimal move suggested every turn
//	lite2048 serve                 - Start SSH server for remote play
//	lite2048 inspect <state-id>    - Show the value and policy of one state
//	lite2048 history               - Show recorded solves and games
//	lite2048 export <file>         - Write the solved tables to a parquet file
//
// Global flags:
//
//	--config <path>   - Config file (default search: ~/.lite2048/config.yaml, ./configs/lite2048.yaml)
//	--rows, --cols    - Board size (default: 2x3)
//	--win <exp>       - Winning exponent, 5 means a 32 tile (default: 5)
//	--horizon <n>     - Decision steps (default: 2^(win-1)/2 * rows * cols)
//	--seed <value>    - Set RNG seed for reproducible games
//	--db <path>       - Set database path (default: ~/.lite2048/history.db)
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/lite2048/internal/config"
)

var (
	// Global flags
	flagConfig   string
	flagPreset   string
	flagRows     int
	flagCols     int
	flagWin      int
	flagWinMax   int
	flagHorizon  int
	flagWorkers  int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lite2048",
	Short: "lite2048 - Exact optimal play for small 2048 boards",
	Long: `lite2048 computes, by backward induction, the move that maximizes the
probability of reaching the winning tile within a fixed number of moves, for
every reachable position of a small 2048 board. The solved policy can then be
played in the terminal or served over SSH.

Available commands:
  solve    - Solve the configured board
  play     - Play with the optimal move suggested every turn
  serve    - Start SSH server for remote play
  inspect  - Show the value and policy of one state
  history  - View recorded solves and games
  export   - Write the solved tables to a parquet file

Examples:
  lite2048 solve
  lite2048 play --rows 2 --cols 2 --win 4
  lite2048 play --preset square
  lite2048 inspect --board "1,0,2;0,0,0"
  lite2048 serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Board preset ("+presetNames()+")")
	rootCmd.PersistentFlags().IntVar(&flagRows, "rows", 2, "Board rows")
	rootCmd.PersistentFlags().IntVar(&flagCols, "cols", 3, "Board columns")
	rootCmd.PersistentFlags().IntVar(&flagWin, "win", 5, "Winning exponent (5 = tile 32)")
	rootCmd.PersistentFlags().IntVar(&flagWinMax, "win-max", 0, "Largest exponent the tables index (0 = --win)")
	rootCmd.PersistentFlags().IntVar(&flagHorizon, "horizon", 0, "Decision steps (0 = derived from board and goal)")
	rootCmd.PersistentFlags().IntVar(&flagWorkers, "workers", 0, "Solver workers (0 = one per CPU)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.lite2048/history.db", "Path to history database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(exportCmd)
}

// fail prints what went wrong and exits.
func fail(what string, err error) {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", what, err)
	os.Exit(1)
}

func presetNames() string {
	names := make([]string, 0, len(config.Presets()))
	for _, p := range config.Presets() {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}
