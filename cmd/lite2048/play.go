package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/lite2048/internal/platform/tui"
)

var (
	flagPlayTable string
	flagNoHints   bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play with the optimal move suggested every turn",
	Long: `Solve the configured board (or load a table exported earlier) and play it.
Every turn shows the move that maximizes the chance of reaching the goal
within the remaining moves, and the current win probability.

Controls:
  W/A/S/D, Arrows  - Move
  Enter/N          - Play the suggested move
  Space/P          - Toggle autoplay
  H                - Toggle hints
  R                - New game
  ?                - Toggle help
  Q/Ctrl+C         - Quit

Examples:
  lite2048 play
  lite2048 play --preset tiny --seed 42
  lite2048 play --table tables/2x3.parquet
  lite2048 play --no-hints`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPlayTable, "table", "", "Load tables from a parquet file instead of solving")
	playCmd.Flags().BoolVar(&flagNoHints, "no-hints", false, "Start with the suggested move hidden")
}

func runPlay(cmd *cobra.Command, _ []string) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fail("loading config", err)
	}
	logger := newLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open history storage
	store := openStore(cfg.Storage.DBPath, logger)

	res, err := loadTable(ctx, flagPlayTable, cfg, logger, store)
	if err != nil {
		if store != nil {
			store.Close()
		}
		fail("preparing tables", err)
	}
	stop()

	// Get terminal size
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	runErr := tui.Run(res, store, tui.PlayOptions{
		Seed:        cfg.Session.Seed,
		Hints:       cfg.Session.Hints && !flagNoHints,
		AutoplayFPS: cfg.Session.AutoplayFPS,
		Width:       width,
		Height:      height,
	})

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
