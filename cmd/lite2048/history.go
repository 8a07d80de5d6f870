package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/lite2048/internal/platform/tui"
	"github.com/vovakirdan/lite2048/internal/storage"
)

var (
	flagHistoryInteractive bool
	flagHistoryLimit       int
	flagHistoryBoard       string
	flagHistoryClear       bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded solves and games",
	Long: `Display recent solver runs, recent games and per-board statistics from the
history database.

Examples:
  lite2048 history
  lite2048 history -i
  lite2048 history --board 2x3 --limit 20
  lite2048 history --board 2x2 --clear`,
	Args: cobra.NoArgs,
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().BoolVarP(&flagHistoryInteractive, "interactive", "i", false, "Browse games in a table")
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Number of entries to show")
	historyCmd.Flags().StringVar(&flagHistoryBoard, "board", "", "Only show games on this board, e.g. 2x3")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete the recorded games (of --board, or all)")
}

func runHistory(cmd *cobra.Command, _ []string) {
	// History does not need a valid board, only the database path.
	dbPath := flagDBPath
	if cfg, err := loadConfig(cmd); err == nil {
		dbPath = cfg.Storage.DBPath
	}

	// Open history storage
	store, err := storage.Open(dbPath)
	if err != nil {
		fail("opening history database", err)
	}

	err = showHistory(store)

	// Close store before potential exit
	store.Close()

	if err != nil {
		fail("reading history", err)
	}
}

// showHistory runs the action the history flags ask for.
func showHistory(store *storage.Store) error {
	if flagHistoryClear {
		if err := store.ClearSessions(flagHistoryBoard); err != nil {
			return err
		}
		fmt.Println("History cleared.")
		return nil
	}

	if flagHistoryInteractive {
		width, height := 80, 24 // Defaults
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		return tui.RunHistory(store, width, height)
	}

	if err := printSolves(store, flagHistoryLimit); err != nil {
		return err
	}
	fmt.Println()
	return printSessions(store, flagHistoryBoard, flagHistoryLimit)
}

func printSolves(store *storage.Store, limit int) error {
	solves, err := store.RecentSolves(limit)
	if err != nil {
		return err
	}

	fmt.Println("Recent solves")
	fmt.Println()
	if len(solves) == 0 {
		fmt.Println("No solves recorded yet.")
		return nil
	}

	// Print header
	fmt.Printf("  %-6s  %-6s  %-7s  %-10s  %-10s  %-10s  %s\n", "Board", "Goal", "Horizon", "States", "Win", "Took", "Date")
	fmt.Printf("  %-6s  %-6s  %-7s  %-10s  %-10s  %-10s  %s\n", "-----", "----", "-------", "------", "---", "----", "----")

	for _, s := range solves {
		fmt.Printf("  %-6s  %-6d  %-7d  %-10d  %-10.6f  %-10s  %s\n",
			s.Board, 1<<s.WinExponent, s.Horizon, s.States, s.StartValue,
			s.Elapsed.String(), s.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func printSessions(store *storage.Store, board string, limit int) error {
	sessions, err := store.RecentSessions(board, limit)
	if err != nil {
		return err
	}

	title := "Recent games"
	if board != "" {
		title += " - " + board
	}
	fmt.Println(title)
	fmt.Println()

	if len(sessions) == 0 {
		fmt.Println("No games recorded yet.")
		fmt.Println()
		fmt.Println("Run 'lite2048 play' to start one!")
		return nil
	}

	// Print header
	fmt.Printf("  %-10s  %-6s  %-6s  %-6s  %-6s  %-12s  %s\n", "Player", "Board", "Moves", "Hint%", "Best", "Result", "Date")
	fmt.Printf("  %-10s  %-6s  %-6s  %-6s  %-6s  %-12s  %s\n", "------", "-----", "-----", "-----", "----", "------", "----")

	for _, s := range sessions {
		player := s.Player
		if player == "" {
			player = "local"
		}
		follow := "-"
		if s.Moves > 0 {
			follow = fmt.Sprintf("%d%%", s.Followed*100/s.Moves)
		}
		result := s.EndReason
		if s.Won {
			result = "won"
		}
		fmt.Printf("  %-10s  %-6s  %-6d  %-6s  %-6d  %-12s  %s\n",
			player, s.Board, s.Moves, follow, s.MaxTile, result, s.CreatedAt.Format("2006-01-02 15:04"))
	}

	// Show statistics
	stats, err := store.Stats(board)
	if err == nil {
		fmt.Println()
		fmt.Printf("Played: %d  Won: %d  Avg moves: %.1f  Hints followed: %.0f%%  Best tile: %d\n",
			stats.Played, stats.Won, stats.AvgMoves, stats.FollowRate*100, stats.BestTile)
	}
	return nil
}
