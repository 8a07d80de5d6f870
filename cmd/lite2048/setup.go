package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/lite2048/internal/config"
	"github.com/vovakirdan/lite2048/internal/export"
	"github.com/vovakirdan/lite2048/internal/solver"
	"github.com/vovakirdan/lite2048/internal/storage"
)

// loadConfig resolves the configuration: config file, then --preset, then
// any flag the user set explicitly.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	if flagPreset != "" {
		if err := config.ApplyPreset(&cfg, config.Preset(flagPreset)); err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("rows") {
		cfg.Board.Rows = flagRows
	}
	if flags.Changed("cols") {
		cfg.Board.Cols = flagCols
	}
	if flags.Changed("win") {
		cfg.WinExponent = flagWin
		// A new goal moves the table bound with it unless both are given.
		if !flags.Changed("win-max") {
			cfg.WinMax = 0
		}
	}
	if flags.Changed("win-max") {
		cfg.WinMax = flagWinMax
	}
	if flags.Changed("horizon") {
		cfg.Horizon = flagHorizon
	}
	if flags.Changed("workers") {
		cfg.Workers = flagWorkers
	}
	if flags.Changed("seed") {
		cfg.Session.Seed = flagSeed
	}
	if flags.Changed("db") {
		cfg.Storage.DBPath = flagDBPath
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newLogger builds the CLI logger at --log-level.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "lite2048",
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// openStore opens the history database. Failures are logged and nil is
// returned so the caller can continue without history.
func openStore(path string, logger *log.Logger) *storage.Store {
	store, err := storage.Open(path)
	if err != nil {
		logger.Warn("could not open history database", "path", path, "error", err)
		return nil
	}
	return store
}

// solveTable runs the solver for cfg and records the run in store, which may be nil.
func solveTable(ctx context.Context, cfg config.Config, logger *log.Logger, store *storage.Store) (*solver.Result, error) {
	opts := []solver.Option{solver.WithLogger(logger)}

	// Debug logging already reports every step.
	if term.IsTerminal(int(os.Stderr.Fd())) && logger.GetLevel() > log.DebugLevel {
		total := cfg.Horizon
		opts = append(opts, solver.WithProgress(func(p solver.Progress) {
			fmt.Fprintf(os.Stderr, "\rsolving: step %d/%d", total-p.Remaining, total)
			if p.Remaining == 0 {
				fmt.Fprintln(os.Stderr)
			}
		}))
	}

	s, err := solver.New(cfg.SolverConfig(), opts...)
	if err != nil {
		return nil, err
	}
	board := storage.BoardKey(cfg.Board.Rows, cfg.Board.Cols)
	if store != nil {
		if last, err := store.LastSolve(board, cfg.WinExponent, cfg.WinMax, cfg.Horizon); err == nil && last != nil {
			logger.Info("solved before", "took", last.Elapsed, "start", last.StartValue, "at", last.CreatedAt.Format("2006-01-02 15:04"))
		}
	}
	res, err := s.Solve(ctx)
	if err != nil {
		return nil, err
	}

	if store != nil {
		workers := cfg.Workers
		if workers == 0 {
			workers = runtime.NumCPU()
		}
		if _, err := store.SaveSolve(storage.SolveRecord{
			Board:       board,
			WinExponent: res.WinExponent,
			WinMax:      res.Codec.WinMax(),
			Horizon:     res.Horizon,
			States:      res.Codec.States(),
			Workers:     workers,
			StartValue:  res.StartValue(),
			Elapsed:     res.Elapsed,
		}); err != nil {
			logger.Warn("could not record solve", "error", err)
		}
	}
	return res, nil
}

// loadTable reads a previously exported table from path, or solves cfg when
// path is empty.
func loadTable(ctx context.Context, path string, cfg config.Config, logger *log.Logger, store *storage.Store) (*solver.Result, error) {
	if path == "" {
		return solveTable(ctx, cfg, logger, store)
	}
	path, err := config.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	res, err := export.Read(path)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded table", "path", path, "table", res.Summary())
	return res, nil
}
