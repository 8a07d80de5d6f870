package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/lite2048/internal/config"
	"github.com/vovakirdan/lite2048/internal/export"
	"github.com/vovakirdan/lite2048/internal/storage"
)

func tinyConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Board = config.BoardConfig{Rows: 1, Cols: 2}
	cfg.WinExponent = 2
	cfg.WinMax = 2
	cfg.Horizon = 3
	cfg.Storage.DBPath = filepath.Join(t.TempDir(), "history.db")
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	return cfg
}

func recordedSolves(t *testing.T, dbPath string) []storage.SolveRecord {
	t.Helper()
	store, err := storage.Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer store.Close()

	solves, err := store.RecentSolves(10)
	if err != nil {
		t.Fatalf("RecentSolves() failed: %v", err)
	}
	return solves
}

func TestSolveAndExportWritesTables(t *testing.T) {
	cfg := tinyConfig(t)
	outPath := filepath.Join(t.TempDir(), "tables", "1x2.parquet")

	if err := solveAndExport(cfg, log.New(io.Discard), outPath); err != nil {
		t.Fatalf("solveAndExport() failed: %v", err)
	}

	res, err := export.Read(outPath)
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if res.Horizon != cfg.Horizon {
		t.Errorf("Horizon = %d, want %d", res.Horizon, cfg.Horizon)
	}
	if solves := recordedSolves(t, cfg.Storage.DBPath); len(solves) != 1 {
		t.Errorf("Expected 1 recorded solve, got %d", len(solves))
	}
}

func TestSolveAndExportReturnsWriteError(t *testing.T) {
	cfg := tinyConfig(t)

	// A regular file where the output directory should be.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	err := solveAndExport(cfg, log.New(io.Discard), filepath.Join(blocker, "1x2.parquet"))
	if err == nil {
		t.Fatal("Expected an error writing below a regular file")
	}

	// The solve is recorded and the store released before the error surfaces.
	solves := recordedSolves(t, cfg.Storage.DBPath)
	if len(solves) != 1 {
		t.Fatalf("Expected 1 recorded solve, got %d", len(solves))
	}
	if solves[0].Board != storage.BoardKey(1, 2) {
		t.Errorf("Board = %q, want %q", solves[0].Board, storage.BoardKey(1, 2))
	}
}
