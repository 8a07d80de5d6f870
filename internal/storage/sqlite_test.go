package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store.SaveSession(SessionRecord{Board: "2x3", WinExponent: 5, EndReason: "policy stop"}); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer store.Close()

	sessions, err := store.RecentSessions("", 10)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Errorf("Expected 1 session after reopen, got %d", len(sessions))
	}
}

func TestStoreSolves(t *testing.T) {
	store := openTestStore(t)

	first := SolveRecord{
		Board:       BoardKey(2, 3),
		WinExponent: 5,
		WinMax:      5,
		Horizon:     4,
		States:      46656,
		Workers:     8,
		StartValue:  0.125,
		Elapsed:     1500 * time.Millisecond,
	}
	if _, err := store.SaveSolve(first); err != nil {
		t.Fatalf("SaveSolve() failed: %v", err)
	}

	second := first
	second.Horizon = 48
	second.StartValue = 0.75
	if _, err := store.SaveSolve(second); err != nil {
		t.Fatalf("SaveSolve() failed: %v", err)
	}

	solves, err := store.RecentSolves(10)
	if err != nil {
		t.Fatalf("RecentSolves() failed: %v", err)
	}
	if len(solves) != 2 {
		t.Fatalf("Expected 2 solves, got %d", len(solves))
	}
	if solves[0].Horizon != 48 {
		t.Errorf("Expected newest solve first, got horizon %d", solves[0].Horizon)
	}
	if solves[1].Elapsed != 1500*time.Millisecond {
		t.Errorf("Elapsed = %v, want 1.5s", solves[1].Elapsed)
	}
	if solves[1].StartValue != 0.125 || solves[1].States != 46656 {
		t.Errorf("Unexpected solve record: %+v", solves[1])
	}

	last, err := store.LastSolve("2x3", 5, 5, 4)
	if err != nil {
		t.Fatalf("LastSolve() failed: %v", err)
	}
	if last == nil || last.StartValue != 0.125 {
		t.Errorf("LastSolve() = %+v, want the horizon 4 run", last)
	}

	missing, err := store.LastSolve("3x3", 5, 5, 4)
	if err != nil {
		t.Fatalf("LastSolve() failed: %v", err)
	}
	if missing != nil {
		t.Errorf("LastSolve() for unknown board = %+v, want nil", missing)
	}
}

func TestStoreLastSolveMatchesWinMax(t *testing.T) {
	store := openTestStore(t)

	narrow := SolveRecord{Board: "2x3", WinExponent: 5, WinMax: 5, Horizon: 4, States: 46656, StartValue: 0.125}
	wide := narrow
	wide.WinMax = 6
	wide.States = 117649
	wide.StartValue = 0.5
	for _, rec := range []SolveRecord{narrow, wide} {
		if _, err := store.SaveSolve(rec); err != nil {
			t.Fatalf("SaveSolve() failed: %v", err)
		}
	}

	tests := []struct {
		winMax int
		want   float64
	}{
		{5, 0.125},
		{6, 0.5},
	}
	for _, tt := range tests {
		last, err := store.LastSolve("2x3", 5, tt.winMax, 4)
		if err != nil {
			t.Fatalf("LastSolve() failed: %v", err)
		}
		if last == nil || last.WinMax != tt.winMax || last.StartValue != tt.want {
			t.Errorf("LastSolve(win max %d) = %+v, want start value %v", tt.winMax, last, tt.want)
		}
	}

	missing, err := store.LastSolve("2x3", 5, 7, 4)
	if err != nil {
		t.Fatalf("LastSolve() failed: %v", err)
	}
	if missing != nil {
		t.Errorf("LastSolve(win max 7) = %+v, want nil", missing)
	}
}

func TestStoreSessions(t *testing.T) {
	store := openTestStore(t)

	records := []SessionRecord{
		{Player: "alice", Board: "2x3", WinExponent: 5, Horizon: 48, Moves: 10, Followed: 10, MaxTile: 32, Won: true, EndReason: "policy stop", Duration: 12},
		{Player: "bob", Board: "2x3", WinExponent: 5, Horizon: 48, Moves: 6, Followed: 2, Rejected: 3, MaxTile: 16, EndReason: "policy stop"},
		{Player: "alice", Board: "2x2", WinExponent: 5, Horizon: 32, Moves: 4, Followed: 4, MaxTile: 8, EndReason: "board full"},
	}
	for _, rec := range records {
		if _, err := store.SaveSession(rec); err != nil {
			t.Fatalf("SaveSession() failed: %v", err)
		}
	}

	all, err := store.RecentSessions("", 10)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 sessions, got %d", len(all))
	}
	if all[0].Board != "2x2" {
		t.Errorf("Expected newest session first, got %+v", all[0])
	}

	small, err := store.RecentSessions("2x3", 10)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(small) != 2 {
		t.Fatalf("Expected 2 sessions on 2x3, got %d", len(small))
	}
	if small[1].Player != "alice" || !small[1].Won || small[1].Duration != 12 {
		t.Errorf("Unexpected session record: %+v", small[1])
	}
	if small[0].Won {
		t.Errorf("bob's session should not be a win: %+v", small[0])
	}

	limited, err := store.RecentSessions("", 1)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("Expected 1 session with limit, got %d", len(limited))
	}
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.Stats("")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if empty != (SessionStats{}) {
		t.Errorf("Expected zero stats on empty store, got %+v", empty)
	}

	store.SaveSession(SessionRecord{Board: "2x3", Moves: 10, Followed: 10, MaxTile: 32, Won: true, EndReason: "policy stop"})
	store.SaveSession(SessionRecord{Board: "2x3", Moves: 6, Followed: 2, MaxTile: 16, EndReason: "policy stop"})
	store.SaveSession(SessionRecord{Board: "2x2", Moves: 4, Followed: 4, MaxTile: 64, Won: true, EndReason: "off table"})

	stats, err := store.Stats("2x3")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Played != 2 || stats.Won != 1 || stats.BestTile != 32 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	if stats.AvgMoves != 8 {
		t.Errorf("AvgMoves = %v, want 8", stats.AvgMoves)
	}
	if stats.FollowRate != 0.75 {
		t.Errorf("FollowRate = %v, want 0.75", stats.FollowRate)
	}

	total, err := store.Stats("")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if total.Played != 3 || total.BestTile != 64 {
		t.Errorf("Unexpected totals: %+v", total)
	}
}

func TestStoreClearSessions(t *testing.T) {
	store := openTestStore(t)

	store.SaveSession(SessionRecord{Board: "2x3", EndReason: "policy stop"})
	store.SaveSession(SessionRecord{Board: "2x3", EndReason: "policy stop"})
	store.SaveSession(SessionRecord{Board: "2x2", EndReason: "policy stop"})

	// Clear only 2x3 sessions
	if err := store.ClearSessions("2x3"); err != nil {
		t.Fatalf("ClearSessions() failed: %v", err)
	}

	small, _ := store.RecentSessions("2x3", 10)
	if len(small) != 0 {
		t.Errorf("Expected 0 sessions on 2x3 after clear, got %d", len(small))
	}

	tiny, _ := store.RecentSessions("2x2", 10)
	if len(tiny) != 1 {
		t.Errorf("2x2 sessions should not be affected by clearing 2x3")
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	store, err := Open("~/nested/dir/history.db")
	if err != nil {
		t.Fatalf("Open() with ~ path failed: %v", err)
	}
	defer store.Close()

	home, _ := os.UserHomeDir()
	if _, err := os.Stat(filepath.Join(home, "nested", "dir", "history.db")); os.IsNotExist(err) {
		t.Error("Database file was not created under the home directory")
	}
}
