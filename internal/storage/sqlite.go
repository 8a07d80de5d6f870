// Package storage provides SQLite-based history of solver runs and played sessions.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// SolveRecord describes one completed solver run.
type SolveRecord struct {
	ID          int64
	Board       string // "RxC"
	WinExponent int
	WinMax      int
	Horizon     int
	States      int
	Workers     int
	StartValue  float64 // win probability of a fresh game
	Elapsed     time.Duration
	CreatedAt   time.Time
}

// SessionRecord describes one finished interactive session.
type SessionRecord struct {
	ID          int64
	Player      string
	Board       string // "RxC"
	WinExponent int
	Horizon     int
	Moves       int
	Followed    int // moves matching the suggestion
	Rejected    int
	MaxTile     int
	Won         bool
	EndReason   string
	Duration    int // seconds
	CreatedAt   time.Time
}

// SessionStats aggregates sessions for a board.
type SessionStats struct {
	Played     int
	Won        int
	AvgMoves   float64
	FollowRate float64 // followed / moves over all sessions
	BestTile   int
}

// BoardKey formats the board column used by both tables.
func BoardKey(rows, cols int) string {
	return fmt.Sprintf("%dx%d", rows, cols)
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS solves (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			board TEXT NOT NULL,
			win_exponent INTEGER NOT NULL,
			win_max INTEGER NOT NULL,
			horizon INTEGER NOT NULL,
			states INTEGER NOT NULL,
			workers INTEGER NOT NULL DEFAULT 0,
			start_value REAL NOT NULL,
			elapsed_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_solves_config ON solves(board, win_exponent, win_max, horizon);

		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player TEXT NOT NULL DEFAULT '',
			board TEXT NOT NULL,
			win_exponent INTEGER NOT NULL,
			horizon INTEGER NOT NULL,
			moves INTEGER NOT NULL DEFAULT 0,
			followed INTEGER NOT NULL DEFAULT 0,
			rejected INTEGER NOT NULL DEFAULT 0,
			max_tile INTEGER NOT NULL DEFAULT 0,
			won INTEGER NOT NULL DEFAULT 0,
			end_reason TEXT NOT NULL,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_board ON sessions(board);
		CREATE INDEX IF NOT EXISTS idx_sessions_player ON sessions(player);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSolve records a solver run.
// Returns the ID of the inserted record.
func (s *Store) SaveSolve(rec SolveRecord) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO solves
		 (board, win_exponent, win_max, horizon, states, workers, start_value, elapsed_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Board,
		rec.WinExponent,
		rec.WinMax,
		rec.Horizon,
		rec.States,
		rec.Workers,
		rec.StartValue,
		rec.Elapsed.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save solve: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentSolves retrieves the most recent solver runs, newest first.
func (s *Store) RecentSolves(limit int) ([]SolveRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, board, win_exponent, win_max, horizon, states, workers,
		        start_value, elapsed_ms, created_at
		 FROM solves
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query solves: %w", err)
	}
	defer rows.Close()

	var records []SolveRecord
	for rows.Next() {
		var rec SolveRecord
		var elapsedMS int64
		var createdAt any
		if err := rows.Scan(
			&rec.ID,
			&rec.Board,
			&rec.WinExponent,
			&rec.WinMax,
			&rec.Horizon,
			&rec.States,
			&rec.Workers,
			&rec.StartValue,
			&elapsedMS,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		rec.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		rec.CreatedAt = parseTime(createdAt)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// LastSolve returns the most recent run for a configuration, or nil if the
// configuration was never solved.
func (s *Store) LastSolve(board string, winExponent, winMax, horizon int) (*SolveRecord, error) {
	var rec SolveRecord
	var elapsedMS int64
	var createdAt any

	err := s.db.QueryRow(
		`SELECT id, board, win_exponent, win_max, horizon, states, workers,
		        start_value, elapsed_ms, created_at
		 FROM solves
		 WHERE board = ? AND win_exponent = ? AND win_max = ? AND horizon = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`,
		board, winExponent, winMax, horizon,
	).Scan(
		&rec.ID,
		&rec.Board,
		&rec.WinExponent,
		&rec.WinMax,
		&rec.Horizon,
		&rec.States,
		&rec.Workers,
		&rec.StartValue,
		&elapsedMS,
		&createdAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query solve: %w", err)
	}

	rec.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	rec.CreatedAt = parseTime(createdAt)
	return &rec, nil
}

// SaveSession records a finished session.
// Returns the ID of the inserted record.
func (s *Store) SaveSession(rec SessionRecord) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO sessions
		 (player, board, win_exponent, horizon, moves, followed, rejected, max_tile, won, end_reason, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Player,
		rec.Board,
		rec.WinExponent,
		rec.Horizon,
		rec.Moves,
		rec.Followed,
		rec.Rejected,
		rec.MaxTile,
		rec.Won,
		rec.EndReason,
		rec.Duration,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save session: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentSessions retrieves the most recent sessions, newest first.
// An empty board matches every board.
func (s *Store) RecentSessions(board string, limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, player, board, win_exponent, horizon, moves, followed, rejected,
		        max_tile, won, end_reason, duration_secs, created_at
		 FROM sessions
		 WHERE ? = '' OR board = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		board, board, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		var createdAt any

		if err := rows.Scan(
			&rec.ID,
			&rec.Player,
			&rec.Board,
			&rec.WinExponent,
			&rec.Horizon,
			&rec.Moves,
			&rec.Followed,
			&rec.Rejected,
			&rec.MaxTile,
			&rec.Won,
			&rec.EndReason,
			&rec.Duration,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		rec.CreatedAt = parseTime(createdAt)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// Stats aggregates the sessions played on a board.
// An empty board aggregates every board.
func (s *Store) Stats(board string) (SessionStats, error) {
	var stats SessionStats
	var won, moves, followed, best sql.NullInt64

	err := s.db.QueryRow(
		`SELECT COUNT(*), SUM(won), SUM(moves), SUM(followed), MAX(max_tile)
		 FROM sessions
		 WHERE ? = '' OR board = ?`,
		board, board,
	).Scan(&stats.Played, &won, &moves, &followed, &best)
	if err != nil {
		return stats, fmt.Errorf("storage: cannot query stats: %w", err)
	}

	stats.Won = int(won.Int64)
	stats.BestTile = int(best.Int64)
	if stats.Played > 0 {
		stats.AvgMoves = float64(moves.Int64) / float64(stats.Played)
	}
	if moves.Int64 > 0 {
		stats.FollowRate = float64(followed.Int64) / float64(moves.Int64)
	}
	return stats, nil
}

// ClearSessions deletes the sessions of a board, or all sessions if board is empty.
func (s *Store) ClearSessions(board string) error {
	_, err := s.db.Exec("DELETE FROM sessions WHERE ? = '' OR board = ?", board, board)
	if err != nil {
		return fmt.Errorf("storage: cannot clear sessions: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
