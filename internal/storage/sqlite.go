// Package storage provides SQLite-based persistence for the run journal.
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

// ErrRunNotFound is returned when a run id has no journal entry.
var ErrRunNotFound = errors.New("storage: run not found")

// Store manages the SQLite database connection for the run journal.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// RunRecord is one journaled run.
type RunRecord struct {
	ID         string
	Seed       int64
	TickRate   int
	StartedAt  time.Time
	FinishedAt time.Time // zero while the run is still in progress
	Score      int
	Ticks      int
	Ended      bool // the run reached game over rather than being abandoned
}

// Finished reports whether FinishRun has been recorded for the run.
func (r RunRecord) Finished() bool {
	return !r.FinishedAt.IsZero()
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

	store := &Store{db: db, now: time.Now}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
// Timestamps are unix milliseconds.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			tick_rate INTEGER NOT NULL,
			started_at INTEGER NOT NULL,
			finished_at INTEGER,
			score INTEGER NOT NULL DEFAULT 0,
			ticks INTEGER NOT NULL DEFAULT 0,
			ended INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);

		CREATE TABLE IF NOT EXISTS run_actions (
			run_id TEXT NOT NULL,
			tick INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_run_actions_run ON run_actions(run_id, tick);
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

// StartRun journals a new run.
func (s *Store) StartRun(id string, seed int64, tickRate int) error {
	_, err := s.db.Exec(
		"INSERT INTO runs (id, seed, tick_rate, started_at) VALUES (?, ?, ?, ?)",
		id, seed, tickRate, s.now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot start run: %w", err)
	}
	return nil
}

// RecordAction journals a primary action taken at tick.
func (s *Store) RecordAction(id string, tick int) error {
	_, err := s.db.Exec("INSERT INTO run_actions (run_id, tick) VALUES (?, ?)", id, tick)
	if err != nil {
		return fmt.Errorf("storage: cannot record action: %w", err)
	}
	return nil
}

// FinishRun stores the outcome of a run. ended is false when the run was
// abandoned before game over.
func (s *Store) FinishRun(id string, score, ticks int, ended bool) error {
	res, err := s.db.Exec(
		`UPDATE runs SET finished_at = ?, score = ?, ticks = ?, ended = ?
		 WHERE id = ?`,
		s.now().UnixMilli(), score, ticks, ended, id,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: cannot finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("storage: finish run %s: %w", id, ErrRunNotFound)
	}
	return nil
}

const runColumns = `id, seed, tick_rate, started_at, finished_at, score, ticks, ended`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (RunRecord, error) {
	var (
		r        RunRecord
		started  int64
		finished sql.NullInt64
	)
	if err := row.Scan(&r.ID, &r.Seed, &r.TickRate, &started, &finished, &r.Score, &r.Ticks, &r.Ended); err != nil {
		return RunRecord{}, err
	}
	r.StartedAt = time.UnixMilli(started)
	if finished.Valid {
		r.FinishedAt = time.UnixMilli(finished.Int64)
	}
	return r, nil
}

// Runs retrieves the most recent runs, newest first.
func (s *Store) Runs(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 ORDER BY started_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// Run retrieves one run by id.
func (s *Store) Run(id string) (RunRecord, error) {
	r, err := scanRun(s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("storage: run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return r, nil
}

// Actions returns the ticks at which the run's primary actions were taken,
// in order.
func (s *Store) Actions(id string) ([]int, error) {
	rows, err := s.db.Query(
		"SELECT tick FROM run_actions WHERE run_id = ? ORDER BY tick, rowid",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query actions: %w", err)
	}
	defer rows.Close()

	var ticks []int
	for rows.Next() {
		var tick int
		if err := rows.Scan(&tick); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		ticks = append(ticks, tick)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return ticks, nil
}
