// Package history persists generation run records to SQLite, so operators
// can inspect past runs of a watched or scheduled site.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/giovifav/ssg/internal/site"
)

// Run is one stored generation record.
type Run struct {
	ID       int64
	RunID    string
	Start    time.Time
	End      time.Time
	Outcome  string
	Pages    int
	Warnings int
	Errors   int
	Report   json.RawMessage
}

// Store keeps generation history in a SQLite database.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates or opens the history database at dbPath. Use ":memory:" for an
// ephemeral store.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize history schema: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		start INTEGER NOT NULL,
		end INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		pages INTEGER NOT NULL,
		warnings INTEGER NOT NULL,
		errors INTEGER NOT NULL,
		report TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_start ON runs(start);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record stores a finished generation report.
func (s *Store) Record(ctx context.Context, report *site.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO runs (run_id, start, end, outcome, pages, warnings, errors, report) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		report.RunID, report.Start.UnixMilli(), report.End.UnixMilli(), string(report.Outcome),
		report.Pages, len(report.Warnings), len(report.Errors), payload,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Recent returns the latest runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, run_id, start, end, outcome, pages, warnings, errors, report FROM runs ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var start, end int64
		var report string
		if err := rows.Scan(&r.ID, &r.RunID, &start, &end, &r.Outcome,
			&r.Pages, &r.Warnings, &r.Errors, &report); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Start = time.UnixMilli(start)
		r.End = time.UnixMilli(end)
		r.Report = json.RawMessage(report)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Get returns one run by its run id.
func (s *Store) Get(ctx context.Context, runID string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, run_id, start, end, outcome, pages, warnings, errors, report FROM runs WHERE run_id = ?",
		runID,
	)
	var r Run
	var start, end int64
	var report string
	if err := row.Scan(&r.ID, &r.RunID, &start, &end, &r.Outcome,
		&r.Pages, &r.Warnings, &r.Errors, &report); err != nil {
		return nil, err
	}
	r.Start = time.UnixMilli(start)
	r.End = time.UnixMilli(end)
	r.Report = json.RawMessage(report)
	return &r, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }
