// Package store persists completed simulation runs in SQLite so past
// results can be listed, re-fetched, and exported.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"schedsim/internal/core"
	"schedsim/internal/metrics"
	"schedsim/internal/schedulers"
)

// ErrNotFound is returned when a run id does not exist.
var ErrNotFound = errors.New("run not found")

// Run is one persisted simulation result.
type Run struct {
	ID        string               `json:"id"`
	Algorithm schedulers.Algorithm `json:"algorithm"`
	CreatedAt time.Time            `json:"created_at"`
	Processes []core.Process       `json:"processes"`
	Segments  []core.Segment       `json:"segments"`
	Metrics   *metrics.Record      `json:"metrics"`
}

// Store is a SQLite-backed run archive.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	algorithm  TEXT NOT NULL,
	created_at TEXT NOT NULL,
	processes  TEXT NOT NULL,
	segments   TEXT NOT NULL,
	metrics    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

// Open opens (or creates) the database at dbPath and ensures the
// schema. Use ":memory:" for tests.
func Open(dbPath string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db, logger: logger.With("component", "store")}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

// SaveRun persists a run, assigning it a fresh id, and returns the id.
func (s *Store) SaveRun(ctx context.Context, run *Run) (string, error) {
	run.ID = uuid.NewString()
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	s.logger.Debug("sql", "op", "insert", "table", "runs", "id", run.ID)

	procsJSON, err := json.Marshal(run.Processes)
	if err != nil {
		return "", fmt.Errorf("marshal processes: %w", err)
	}
	segsJSON, err := json.Marshal(run.Segments)
	if err != nil {
		return "", fmt.Errorf("marshal segments: %w", err)
	}
	metricsJSON, err := json.Marshal(run.Metrics)
	if err != nil {
		return "", fmt.Errorf("marshal metrics: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, algorithm, created_at, processes, segments, metrics)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, string(run.Algorithm), run.CreatedAt.Format(time.RFC3339Nano),
		string(procsJSON), string(segsJSON), string(metricsJSON))
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return run.ID, nil
}

// GetRun fetches one run by id.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	s.logger.Debug("sql", "op", "select", "table", "runs", "id", id)
	row := s.db.QueryRowContext(ctx,
		`SELECT id, algorithm, created_at, processes, segments, metrics FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return run, err
}

// ListRuns returns runs newest-first, capped at limit (0 means all).
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	s.logger.Debug("sql", "op", "select", "table", "runs", "limit", limit)
	q := `SELECT id, algorithm, created_at, processes, segments, metrics
	      FROM runs ORDER BY created_at DESC`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.db.QueryContext(ctx, q+" LIMIT ?", limit)
	} else {
		rows, err = s.db.QueryContext(ctx, q)
	}
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var run Run
	var alg, createdAt, procsJSON, segsJSON, metricsJSON string
	if err := row.Scan(&run.ID, &alg, &createdAt, &procsJSON, &segsJSON, &metricsJSON); err != nil {
		return nil, err
	}
	run.Algorithm = schedulers.Algorithm(alg)
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	run.CreatedAt = ts
	if err := json.Unmarshal([]byte(procsJSON), &run.Processes); err != nil {
		return nil, fmt.Errorf("unmarshal processes: %w", err)
	}
	if err := json.Unmarshal([]byte(segsJSON), &run.Segments); err != nil {
		return nil, fmt.Errorf("unmarshal segments: %w", err)
	}
	if err := json.Unmarshal([]byte(metricsJSON), &run.Metrics); err != nil {
		return nil, fmt.Errorf("unmarshal metrics: %w", err)
	}
	return &run, nil
}
