package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RunSummary is the persisted record of one completed Phase-1+Phase-2 run.
type RunSummary struct {
	RunID          string
	Cols, Rows     int
	SubmissionOK   bool
	TotalPenalties int
	ActionCount    int
	StartedAt      time.Time
	FinishedAt     time.Time
}

// RunStore persists run summaries and cell-reveal timelines to Postgres.
type RunStore struct {
	db *sql.DB
}

// NewRunStore wraps an open database handle.
func NewRunStore(db *sql.DB) *RunStore {
	return &RunStore{db: db}
}

// EnsureSchema creates the tables this store needs if they don't exist yet.
func (s *RunStore) EnsureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id           TEXT PRIMARY KEY,
	cols             INTEGER NOT NULL,
	rows             INTEGER NOT NULL,
	submission_ok    BOOLEAN NOT NULL,
	total_penalties  INTEGER NOT NULL,
	action_count     INTEGER NOT NULL,
	started_at       TIMESTAMPTZ NOT NULL,
	finished_at      TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS cell_reveals (
	run_id     TEXT NOT NULL REFERENCES runs(run_id),
	seq        INTEGER NOT NULL,
	i          INTEGER NOT NULL,
	j          INTEGER NOT NULL,
	content    TEXT NOT NULL,
	revealed_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (run_id, seq)
);`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// SaveRun records a finished run's summary.
func (s *RunStore) SaveRun(ctx context.Context, r RunSummary) error {
	const q = `
INSERT INTO runs (run_id, cols, rows, submission_ok, total_penalties, action_count, started_at, finished_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (run_id) DO UPDATE SET
	submission_ok = EXCLUDED.submission_ok,
	total_penalties = EXCLUDED.total_penalties,
	action_count = EXCLUDED.action_count,
	finished_at = EXCLUDED.finished_at`
	_, err := s.db.ExecContext(ctx, q, r.RunID, r.Cols, r.Rows, r.SubmissionOK,
		r.TotalPenalties, r.ActionCount, r.StartedAt, r.FinishedAt)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

// RecordCellReveal appends one entry to a run's cell-reveal timeline.
func (s *RunStore) RecordCellReveal(ctx context.Context, runID string, seq, i, j int, content string) error {
	const q = `
INSERT INTO cell_reveals (run_id, seq, i, j, content, revealed_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (run_id, seq) DO NOTHING`
	_, err := s.db.ExecContext(ctx, q, runID, seq, i, j, content, time.Now())
	if err != nil {
		return fmt.Errorf("record cell reveal: %w", err)
	}
	return nil
}

// GetRun fetches a run summary by ID.
func (s *RunStore) GetRun(ctx context.Context, runID string) (*RunSummary, error) {
	const q = `
SELECT run_id, cols, rows, submission_ok, total_penalties, action_count, started_at, finished_at
FROM runs WHERE run_id = $1`
	var r RunSummary
	err := s.db.QueryRowContext(ctx, q, runID).Scan(&r.RunID, &r.Cols, &r.Rows,
		&r.SubmissionOK, &r.TotalPenalties, &r.ActionCount, &r.StartedAt, &r.FinishedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return &r, nil
}
