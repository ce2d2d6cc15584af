// Package store persists analysis run summaries for the HTTP API
// (SPEC_FULL.md §6.4) in Postgres, the way the teacher persists parsed
// repositories in pkg/models, trimmed to the one table the API needs.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/lib/pq"

	"github.com/asyncwand/asyncwand/internal/engine/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS analysis_runs (
	run_id      TEXT PRIMARY KEY,
	created_at  TIMESTAMPTZ NOT NULL,
	config      JSONB NOT NULL,
	async_map   JSONB NOT NULL
);
`

// Store wraps a *sql.DB opened against a Postgres connection string.
type Store struct {
	db *sql.DB
}

// Open connects to Postgres at connStr and ensures the schema exists.
func Open(connStr string) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, errors.Wrap(errors.Io, "opening store database", err)
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(errors.Io, "pinging store database", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.Io, "initializing store schema", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// RunSummary is one persisted analysis run, keyed by a support.NewRunID.
type RunSummary struct {
	RunID     string
	CreatedAt time.Time
	Config    json.RawMessage
	AsyncMap  json.RawMessage
}

// Save inserts or replaces a run summary.
func (s *Store) Save(ctx context.Context, r RunSummary) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO analysis_runs (run_id, created_at, config, async_map) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (run_id) DO UPDATE SET created_at = excluded.created_at, config = excluded.config, async_map = excluded.async_map`,
		r.RunID, r.CreatedAt, []byte(r.Config), []byte(r.AsyncMap),
	)
	if err != nil {
		return errors.Wrap(errors.Io, "saving run summary", err)
	}
	return nil
}

// Get fetches a previously persisted run summary by ID.
func (s *Store) Get(ctx context.Context, runID string) (*RunSummary, error) {
	var r RunSummary
	var config, asyncMap []byte
	row := s.db.QueryRowContext(ctx,
		`SELECT run_id, created_at, config, async_map FROM analysis_runs WHERE run_id = $1`, runID)
	switch err := row.Scan(&r.RunID, &r.CreatedAt, &config, &asyncMap); err {
	case nil:
		r.Config = json.RawMessage(config)
		r.AsyncMap = json.RawMessage(asyncMap)
		return &r, nil
	case sql.ErrNoRows:
		return nil, errors.New(errors.NotFound, "no run with id "+runID)
	default:
		return nil, errors.Wrap(errors.Io, "fetching run summary", err)
	}
}
