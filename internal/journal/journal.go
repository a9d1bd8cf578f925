// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journal records extraction runs in a local SQLite database so
// later runs and the history command can see what was reduced, when, and
// from which input.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/idextract/pkg/types"
)

const (
	dbFile = "journal.db"

	// defaultLimit caps List when no limit is given.
	defaultLimit = 20

	timeFormat = time.RFC3339Nano
)

// Journal manages the run journal database.
type Journal struct {
	db *sql.DB
}

// Open opens or creates dir/journal.db and its schema.
func Open(cfg types.JournalConfig) (*Journal, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = types.DefaultJournalDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	j := &Journal{db: db}
	if err := j.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating journal schema: %w", err)
	}
	return j, nil
}

// Close releases the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			path TEXT NOT NULL,
			field TEXT NOT NULL,
			status TEXT NOT NULL,
			records INTEGER NOT NULL DEFAULT 0,
			input_sha256 TEXT,
			error_kind TEXT,
			error TEXT,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_path ON runs(path)`,
	}

	for _, stmt := range statements {
		if _, err := j.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores run. An empty run.ID is replaced with a new UUID. Paths
// are stored in absolute form so relative and absolute invocations match.
func (j *Journal) Record(ctx context.Context, run types.Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	_, err := j.db.ExecContext(ctx,
		`INSERT INTO runs (id, path, field, status, records, input_sha256,
			error_kind, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, normalizePath(run.Path), run.Field, string(run.Status), run.Records,
		nullString(run.InputSHA256), nullString(run.ErrorKind), nullString(run.Error),
		run.StartedAt.UTC().Format(timeFormat), run.FinishedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", run.ID, err)
	}
	return nil
}

// ListOptions filters List.
type ListOptions struct {
	// Path restricts results to runs against this file.
	Path string

	// Limit caps the result count. Zero uses the default of 20.
	Limit int
}

// List returns recorded runs, most recent first.
func (j *Journal) List(ctx context.Context, opts ListOptions) ([]types.Run, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	query := `SELECT id, path, field, status, records, input_sha256, error_kind,
			error, started_at, finished_at
		FROM runs`
	var args []any
	if opts.Path != "" {
		query += ` WHERE path = ?`
		args = append(args, normalizePath(opts.Path))
	}
	query += ` ORDER BY seq DESC LIMIT ?`
	args = append(args, limit)

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []types.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// LastSuccess returns the most recent successful run against path, or nil
// if there is none.
func (j *Journal) LastSuccess(ctx context.Context, path string) (*types.Run, error) {
	row := j.db.QueryRowContext(ctx,
		`SELECT id, path, field, status, records, input_sha256, error_kind,
			error, started_at, finished_at
		FROM runs
		WHERE path = ? AND status = ?
		ORDER BY seq DESC LIMIT 1`,
		normalizePath(path), string(types.RunSucceeded),
	)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (types.Run, error) {
	var (
		run                     types.Run
		status                  string
		sha, errKind, errMsg    sql.NullString
		startedText, finishText string
	)
	if err := s.Scan(&run.ID, &run.Path, &run.Field, &status, &run.Records,
		&sha, &errKind, &errMsg, &startedText, &finishText); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return run, err
		}
		return run, fmt.Errorf("scanning run: %w", err)
	}

	run.Status = types.RunStatus(status)
	run.InputSHA256 = sha.String
	run.ErrorKind = errKind.String
	run.Error = errMsg.String

	var err error
	if run.StartedAt, err = time.Parse(timeFormat, startedText); err != nil {
		return run, fmt.Errorf("parsing started_at for run %s: %w", run.ID, err)
	}
	if run.FinishedAt, err = time.Parse(timeFormat, finishText); err != nil {
		return run, fmt.Errorf("parsing finished_at for run %s: %w", run.ID, err)
	}
	return run, nil
}

func normalizePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
