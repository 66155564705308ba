// Copyright (c) 2026, winsock-http authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"

	"github.com/winsock-http/wsbuild/pkg/defaults"
	"github.com/winsock-http/wsbuild/pkg/errors"
)

const appName = "wsbuild"

// DefaultPath returns the history database location.
//
//	Linux:   $XDG_DATA_HOME/wsbuild/history.db or ~/.local/share/wsbuild/history.db
//	macOS:   ~/Library/Application Support/wsbuild/history.db
func DefaultPath() string {
	return filepath.Join(xdg.DataHome, appName, "history.db")
}

// Status of a recorded phase.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Entry is one recorded phase of an invocation.
type Entry struct {
	ID           int64         `json:"id" yaml:"id"`
	InvocationID string        `json:"invocationId" yaml:"invocationId"`
	Recipe       string        `json:"recipe" yaml:"recipe"`
	Version      string        `json:"version" yaml:"version"`
	Settings     string        `json:"settings" yaml:"settings"`
	Options      string        `json:"options" yaml:"options"`
	Phase        string        `json:"phase" yaml:"phase"`
	Status       Status        `json:"status" yaml:"status"`
	ExitCode     int           `json:"exitCode" yaml:"exitCode"`
	Error        string        `json:"error,omitempty" yaml:"error,omitempty"`
	StartedAt    time.Time     `json:"startedAt" yaml:"startedAt"`
	Duration     time.Duration `json:"duration" yaml:"duration"`
}

// Store persists entries in a SQLite database.
type Store struct {
	db           *sql.DB
	path         string
	queryTimeout time.Duration
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS invocations (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	invocation_id TEXT    NOT NULL,
	recipe        TEXT    NOT NULL,
	version       TEXT    NOT NULL,
	settings      TEXT    NOT NULL DEFAULT '{}',
	options       TEXT    NOT NULL DEFAULT '{}',
	phase         TEXT    NOT NULL,
	status        TEXT    NOT NULL,
	exit_code     INTEGER NOT NULL DEFAULT 0,
	error         TEXT    NOT NULL DEFAULT '',
	started_at    INTEGER NOT NULL,
	duration_ns   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_invocations_started_at ON invocations (started_at);
`

// Open opens (creating if needed) the database at path. Empty path uses
// DefaultPath.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), defaults.DirMode); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to create history directory", err)
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to open history database", err)
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(ctx, defaults.HistoryOpenTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.WrapWithContext(errors.ErrCodeUnavailable, "failed to connect to history database", err,
			map[string]any{"path": path})
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to migrate history database", err)
	}

	return &Store{db: db, path: path, queryTimeout: defaults.HistoryQueryTimeout}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record inserts e and returns its row id.
func (s *Store) Record(ctx context.Context, e Entry) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if e.Settings == "" {
		e.Settings = "{}"
	}
	if e.Options == "" {
		e.Options = "{}"
	}

	res, err := s.db.ExecContext(ctx, `
INSERT INTO invocations
	(invocation_id, recipe, version, settings, options, phase, status, exit_code, error, started_at, duration_ns)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.InvocationID, e.Recipe, e.Version, e.Settings, e.Options, e.Phase, string(e.Status),
		e.ExitCode, e.Error, e.StartedAt.UnixNano(), int64(e.Duration))
	if err != nil {
		return 0, fmt.Errorf("failed to record invocation: %w", err)
	}
	return res.LastInsertId()
}

// List returns the most recent entries, newest first. limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	query := `
SELECT id, invocation_id, recipe, version, settings, options, phase, status, exit_code, error, started_at, duration_ns
FROM invocations ORDER BY started_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var (
			e       Entry
			status  string
			started int64
			dur     int64
		)
		if err := rows.Scan(&e.ID, &e.InvocationID, &e.Recipe, &e.Version, &e.Settings, &e.Options,
			&e.Phase, &status, &e.ExitCode, &e.Error, &started, &dur); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		e.Status = Status(status)
		e.StartedAt = time.Unix(0, started).UTC()
		e.Duration = time.Duration(dur)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return entries, nil
}
