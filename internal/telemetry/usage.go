// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package telemetry records per-request usage locally.
//
// Every completion request gets one row in a sqlite database under the
// olivia home directory: tokens, duration, outcome. Nothing leaves the
// machine. Recording is best-effort; a telemetry failure must never fail
// a send.
package telemetry

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Usage is one recorded completion request.
type Usage struct {
	RequestID        string
	Provider         string
	Model            string
	PromptTokens     int
	CompletionTokens int
	DurationMs       int64
	OK               bool
	ErrorKind        string
	Timestamp        time.Time
}

// ModelTotals aggregates usage per model.
type ModelTotals struct {
	Provider         string
	Model            string
	Requests         int
	Failures         int
	PromptTokens     int
	CompletionTokens int
}

const schema = `
CREATE TABLE IF NOT EXISTS usage (
	request_id        TEXT PRIMARY KEY,
	provider          TEXT NOT NULL,
	model             TEXT NOT NULL,
	prompt_tokens     INTEGER NOT NULL DEFAULT 0,
	completion_tokens INTEGER NOT NULL DEFAULT 0,
	duration_ms       INTEGER NOT NULL DEFAULT 0,
	ok                INTEGER NOT NULL,
	error_kind        TEXT NOT NULL DEFAULT '',
	created_at        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_usage_model ON usage(provider, model);
`

// Recorder persists usage rows.
type Recorder struct {
	db *sql.DB
}

// Open opens (creating if needed) the usage database at path.
func Open(path string) (*Recorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open usage database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize usage schema: %w", err)
	}

	return &Recorder{db: db}, nil
}

// Close closes the underlying database.
func (r *Recorder) Close() error {
	return r.db.Close()
}

// Record inserts one usage row.
func (r *Recorder) Record(u Usage) error {
	ok := 0
	if u.OK {
		ok = 1
	}
	_, err := r.db.Exec(
		`INSERT INTO usage (request_id, provider, model, prompt_tokens, completion_tokens, duration_ms, ok, error_kind, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.RequestID, u.Provider, u.Model,
		u.PromptTokens, u.CompletionTokens, u.DurationMs,
		ok, u.ErrorKind, u.Timestamp.UTC().Format(time.RFC3339),
	)
	return err
}

// Totals aggregates all recorded usage per provider/model, most requests
// first.
func (r *Recorder) Totals() ([]ModelTotals, error) {
	rows, err := r.db.Query(
		`SELECT provider, model,
		        COUNT(*),
		        SUM(CASE WHEN ok = 0 THEN 1 ELSE 0 END),
		        SUM(prompt_tokens),
		        SUM(completion_tokens)
		 FROM usage
		 GROUP BY provider, model
		 ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ModelTotals
	for rows.Next() {
		var t ModelTotals
		if err := rows.Scan(&t.Provider, &t.Model, &t.Requests, &t.Failures, &t.PromptTokens, &t.CompletionTokens); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Recent returns the n most recent usage rows.
func (r *Recorder) Recent(n int) ([]Usage, error) {
	rows, err := r.db.Query(
		`SELECT request_id, provider, model, prompt_tokens, completion_tokens, duration_ms, ok, error_kind, created_at
		 FROM usage ORDER BY created_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Usage
	for rows.Next() {
		var u Usage
		var ok int
		var ts string
		if err := rows.Scan(&u.RequestID, &u.Provider, &u.Model, &u.PromptTokens, &u.CompletionTokens, &u.DurationMs, &ok, &u.ErrorKind, &ts); err != nil {
			return nil, err
		}
		u.OK = ok == 1
		u.Timestamp, _ = time.Parse(time.RFC3339, ts)
		out = append(out, u)
	}
	return out, rows.Err()
}
