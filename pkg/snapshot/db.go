// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	// Registers the pure Go "sqlite" driver.
	_ "modernc.org/sqlite"

	"github.com/NVIDIA/scanwatch/pkg/defaults"
)

const driverName = "sqlite"

const schema = `
CREATE TABLE IF NOT EXISTS scan_snapshots (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	snapshot_type TEXT NOT NULL,
	captured_at TEXT NOT NULL,
	payload_json TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_scan_snapshots_type_id
	ON scan_snapshots(snapshot_type, id DESC);
`

type options struct {
	busyTimeout time.Duration
	synchronous string
	retries     int
	backoff     time.Duration
	now         func() time.Time
}

func defaultOptions() options {
	return options{
		busyTimeout: defaults.StoreBusyTimeout,
		synchronous: "NORMAL",
		retries:     defaults.StoreBusyRetries,
		backoff:     defaults.StoreBusyBackoff,
		now:         time.Now,
	}
}

// Option customizes how a Store is opened.
type Option func(*options)

// WithBusyTimeout sets PRAGMA busy_timeout.
func WithBusyTimeout(d time.Duration) Option {
	return func(o *options) { o.busyTimeout = d }
}

// WithSynchronous sets PRAGMA synchronous. Default: NORMAL.
func WithSynchronous(mode string) Option {
	return func(o *options) { o.synchronous = mode }
}

// WithBusyRetries sets how often a busy transaction is attempted and the
// base backoff between attempts.
func WithBusyRetries(attempts int, backoff time.Duration) Option {
	return func(o *options) {
		if attempts > 0 {
			o.retries = attempts
		}
		o.backoff = backoff
	}
}

// WithClock sets the clock used for retention cutoffs.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// openDB opens the SQLite file at path, creating parent directories, and
// applies pragmas and the schema. The pool is limited to a single
// connection so writes are serialized and pragmas stick.
func openDB(ctx context.Context, path string, o *options) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", o.busyTimeout.Milliseconds()),
		fmt.Sprintf("PRAGMA synchronous = %s", o.synchronous),
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// isBusy reports whether err indicates an SQLite BUSY condition.
func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}

// runTx executes fn inside a transaction, retrying while SQLite reports BUSY.
// Attempt n waits n times the configured backoff before retrying.
func runTx(ctx context.Context, db *sql.DB, o *options, fn func(*sql.Tx) error) error {
	var err error
	for attempt := 1; attempt <= o.retries; attempt++ {
		if err = runTxOnce(ctx, db, fn); err == nil || !isBusy(err) {
			return err
		}
		if attempt == o.retries {
			break
		}
		if serr := sleepCtx(ctx, time.Duration(attempt)*o.backoff); serr != nil {
			return fmt.Errorf("context cancelled during busy retry: %w", serr)
		}
	}
	return err
}

func runTxOnce(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
