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
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/NVIDIA/scanwatch/pkg/defaults"
	cnserrors "github.com/NVIDIA/scanwatch/pkg/errors"
	"github.com/NVIDIA/scanwatch/pkg/payload"
)

// Snapshot is one persisted payload.
type Snapshot struct {
	ID         int64            `json:"id" yaml:"id"`
	Type       payload.Kind     `json:"snapshot_type" yaml:"snapshot_type"`
	CapturedAt string           `json:"captured_at" yaml:"captured_at"`
	Payload    payload.Document `json:"payload" yaml:"payload"`
}

// Store is an append-only SQLite history of snapshots. It is safe for
// concurrent use; writes are serialized on a single connection.
type Store struct {
	db   *sql.DB
	path string
	opts options
}

// Open opens or creates the snapshot database at path.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest, "database path is required")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	db, err := openDB(ctx, path, &o)
	if err != nil {
		return nil, cnserrors.WrapWithContext(cnserrors.ErrCodeUnavailable,
			"failed to open snapshot store", err, map[string]any{"db_path": path})
	}

	slog.Debug("snapshot store opened", "db_path", path)
	return &Store{db: db, path: path, opts: o}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert appends a snapshot and returns its id. An empty capturedAt is
// replaced by the current UTC time. A nil payload is stored as {}.
func (s *Store) Insert(ctx context.Context, kind payload.Kind, doc payload.Document, capturedAt string) (int64, error) {
	if kind == "" {
		return 0, cnserrors.New(cnserrors.ErrCodeInvalidRequest, "snapshot type is required")
	}
	if capturedAt == "" {
		capturedAt = FormatTimestamp(s.opts.now())
	}
	if doc == nil {
		doc = payload.Document{}
	}

	encoded, err := json.Marshal(doc)
	if err != nil {
		snapshotInsertTotal.WithLabelValues(kind.String(), "error").Inc()
		return 0, cnserrors.WrapWithContext(cnserrors.ErrCodeInvalidRequest,
			"failed to encode snapshot payload", err, map[string]any{"snapshot_type": kind.String()})
	}

	var id int64
	err = runTx(ctx, s.db, &s.opts, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO scan_snapshots(snapshot_type, captured_at, payload_json) VALUES(?, ?, ?)`,
			kind.String(), capturedAt, string(encoded))
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		snapshotInsertTotal.WithLabelValues(kind.String(), "error").Inc()
		return 0, cnserrors.WrapWithContext(cnserrors.ErrCodeUnavailable,
			"failed to insert snapshot", err, map[string]any{"snapshot_type": kind.String(), "db_path": s.path})
	}

	snapshotInsertTotal.WithLabelValues(kind.String(), "success").Inc()
	snapshotInsertBytes.WithLabelValues(kind.String()).Observe(float64(len(encoded)))
	return id, nil
}

// Latest returns the snapshot of kind with the greatest id, or nil when
// there is none.
func (s *Store) Latest(ctx context.Context, kind payload.Kind) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, snapshot_type, captured_at, payload_json FROM scan_snapshots
		 WHERE snapshot_type = ? ORDER BY id DESC LIMIT 1`, kind.String())

	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if cnserrors.CodeOf(err) != "" {
		return nil, err
	}
	if err != nil {
		return nil, cnserrors.WrapWithContext(cnserrors.ErrCodeUnavailable,
			"failed to read latest snapshot", err, map[string]any{"snapshot_type": kind.String()})
	}
	return snap, nil
}

// RecentCycleSummaries returns up to limit cycle summaries, newest first.
// The limit is clamped to [1, 200].
func (s *Store) RecentCycleSummaries(ctx context.Context, limit int) ([]*Snapshot, error) {
	limit = max(defaults.RecentCycleSummariesMin, min(limit, defaults.RecentCycleSummariesMax))

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, snapshot_type, captured_at, payload_json FROM scan_snapshots
		 WHERE snapshot_type = ? ORDER BY id DESC LIMIT ?`,
		payload.KindCycleSummary.String(), limit)
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeUnavailable, "failed to query cycle summaries", err)
	}
	defer rows.Close()

	result := make([]*Snapshot, 0, limit)
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if cnserrors.CodeOf(err) != "" {
			return nil, err
		}
		if err != nil {
			return nil, cnserrors.Wrap(cnserrors.ErrCodeUnavailable, "failed to read cycle summary", err)
		}
		result = append(result, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeUnavailable, "failed to iterate cycle summaries", err)
	}
	return result, nil
}

// Counts returns the number of stored snapshots per type.
func (s *Store) Counts(ctx context.Context) (map[payload.Kind]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT snapshot_type, COUNT(*) FROM scan_snapshots GROUP BY snapshot_type`)
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeUnavailable, "failed to count snapshots", err)
	}
	defer rows.Close()

	counts := make(map[payload.Kind]int64)
	for rows.Next() {
		var kind string
		var n int64
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, cnserrors.Wrap(cnserrors.ErrCodeUnavailable, "failed to read snapshot count", err)
		}
		counts[payload.Kind(kind)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeUnavailable, "failed to iterate snapshot counts", err)
	}
	return counts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanSnapshot decodes one row. Valid JSON that is not an object decodes to
// an empty payload.
func scanSnapshot(row rowScanner) (*Snapshot, error) {
	var (
		snap    Snapshot
		kind    string
		encoded string
	)
	if err := row.Scan(&snap.ID, &kind, &snap.CapturedAt, &encoded); err != nil {
		return nil, err
	}
	snap.Type = payload.Kind(kind)

	var raw any
	if err := json.Unmarshal([]byte(encoded), &raw); err != nil {
		return nil, cnserrors.WrapWithContext(cnserrors.ErrCodeInternal,
			"stored payload is not valid JSON", err, map[string]any{"id": snap.ID})
	}
	snap.Payload = payload.AsDocument(raw)
	if snap.Payload == nil {
		snap.Payload = payload.Document{}
	}
	return &snap, nil
}

// Age returns how long ago the snapshot was captured, or false when
// captured_at cannot be parsed.
func (s *Snapshot) Age(now time.Time) (time.Duration, bool) {
	t, ok := ParseTimestamp(s.CapturedAt)
	if !ok {
		return 0, false
	}
	return now.Sub(t), true
}
