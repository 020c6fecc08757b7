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
	"log/slog"
	"strings"
	"time"

	"github.com/NVIDIA/scanwatch/pkg/defaults"
	cnserrors "github.com/NVIDIA/scanwatch/pkg/errors"
)

// RetentionPolicy controls which snapshots ApplyRetention deletes.
type RetentionPolicy struct {
	// Days is the maximum snapshot age. Must be positive.
	Days int `json:"retention_days" yaml:"retention_days"`

	// KeepRecentPerType protects the newest N snapshots of every type
	// regardless of age. Negative values count as zero.
	KeepRecentPerType int `json:"keep_recent_per_type" yaml:"keep_recent_per_type"`

	// Compact runs VACUUM when at least one row was deleted.
	Compact bool `json:"compact" yaml:"compact"`
}

// RetentionResult reports what a retention pass did.
type RetentionResult struct {
	DeletedCount            int64 `json:"deleted_count" yaml:"deleted_count"`
	RetentionDays           int   `json:"retention_days" yaml:"retention_days"`
	KeepRecentPerType       int   `json:"keep_recent_per_type" yaml:"keep_recent_per_type"`
	Compacted               bool  `json:"compacted" yaml:"compacted"`
	SkippedInvalidTimestamp int   `json:"skipped_invalid_timestamp" yaml:"skipped_invalid_timestamp"`
}

type retentionRow struct {
	id         int64
	kind       string
	capturedAt string
}

// ApplyRetention deletes snapshots captured before now minus policy.Days,
// except the newest KeepRecentPerType snapshots of each type and rows whose
// captured_at cannot be parsed.
func (s *Store) ApplyRetention(ctx context.Context, policy RetentionPolicy) (*RetentionResult, error) {
	if policy.Days <= 0 {
		return nil, cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
			"retention days must be > 0", map[string]any{"retention_days": policy.Days})
	}
	start := time.Now()
	defer func() { retentionDuration.Observe(time.Since(start).Seconds()) }()

	keep := max(0, policy.KeepRecentPerType)
	cutoff := s.opts.now().UTC().Add(-time.Duration(policy.Days) * 24 * time.Hour)

	result := &RetentionResult{
		RetentionDays:     policy.Days,
		KeepRecentPerType: keep,
	}

	err := runTx(ctx, s.db, &s.opts, func(tx *sql.Tx) error {
		rows, err := loadRetentionRows(ctx, tx)
		if err != nil {
			return err
		}

		var deletable []int64
		deletable, result.SkippedInvalidTimestamp = selectExpired(rows, keep, cutoff)

		deleted, err := deleteIDs(ctx, tx, deletable)
		if err != nil {
			return err
		}
		result.DeletedCount = deleted
		return nil
	})
	if err != nil {
		return nil, cnserrors.WrapWithContext(cnserrors.ErrCodeUnavailable,
			"failed to apply retention", err, map[string]any{"db_path": s.path})
	}

	if policy.Compact && result.DeletedCount > 0 {
		if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
			return nil, cnserrors.WrapWithContext(cnserrors.ErrCodeUnavailable,
				"failed to compact snapshot store", err, map[string]any{"db_path": s.path})
		}
		result.Compacted = true
		retentionCompactionsTotal.Inc()
	}

	retentionDeletedTotal.Add(float64(result.DeletedCount))
	retentionSkippedTotal.Add(float64(result.SkippedInvalidTimestamp))

	slog.Debug("retention applied",
		"deleted", result.DeletedCount,
		"skipped_invalid_timestamp", result.SkippedInvalidTimestamp,
		"compacted", result.Compacted,
		"cutoff", FormatTimestamp(cutoff))

	return result, nil
}

func loadRetentionRows(ctx context.Context, tx *sql.Tx) ([]retentionRow, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, snapshot_type, captured_at FROM scan_snapshots ORDER BY snapshot_type ASC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var out []retentionRow
	for rows.Next() {
		var r retentionRow
		if err := rows.Scan(&r.id, &r.kind, &r.capturedAt); err != nil {
			return nil, fmt.Errorf("failed to read snapshot row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// selectExpired returns the ids older than cutoff. rows must be ordered by
// type and then newest first; the first keep rows of each type are never
// selected. Unparseable timestamps are counted and kept.
func selectExpired(rows []retentionRow, keep int, cutoff time.Time) ([]int64, int) {
	seen := make(map[string]int)
	var (
		expired []int64
		skipped int
	)
	for _, r := range rows {
		if seen[r.kind] < keep {
			seen[r.kind]++
			continue
		}
		captured, ok := ParseTimestamp(r.capturedAt)
		if !ok {
			skipped++
			continue
		}
		if captured.Before(cutoff) {
			expired = append(expired, r.id)
		}
	}
	return expired, skipped
}

func deleteIDs(ctx context.Context, tx *sql.Tx, ids []int64) (int64, error) {
	var total int64
	for start := 0; start < len(ids); start += defaults.RetentionDeleteBatch {
		batch := ids[start:min(start+defaults.RetentionDeleteBatch, len(ids))]
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(batch)), ",")
		args := make([]any, len(batch))
		for i, id := range batch {
			args[i] = id
		}
		res, err := tx.ExecContext(ctx,
			"DELETE FROM scan_snapshots WHERE id IN ("+placeholders+")", args...)
		if err != nil {
			return total, fmt.Errorf("failed to delete expired snapshots: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("failed to count deleted snapshots: %w", err)
		}
		total += n
	}
	return total, nil
}
