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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Store write metrics
	snapshotInsertTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scanwatch_snapshot_insert_total",
			Help: "Total number of snapshot insert attempts",
		},
		[]string{"snapshot_type", "status"}, // status: success or error
	)

	snapshotInsertBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scanwatch_snapshot_payload_bytes",
			Help:    "Size of persisted snapshot payloads",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8),
		},
		[]string{"snapshot_type"},
	)

	// Retention metrics
	retentionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scanwatch_retention_duration_seconds",
			Help:    "Time taken to apply the retention policy, including compaction",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		},
	)

	retentionDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scanwatch_retention_deleted_total",
			Help: "Total number of snapshots deleted by retention",
		},
	)

	retentionSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scanwatch_retention_skipped_invalid_timestamp_total",
			Help: "Total number of snapshots kept because captured_at could not be parsed",
		},
	)

	retentionCompactionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scanwatch_retention_compactions_total",
			Help: "Total number of VACUUM compactions",
		},
	)
)
