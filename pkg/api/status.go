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

package api

import (
	"context"
	"time"

	"github.com/NVIDIA/scanwatch/pkg/cycle"
	"github.com/NVIDIA/scanwatch/pkg/payload"
	"github.com/NVIDIA/scanwatch/pkg/snapshot"
)

// Reader is the read side of the snapshot store.
type Reader interface {
	Latest(ctx context.Context, kind payload.Kind) (*snapshot.Snapshot, error)
	RecentCycleSummaries(ctx context.Context, limit int) ([]*snapshot.Snapshot, error)
	Counts(ctx context.Context) (map[payload.Kind]int64, error)
}

// LatestCycle describes the newest cycle summary in the store.
type LatestCycle struct {
	ID         int64          `json:"id" yaml:"id"`
	CapturedAt string         `json:"captured_at" yaml:"captured_at"`
	AgeSeconds float64        `json:"age_seconds" yaml:"age_seconds"`
	Summary    *cycle.Summary `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// Status summarizes what the store holds.
type Status struct {
	Counts      map[payload.Kind]int64 `json:"counts" yaml:"counts"`
	Total       int64                  `json:"total" yaml:"total"`
	LatestCycle *LatestCycle           `json:"latest_cycle,omitempty" yaml:"latest_cycle,omitempty"`
	GeneratedAt string                 `json:"generated_at" yaml:"generated_at"`
}

// BuildStatus reads row counts and the newest cycle summary. Every known
// snapshot type is reported, with zero when absent.
func BuildStatus(ctx context.Context, store Reader, now time.Time) (*Status, error) {
	counts, err := store.Counts(ctx)
	if err != nil {
		return nil, err
	}

	st := &Status{
		Counts:      make(map[payload.Kind]int64, len(counts)),
		GeneratedAt: snapshot.FormatTimestamp(now),
	}
	for _, k := range payload.Kinds() {
		st.Counts[k] = 0
	}
	for k, n := range counts {
		st.Counts[k] = n
		st.Total += n
	}

	latest, err := store.Latest(ctx, payload.KindCycleSummary)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		lc := &LatestCycle{
			ID:         latest.ID,
			CapturedAt: latest.CapturedAt,
		}
		if age, ok := latest.Age(now); ok {
			lc.AgeSeconds = age.Seconds()
		}
		var sum cycle.Summary
		if err := latest.Payload.Decode(&sum); err == nil {
			lc.Summary = &sum
		}
		st.LatestCycle = lc
	}

	return st, nil
}
