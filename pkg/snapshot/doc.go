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

// Package snapshot persists scan cycle payloads in an SQLite database.
//
// Every snapshot is a row in scan_snapshots with an auto-incrementing id, a
// type (scope, analysis, vulnerability, cycle_summary), an ISO-8601
// captured_at and a JSON payload. Ids are never reused, so "latest" means
// greatest id rather than newest timestamp.
//
// # Usage
//
//	store, err := snapshot.Open(ctx, "./data/scan_history.db")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	id, err := store.Insert(ctx, payload.KindScope, doc, "")
//	prev, err := store.Latest(ctx, payload.KindScope) // nil when empty
//
// # Retention
//
// ApplyRetention deletes snapshots older than a number of days while always
// keeping the newest N rows of every type, so a long outage never empties
// the history. Rows whose captured_at cannot be parsed are counted and kept.
// With Compact set, VACUUM runs after a pass that deleted rows.
//
// # Concurrency
//
// The store holds a single SQLite connection in WAL mode with a busy
// timeout. Write transactions that still hit SQLITE_BUSY are retried with a
// linear backoff.
package snapshot
