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

// Package api exposes the snapshot store over HTTP.
//
// The API is read-only. Cycles are written by the scheduler; this package
// only serves what has already been persisted.
//
// # Endpoints
//
// Application endpoints (with rate limiting):
//   - GET /v1/cycles?limit=N             - Recent cycle summaries, newest first (default 20, max 200)
//   - GET /v1/snapshots/{type}/latest    - Newest snapshot of one type
//   - GET /v1/status                     - Row counts per type and the latest cycle
//
// System endpoints (no rate limiting):
//   - GET /health  - Health check (liveness probe)
//   - GET /ready   - Readiness check
//   - GET /metrics - Prometheus metrics
//
// Snapshot types are scope, analysis, vulnerability and cycle_summary.
// Unknown types and malformed limits return 400; a type with no rows
// returns 404.
//
// # Usage
//
//	store, err := snapshot.Open(ctx, "scanwatch.db")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//	return api.Serve(ctx, "127.0.0.1:8080", store)
//
// Version information is set at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/scanwatch/pkg/api.version=1.0.0'"
package api
