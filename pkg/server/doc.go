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

// Package server provides the HTTP server behind the scanwatch API.
//
// Routes passed with WithHandler are served behind a middleware chain:
//
//   - Prometheus request metrics
//   - Request ID tracking through X-Request-Id
//   - Panic recovery
//   - Token bucket rate limiting (golang.org/x/time/rate)
//   - Request logging (debug, or warn for 5xx)
//
// The server also answers /health, /ready and /metrics outside the chain,
// and a root handler listing the registered routes unless one is supplied.
// /ready runs the checks registered with WithReadinessCheck concurrently
// and reports 503 when any of them fails.
//
// # Usage
//
//	s := server.New(
//	    server.WithName("scanwatch"),
//	    server.WithVersion(version),
//	    server.WithAddress("127.0.0.1:8080"),
//	    server.WithHandler(map[string]http.HandlerFunc{
//	        "/v1/status": handleStatus,
//	    }),
//	)
//	if err := s.Run(ctx); err != nil {
//	    return err
//	}
//
// Run blocks until ctx is cancelled and then shuts down within
// Config.ShutdownTimeout. PORT and SHUTDOWN_TIMEOUT_SECONDS override the
// defaults from NewConfig.
//
// # Errors
//
// Handlers report failures with WriteError or WriteErrorFromErr. The latter
// maps structured error codes from pkg/errors to HTTP statuses:
//
//	INVALID_REQUEST       400
//	NOT_FOUND             404
//	METHOD_NOT_ALLOWED    405
//	RATE_LIMIT_EXCEEDED   429
//	SERVICE_UNAVAILABLE   503
//	TIMEOUT               504
//	anything else         500
//
// Error bodies carry the code, message, details, request ID, timestamp and
// whether the request can be retried.
package server
