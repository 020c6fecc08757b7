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

package defaults

import "time"

// Collector timeouts for scope, analysis and vulnerability collection.
const (
	// CollectorTimeout bounds a single host or systemd collection.
	// Collectors respect parent context deadlines when shorter.
	CollectorTimeout = 10 * time.Second

	// CollectorK8sTimeout is the timeout for Kubernetes API calls in collectors.
	CollectorK8sTimeout = 30 * time.Second
)

// Snapshot store timeouts and retry parameters.
const (
	// StoreBusyTimeout is the SQLite busy_timeout applied to every connection.
	StoreBusyTimeout = 10 * time.Second

	// StoreBusyRetries is the number of attempts for a transaction that
	// fails with SQLITE_BUSY.
	StoreBusyRetries = 3

	// StoreBusyBackoff is the base backoff between busy retries. Attempt n
	// waits n times this value.
	StoreBusyBackoff = 100 * time.Millisecond
)

// Handler timeouts for HTTP request processing.
const (
	// HistoryHandlerTimeout is the timeout for read-only history requests.
	HistoryHandlerTimeout = 10 * time.Second
)

// Server timeouts for HTTP server configuration.
const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second

	// ServerReadinessTimeout bounds all readiness checks of one /ready call.
	ServerReadinessTimeout = 2 * time.Second
)

// Server listener defaults. The API only reads local scan history, so it
// binds to loopback unless told otherwise.
const (
	ServerAddress        = "127.0.0.1"
	ServerPort           = 8080
	ServerRateLimit      = 20
	ServerRateLimitBurst = 40
)

// CLI timeouts for one-shot commands.
const (
	// CLICycleTimeout is the default timeout for the one-shot cycle command.
	CLICycleTimeout = 10 * time.Minute
)
