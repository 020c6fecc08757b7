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

// Package cli implements the scanwatch command-line interface.
//
// # Commands
//
// run - Run the scheduler loop:
//
//	scanwatch run --interval 300 --enable-security-sweep --listen 127.0.0.1:8080
//
// Runs scan cycles on wall-clock aligned ticks until interrupted or until
// --max-cycles is reached. Retention runs after every cycle when enabled.
//
// cycle - Run one cycle now and print its summary:
//
//	scanwatch cycle --format json
//
// history, latest, status - Read the snapshot store:
//
//	scanwatch history --limit 5
//	scanwatch latest --type analysis --output analysis.yaml
//	scanwatch status
//
// prune - Apply the retention policy once:
//
//	scanwatch prune --days 7 --keep 3 --compact
//
// # Configuration
//
// Settings are layered: defaults, then the file given by --config (YAML or
// JSON), then SCHEDULER_* environment variables, then flags. The database
// path is resolved against the working directory.
//
// # Global Flags
//
//	--log-level    Logging verbosity: debug, info, warn, error (env: LOG_LEVEL)
//	--debug        Shorthand for --log-level=debug
//	--version, -v  Show version information
//
// Read commands also accept --output/-o and --format/-t (yaml, json, table).
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/scanwatch/pkg/cli.version=1.0.0'"
package cli
