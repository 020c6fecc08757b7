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

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/scanwatch/pkg/logging"
)

const (
	name           = "scanwatch"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		EnableShellCompletion: true,
		Usage:                 "Periodic scan scheduler with snapshot history",
		Description: `scanwatch runs scan cycles on a wall-clock aligned interval. Every cycle
collects an asset scope, analyzes the host for anomalies, optionally runs a
vulnerability sweep, and stores each result as a snapshot together with a
summary of what changed since the previous cycle.

  run     - run the scheduler loop (and optionally the read-only API)
  cycle   - run a single cycle and print its summary
  history - list recent cycle summaries
  latest  - print the newest snapshot of one type
  status  - print snapshot counts and the latest cycle
  prune   - apply the retention policy once`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars(logging.EnvLogLevel),
				Value:   "info",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Shorthand for --log-level=debug",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level := cmd.String("log-level")
			if cmd.Bool("debug") {
				level = "debug"
			}
			logging.SetDefaultStructuredLoggerWithLevel(name, version, level)
			return ctx, nil
		},
		Commands: []*cli.Command{
			runCmd(),
			cycleCmd(),
			historyCmd(),
			latestCmd(),
			statusCmd(),
			pruneCmd(),
		},
	}
}

// Execute runs the CLI with the process arguments. It exits the process
// with status 1 on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
