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
	"errors"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/scanwatch/pkg/api"
	"github.com/NVIDIA/scanwatch/pkg/config"
	"github.com/NVIDIA/scanwatch/pkg/defaults"
	"github.com/NVIDIA/scanwatch/pkg/scheduler"
)

func runCmd() *cli.Command {
	return &cli.Command{
		Name:                  "run",
		EnableShellCompletion: true,
		Usage:                 "Run scan cycles on a fixed interval",
		Description: `Run the scheduler loop. Cycles start on wall-clock boundaries that are a
multiple of the interval, so a 300 second interval runs at :00, :05, :10 and
so on. Retention runs after every cycle when retention_days is positive.

Settings come from the config file, then SCHEDULER_* environment variables,
then flags. With --listen, the read-only HTTP API is served alongside the
loop and stops with it.

# Examples

Run every minute for three cycles:
  scanwatch run --interval 60 --max-cycles 3

Run with the vulnerability sweep and the API:
  scanwatch run --enable-security-sweep --listen 127.0.0.1:8080`,
		Flags: append(storeFlags(),
			kubeconfigFlag(),
			&cli.IntFlag{
				Name:  "interval",
				Usage: fmt.Sprintf("Seconds between cycle starts (default: %d)", config.DefaultIntervalSeconds),
			},
			&cli.IntFlag{
				Name:  "max-cycles",
				Usage: "Stop after this many cycles (default: run until interrupted)",
			},
			&cli.StringFlag{
				Name:  "listen",
				Usage: "Serve the read-only API on this host:port",
			},
			&cli.BoolFlag{
				Name:  "enable-security-sweep",
				Usage: "Run the vulnerability sweep every cycle",
			},
			&cli.IntFlag{
				Name:  "security-max-targets",
				Usage: fmt.Sprintf("Maximum assets evaluated by the sweep (default: %d)", config.DefaultSecurityMaxTargets),
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore(store)

			runner, err := newRunner(cfg, store)
			if err != nil {
				return err
			}

			opts := []scheduler.Option{
				scheduler.WithStartFields(
					"enable_security_sweep", cfg.EnableSecuritySweep,
					"security_max_targets", cfg.SecurityMaxTargets,
					"log_payloads", cfg.LogPayloads,
					"log_payload_max_chars", cfg.LogPayloadMaxChars,
					"db", store.Path(),
				),
			}
			if cfg.RetentionEnabled() {
				opts = append(opts, scheduler.WithRetention(store.ApplyRetention))
			}

			sched, err := scheduler.New(scheduler.Config{
				Interval:                   cfg.Interval(),
				MaxCycles:                  cfg.MaxCycles,
				RetentionDays:              cfg.RetentionDays,
				RetentionKeepRecentPerType: cfg.RetentionKeepRecentPerType,
				CompactEveryCycles:         cfg.CompactEveryCycles,
			}, runner.Run, opts...)
			if err != nil {
				return err
			}

			if cfg.ListenAddress == "" {
				return ignoreCanceled(sched.Run(ctx))
			}

			runCtx, cancel := context.WithCancel(ctx)
			defer cancel()

			g, gctx := errgroup.WithContext(runCtx)
			g.Go(func() error {
				// the API stops once the loop ends
				defer cancel()
				return sched.Run(gctx)
			})
			g.Go(func() error {
				return api.Serve(gctx, cfg.ListenAddress, store)
			})
			return ignoreCanceled(g.Wait())
		},
	}
}

func cycleCmd() *cli.Command {
	return &cli.Command{
		Name:                  "cycle",
		EnableShellCompletion: true,
		Usage:                 "Run one scan cycle and print its summary",
		Description: `Run a single cycle immediately, without waiting for a tick and without
applying retention. The stored cycle summary is printed.`,
		Flags: append(storeFlags(),
			kubeconfigFlag(),
			&cli.BoolFlag{
				Name:  "enable-security-sweep",
				Usage: "Run the vulnerability sweep",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Timeout for the whole cycle",
				Value: defaults.CLICycleTimeout,
			},
			&cli.IntFlag{
				Name:  "security-max-targets",
				Usage: fmt.Sprintf("Maximum assets evaluated by the sweep (default: %d)", config.DefaultSecurityMaxTargets),
			},
			outputFlag(),
			formatFlag(),
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if _, err := parseOutputFormat(cmd); err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore(store)

			runner, err := newRunner(cfg, store)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
			defer cancel()

			summary, err := runner.Run(ctx, 1)
			if err != nil {
				return err
			}
			return writeOutput(ctx, cmd, summary)
		},
	}
}

// ignoreCanceled treats an interrupted loop as a clean exit.
func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		slog.Info("scheduler stopped", "reason", err.Error())
		return nil
	}
	return err
}
