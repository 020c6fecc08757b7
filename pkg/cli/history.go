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
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/scanwatch/pkg/api"
	"github.com/NVIDIA/scanwatch/pkg/defaults"
	cnserrors "github.com/NVIDIA/scanwatch/pkg/errors"
	"github.com/NVIDIA/scanwatch/pkg/payload"
	"github.com/NVIDIA/scanwatch/pkg/snapshot"
)

func historyCmd() *cli.Command {
	return &cli.Command{
		Name:                  "history",
		EnableShellCompletion: true,
		Usage:                 "List recent cycle summaries, newest first",
		Flags: append(storeFlags(),
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage: fmt.Sprintf("Number of summaries to list (%d-%d)",
					defaults.RecentCycleSummariesMin, defaults.RecentCycleSummariesMax),
				Value: defaults.RecentCycleSummariesDefault,
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

			cycles, err := store.RecentCycleSummaries(ctx, cmd.Int("limit"))
			if err != nil {
				return err
			}
			if cycles == nil {
				cycles = []*snapshot.Snapshot{}
			}
			return writeOutput(ctx, cmd, cycles)
		},
	}
}

func latestCmd() *cli.Command {
	kinds := make([]string, 0, len(payload.Kinds()))
	for _, k := range payload.Kinds() {
		kinds = append(kinds, k.String())
	}

	return &cli.Command{
		Name:                  "latest",
		EnableShellCompletion: true,
		Usage:                 "Print the newest snapshot of one type",
		Flags: append(storeFlags(),
			&cli.StringFlag{
				Name:  "type",
				Usage: fmt.Sprintf("Snapshot type (supported: %s)", strings.Join(kinds, ", ")),
				Value: payload.KindCycleSummary.String(),
			},
			outputFlag(),
			formatFlag(),
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if _, err := parseOutputFormat(cmd); err != nil {
				return err
			}

			kind := payload.Kind(cmd.String("type"))
			if !kind.IsKnown() {
				return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
					"unknown snapshot type", map[string]any{"type": kind.String(), "supported": kinds})
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

			snap, err := store.Latest(ctx, kind)
			if err != nil {
				return err
			}
			if snap == nil {
				return cnserrors.NewWithContext(cnserrors.ErrCodeNotFound,
					"no snapshot of this type has been captured", map[string]any{"type": kind.String()})
			}
			return writeOutput(ctx, cmd, snap)
		},
	}
}

func statusCmd() *cli.Command {
	return &cli.Command{
		Name:                  "status",
		EnableShellCompletion: true,
		Usage:                 "Print snapshot counts and the latest cycle",
		Flags:                 append(storeFlags(), outputFlag(), formatFlag()),
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

			st, err := api.BuildStatus(ctx, store, time.Now())
			if err != nil {
				return err
			}
			return writeOutput(ctx, cmd, st)
		},
	}
}

func pruneCmd() *cli.Command {
	return &cli.Command{
		Name:                  "prune",
		EnableShellCompletion: true,
		Usage:                 "Apply the retention policy once",
		Description: `Delete snapshots older than --days, keeping the newest --keep snapshots of
every type regardless of age. Rows with an unparsable captured_at are never
deleted. With --compact the database is vacuumed when anything was removed.

Defaults come from the config file and SCHEDULER_RETENTION_* variables.`,
		Flags: append(storeFlags(),
			&cli.IntFlag{
				Name:  "days",
				Usage: "Maximum snapshot age in days",
			},
			&cli.IntFlag{
				Name:  "keep",
				Usage: "Snapshots of each type kept regardless of age",
			},
			&cli.BoolFlag{
				Name:  "compact",
				Usage: "Vacuum the database after deleting",
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

			policy := snapshot.RetentionPolicy{
				Days:              cfg.RetentionDays,
				KeepRecentPerType: cfg.RetentionKeepRecentPerType,
				Compact:           cmd.Bool("compact"),
			}
			if cmd.IsSet("days") {
				policy.Days = cmd.Int("days")
			}
			if cmd.IsSet("keep") {
				policy.KeepRecentPerType = cmd.Int("keep")
			}
			if policy.Days <= 0 {
				return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
					"retention days must be positive", map[string]any{"days": policy.Days})
			}

			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore(store)

			res, err := store.ApplyRetention(ctx, policy)
			if err != nil {
				return err
			}
			return writeOutput(ctx, cmd, res)
		},
	}
}
