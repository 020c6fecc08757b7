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

package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/NVIDIA/scanwatch/pkg/cycle"
	cnserrors "github.com/NVIDIA/scanwatch/pkg/errors"
	"github.com/NVIDIA/scanwatch/pkg/snapshot"
)

// Config controls the scheduler loop.
type Config struct {
	// Interval between cycle starts. Must be a whole number of seconds.
	Interval time.Duration

	// MaxCycles stops the loop after this many cycles. Nil runs forever.
	MaxCycles *int

	// RetentionDays enables retention after every cycle when positive.
	RetentionDays int

	// RetentionKeepRecentPerType is passed through to the retention policy.
	RetentionKeepRecentPerType int

	// CompactEveryCycles compacts on cycles that are a multiple of it.
	// Zero or negative never compacts.
	CompactEveryCycles int
}

// CycleFunc runs one cycle. Cycle numbers start at 1.
type CycleFunc func(ctx context.Context, cycleNumber int) (*cycle.Summary, error)

// RetentionFunc applies a retention policy.
type RetentionFunc func(ctx context.Context, policy snapshot.RetentionPolicy) (*snapshot.RetentionResult, error)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// NowFunc returns the current time.
type NowFunc func() time.Time

// TickFunc computes the next aligned cycle start.
type TickFunc func(interval time.Duration, now time.Time) (time.Time, error)

// Scheduler runs cycles on wall-clock aligned ticks.
type Scheduler struct {
	config   Config
	runCycle CycleFunc
	retain   RetentionFunc
	sleep    SleepFunc
	now      NowFunc
	nextTick TickFunc
	logger   *slog.Logger

	startFields []any
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithRetention sets the function used to apply retention.
func WithRetention(fn RetentionFunc) Option {
	return func(s *Scheduler) { s.retain = fn }
}

// WithSleep replaces the context-aware sleep.
func WithSleep(fn SleepFunc) Option {
	return func(s *Scheduler) { s.sleep = fn }
}

// WithClock replaces time.Now.
func WithClock(fn NowFunc) Option {
	return func(s *Scheduler) { s.now = fn }
}

// WithTick replaces NextTick.
func WithTick(fn TickFunc) Option {
	return func(s *Scheduler) { s.nextTick = fn }
}

// WithStartFields appends key/value pairs to the scheduler_start log line.
func WithStartFields(args ...any) Option {
	return func(s *Scheduler) { s.startFields = append(s.startFields, args...) }
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// New validates cfg and returns a Scheduler.
func New(cfg Config, runCycle CycleFunc, opts ...Option) (*Scheduler, error) {
	if runCycle == nil {
		return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest, "cycle function is required")
	}
	if _, err := NextTick(cfg.Interval, time.Unix(0, 0)); err != nil {
		return nil, err
	}

	s := &Scheduler{
		config:   cfg,
		runCycle: runCycle,
		sleep:    sleepContext,
		now:      time.Now,
		nextTick: NextTick,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if cfg.RetentionDays > 0 && s.retain == nil {
		return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest,
			"retention is enabled but no retention function is configured")
	}
	return s, nil
}

// Run executes cycles until MaxCycles is reached, a cycle or retention pass
// fails, or ctx is cancelled. Cancellation returns ctx.Err().
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler_start", append([]any{
		"interval_seconds", int(s.config.Interval / time.Second),
		"max_cycles", maxCyclesAttr(s.config.MaxCycles),
		"retention_days", s.config.RetentionDays,
		"retention_keep_recent_per_type", s.config.RetentionKeepRecentPerType,
		"compact_every_cycles", s.config.CompactEveryCycles,
	}, s.startFields...)...)

	for n := 1; s.config.MaxCycles == nil || n <= *s.config.MaxCycles; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		cycleStart := s.now()
		summary, err := s.runCycle(ctx, n)
		if err != nil {
			schedulerCycleTotal.WithLabelValues("error").Inc()
			return fmt.Errorf("cycle %d: %w", n, err)
		}
		schedulerCycleTotal.WithLabelValues("success").Inc()
		s.logCycleComplete(n, summary)

		if s.config.RetentionDays > 0 {
			if err := s.applyRetention(ctx, n); err != nil {
				return err
			}
		}

		if s.config.MaxCycles != nil && n >= *s.config.MaxCycles {
			break
		}

		target, err := s.nextTick(s.config.Interval, cycleStart)
		if err != nil {
			return err
		}
		wait := target.Sub(s.now())
		if wait < 0 {
			schedulerOverrunTotal.Inc()
			wait = 0
		}
		schedulerSleepSeconds.Observe(wait.Seconds())
		if err := s.sleep(ctx, wait); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) applyRetention(ctx context.Context, n int) error {
	policy := snapshot.RetentionPolicy{
		Days:              s.config.RetentionDays,
		KeepRecentPerType: s.config.RetentionKeepRecentPerType,
		Compact:           s.config.CompactEveryCycles > 0 && n%s.config.CompactEveryCycles == 0,
	}
	result, err := s.retain(ctx, policy)
	if err != nil {
		return fmt.Errorf("retention after cycle %d: %w", n, err)
	}
	if result == nil {
		result = &snapshot.RetentionResult{RetentionDays: policy.Days, KeepRecentPerType: policy.KeepRecentPerType}
	}
	s.logger.Info("scheduler_retention",
		"cycle", n,
		"deleted", result.DeletedCount,
		"compacted", result.Compacted,
		"retention_days", result.RetentionDays,
		"keep_recent", result.KeepRecentPerType,
		"skipped_invalid_timestamp", result.SkippedInvalidTimestamp)
	return nil
}

func (s *Scheduler) logCycleComplete(n int, summary *cycle.Summary) {
	if summary == nil {
		s.logger.Info("scheduler_cycle_complete", "cycle", n)
		return
	}
	s.logger.Info("scheduler_cycle_complete",
		"cycle", n,
		"cycle_summary_id", summary.CycleSummaryID,
		"assets", summary.Scope.TotalAssets,
		"overall_risk", summary.Analysis.OverallRisk,
		"anomalies", summary.Analysis.AnomalyFindingsTotal)
}

func maxCyclesAttr(n *int) any {
	if n == nil {
		return "unlimited"
	}
	return *n
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
