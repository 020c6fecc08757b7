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

package cycle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"k8s.io/utils/ptr"

	cnserrors "github.com/NVIDIA/scanwatch/pkg/errors"
	"github.com/NVIDIA/scanwatch/pkg/logging"
	"github.com/NVIDIA/scanwatch/pkg/payload"
	"github.com/NVIDIA/scanwatch/pkg/snapshot"
)

// Collaborators produce the payloads of a cycle. Errors and panics are
// contained by the Runner and replaced with placeholders.
type Collaborators interface {
	CollectScope(ctx context.Context) (payload.Document, error)
	AnalyzeSystem(ctx context.Context, query string) (payload.Document, error)
	RunVulnerabilitySweep(ctx context.Context, maxTargets int) (payload.Document, error)
}

// Store is the part of the snapshot store a cycle needs.
type Store interface {
	Insert(ctx context.Context, kind payload.Kind, doc payload.Document, capturedAt string) (int64, error)
	Latest(ctx context.Context, kind payload.Kind) (*snapshot.Snapshot, error)
}

// Runner executes scan cycles against a store.
type Runner struct {
	store         Store
	collaborators Collaborators

	enableSweep      bool
	sweepMaxTargets  int
	logPayloads      bool
	payloadMaxChars  int
	collaboratorTime time.Duration

	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithSecuritySweep enables the vulnerability sweep with a target cap.
func WithSecuritySweep(enabled bool, maxTargets int) Option {
	return func(r *Runner) {
		r.enableSweep = enabled
		r.sweepMaxTargets = maxTargets
	}
}

// WithPayloadLogging logs each payload as JSON cut at maxChars characters.
// A non-positive maxChars logs payloads in full.
func WithPayloadLogging(enabled bool, maxChars int) Option {
	return func(r *Runner) {
		r.logPayloads = enabled
		r.payloadMaxChars = maxChars
	}
}

// WithCollaboratorTimeout bounds each collaborator call. Zero means no bound.
func WithCollaboratorTimeout(d time.Duration) Option {
	return func(r *Runner) { r.collaboratorTime = d }
}

// WithClock sets the clock used for captured_at.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner returns a Runner. Payload logging is on by default with a
// 120000 character cap.
func NewRunner(store Store, collaborators Collaborators, opts ...Option) *Runner {
	r := &Runner{
		store:           store,
		collaborators:   collaborators,
		sweepMaxTargets: 8,
		logPayloads:     true,
		payloadMaxChars: 120_000,
		now:             time.Now,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes one cycle: load the previous snapshots, run the
// collaborators, persist scope, analysis, the optional vulnerability
// snapshot and the cycle summary under one captured_at, and return the
// summary with its id. cycleNumber 0 marks an ad hoc cycle.
//
// Collaborator failures never fail the cycle. Storage errors do.
func (r *Runner) Run(ctx context.Context, cycleNumber int) (*Summary, error) {
	start := time.Now()
	summary, err := r.run(ctx, cycleLabel(cycleNumber))
	cycleDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		cycleTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	cycleTotal.WithLabelValues("success").Inc()
	return summary, nil
}

func (r *Runner) run(ctx context.Context, cycle any) (*Summary, error) {
	capturedAt := snapshot.FormatTimestamp(r.now())
	r.step(cycle, "cycle_start", "captured_at", capturedAt)

	prevScope, err := r.store.Latest(ctx, payload.KindScope)
	if err != nil {
		return nil, err
	}
	prevAnalysis, err := r.store.Latest(ctx, payload.KindAnalysis)
	if err != nil {
		return nil, err
	}
	prevVuln, err := r.store.Latest(ctx, payload.KindVulnerability)
	if err != nil {
		return nil, err
	}
	r.step(cycle, "load_previous",
		"scope", yesNo(prevScope != nil),
		"analysis", yesNo(prevAnalysis != nil),
		"vulnerability", yesNo(prevVuln != nil))

	// scope
	r.step(cycle, "scope_scan_start")
	scope, err := r.invoke(ctx, "scope", r.collaborators.CollectScope)
	if err != nil {
		r.logger.Error("scheduler_step", "cycle", cycle, "step", "scope_scan_error", "error", err)
		scope = ScopePlaceholder(capturedAt, err)
	}
	r.step(cycle, "scope_scan_complete", "total_assets", scope.Map("summary").IntOr("total_assets", 0))
	r.logPayload(cycle, "scope_scan", scope)

	// analysis
	r.step(cycle, "analysis_start")
	analysis, err := r.invoke(ctx, "analysis", func(ctx context.Context) (payload.Document, error) {
		return r.collaborators.AnalyzeSystem(ctx, AnalysisQuery)
	})
	if err != nil {
		r.logger.Error("scheduler_step", "cycle", cycle, "step", "analysis_error", "error", err)
		analysis = AnalysisPlaceholder(err)
	}
	analysisFindings := findingDocs(analysis.Map("analysis").List("findings"))
	r.step(cycle, "analysis_complete",
		"findings", len(analysisFindings),
		"overall_risk", analysis.Map("analysis").Map("risk_scores").IntOr("overall_risk", 0))
	r.logFindings(cycle, "analysis", analysisFindings)
	r.logPayload(cycle, "analysis", analysis)

	// vulnerability
	var vuln payload.Document
	var vulnFindings []payload.Document
	if r.enableSweep {
		r.step(cycle, "vulnerability_sweep_start", "max_targets", r.sweepMaxTargets)
		vuln, err = r.invoke(ctx, "vulnerability", func(ctx context.Context) (payload.Document, error) {
			return r.collaborators.RunVulnerabilitySweep(ctx, r.sweepMaxTargets)
		})
		if err != nil {
			r.logger.Error("scheduler_step", "cycle", cycle, "step", "vulnerability_sweep_error", "error", err)
			vuln = VulnerabilityPlaceholder(err)
		}
		vulnFindings = vulnerabilityFindings(vuln)
		r.step(cycle, "vulnerability_sweep_complete",
			"findings", len(vulnFindings),
			"targets", vuln.IntOr("total_targets_scanned", 0))
		r.logFindings(cycle, "vulnerability", vulnFindings)
		r.logPayload(cycle, "vulnerability_sweep", vuln)
	} else {
		r.step(cycle, "vulnerability_sweep_skipped")
	}

	// persist
	var ids SnapshotIDs
	if ids.Scope, err = r.store.Insert(ctx, payload.KindScope, scope, capturedAt); err != nil {
		return nil, err
	}
	if ids.Analysis, err = r.store.Insert(ctx, payload.KindAnalysis, analysis, capturedAt); err != nil {
		return nil, err
	}
	if vuln != nil {
		id, err := r.store.Insert(ctx, payload.KindVulnerability, vuln, capturedAt)
		if err != nil {
			return nil, err
		}
		ids.Vulnerability = ptr.To(id)
	}

	summary := BuildSummary(SummaryInput{
		CapturedAt:            capturedAt,
		SnapshotIDs:           ids,
		Scope:                 scope,
		Analysis:              analysis,
		Vulnerability:         vuln,
		PreviousScope:         payloadOf(prevScope),
		PreviousAnalysis:      payloadOf(prevAnalysis),
		PreviousVulnerability: payloadOf(prevVuln),
	})

	doc, err := summary.Document()
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to encode cycle summary", err)
	}
	if summary.CycleSummaryID, err = r.store.Insert(ctx, payload.KindCycleSummary, doc, capturedAt); err != nil {
		return nil, err
	}

	r.step(cycle, "summary_complete",
		"cycle_summary_id", summary.CycleSummaryID,
		"added_assets", summary.Diff.Assets.AddedCount,
		"added_ports", summary.Diff.OpenPorts.AddedCount,
		"added_anomalies", summary.Diff.Anomalies.AddedCount,
		"added_vulnerabilities", summary.Diff.Vulnerabilities.AddedCount)
	if r.logPayloads {
		r.logger.Info("scheduler_payload", "cycle", cycle, "step", "cycle_summary",
			"payload", logging.TruncatedJSON(summary, r.payloadMaxChars))
	}

	lastCycleAssets.Set(float64(summary.Scope.TotalAssets))
	lastCycleOverallRisk.Set(float64(summary.Analysis.OverallRisk))
	lastCycleFindings.WithLabelValues("analysis").Set(float64(len(analysisFindings)))
	lastCycleFindings.WithLabelValues("vulnerability").Set(float64(len(vulnFindings)))

	return summary, nil
}

// invoke calls a collaborator, converting panics into errors.
func (r *Runner) invoke(ctx context.Context, name string, fn func(context.Context) (payload.Document, error)) (doc payload.Document, err error) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			doc, err = nil, fmt.Errorf("panic: %v", rec)
		}
		collaboratorDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		if err != nil {
			collaboratorFailures.WithLabelValues(name).Inc()
		}
	}()

	if r.collaboratorTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.collaboratorTime)
		defer cancel()
	}

	doc, err = fn(ctx)
	if err == nil && doc == nil {
		doc = payload.Document{}
	}
	return doc, err
}

func (r *Runner) step(cycle any, step string, args ...any) {
	r.logger.Info("scheduler_step", append([]any{"cycle", cycle, "step", step}, args...)...)
}

func (r *Runner) logFindings(cycle any, source string, findings []payload.Document) {
	for _, f := range findings {
		r.logger.Info("scheduler_finding",
			"cycle", cycle,
			"source", source,
			"id", f.String("id"),
			"severity", f.String("severity"),
			"title", f.String("title"))
	}
}

func (r *Runner) logPayload(cycle any, step string, doc payload.Document) {
	if !r.logPayloads {
		return
	}
	r.logger.Info("scheduler_payload", "cycle", cycle, "step", step,
		"payload", logging.TruncatedJSON(doc, r.payloadMaxChars))
}

func findingDocs(items []any) []payload.Document {
	var out []payload.Document
	for _, item := range items {
		if f := payload.AsDocument(item); f != nil {
			out = append(out, f)
		}
	}
	return out
}

func vulnerabilityFindings(vuln payload.Document) []payload.Document {
	var out []payload.Document
	for _, item := range vuln.List("scan_results") {
		if result := payload.AsDocument(item); result != nil {
			out = append(out, findingDocs(result.List("findings"))...)
		}
	}
	return out
}

func payloadOf(s *snapshot.Snapshot) payload.Document {
	if s == nil {
		return nil
	}
	return s.Payload
}

func cycleLabel(n int) any {
	if n <= 0 {
		return "-"
	}
	return n
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
