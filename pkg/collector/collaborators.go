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

package collector

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/NVIDIA/scanwatch/pkg/collector/k8s"
	"github.com/NVIDIA/scanwatch/pkg/collector/vuln"
	"github.com/NVIDIA/scanwatch/pkg/defaults"
	"github.com/NVIDIA/scanwatch/pkg/payload"
)

// Collaborators produces cycle payloads from live discovery. The scope
// collected by CollectScope is reused by the next RunVulnerabilitySweep so
// a cycle sweeps what it recorded.
type Collaborators struct {
	factory   Factory
	sweeper   *vuln.Sweeper
	rules     []vuln.Rule
	maxAssets int
	now       func() time.Time

	mu        sync.Mutex
	lastScope *sweepInput
}

type sweepInput struct {
	scope   payload.Scope
	runtime *Runtime
}

// CollaboratorOption configures Collaborators.
type CollaboratorOption func(*Collaborators)

// WithRules replaces the built-in vulnerability rules.
func WithRules(rules []vuln.Rule) CollaboratorOption {
	return func(c *Collaborators) {
		c.rules = rules
	}
}

// WithMaxAssets caps the assets carried by a scope payload.
func WithMaxAssets(n int) CollaboratorOption {
	return func(c *Collaborators) {
		c.maxAssets = n
	}
}

// WithClock sets the time source for payload timestamps.
func WithClock(now func() time.Time) CollaboratorOption {
	return func(c *Collaborators) {
		c.now = now
	}
}

// NewCollaborators creates collaborators backed by factory. It fails when
// a vulnerability rule does not compile.
func NewCollaborators(factory Factory, opts ...CollaboratorOption) (*Collaborators, error) {
	c := &Collaborators{
		factory:   factory,
		rules:     vuln.DefaultRules(),
		maxAssets: defaults.ScopeMaxAssets,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	sweeper, err := vuln.NewSweeper(c.rules)
	if err != nil {
		return nil, err
	}
	c.sweeper = sweeper
	return c, nil
}

// CollectScope discovers runtime and Kubernetes assets concurrently and
// merges them into a scope payload. Source failures are reported in the
// payload, not returned.
func (c *Collaborators) CollectScope(ctx context.Context) (payload.Document, error) {
	var (
		rt         *Runtime
		rtErr      error
		cluster    *k8s.Cluster
		clusterErr error
	)

	// a failed source must not cancel the other one
	var wg sync.WaitGroup
	wg.Go(func() {
		rt, rtErr = c.discoverRuntime(ctx)
	})
	wg.Go(func() {
		cluster, clusterErr = c.factory.CreateKubernetesCollector().Collect(ctx)
	})
	wg.Wait()

	if err := ctx.Err(); err != nil {
		c.setLastScope(nil)
		return nil, err
	}

	scope := BuildScope(ScopeInput{
		Runtime:    rt,
		RuntimeErr: rtErr,
		Cluster:    cluster,
		ClusterErr: clusterErr,
		MaxAssets:  c.maxAssets,
		Now:        c.now(),
	})
	c.setLastScope(&sweepInput{scope: scope, runtime: rt})

	slog.Debug("scope collected",
		slog.Int("assets", scope.Summary.TotalAssets),
		slog.String("runtime", string(scope.Sources.Runtime)),
		slog.String("kubernetes", string(scope.Sources.Kubernetes)))

	return payload.FromStruct(scope)
}

// AnalyzeSystem inventories the host and applies the analysis rules. An
// unreadable process table fails the analysis; a systemd failure is noted.
func (c *Collaborators) AnalyzeSystem(ctx context.Context, query string) (payload.Document, error) {
	rt, err := c.discoverRuntime(ctx)
	if err != nil {
		return nil, err
	}

	analysis := Analyze(AnalysisInput{
		Query:     query,
		Inventory: rt.Inventory,
		Services:  rt.Services,
		Now:       c.now(),
	})
	if rt.ServicesErr != nil {
		analysis.Analysis.Notes = append(analysis.Analysis.Notes,
			fmt.Sprintf("systemd discovery failed: %v", rt.ServicesErr))
	}

	return payload.FromStruct(analysis)
}

// RunVulnerabilitySweep evaluates the rules against at most maxTargets
// assets of the last collected scope, collecting a fresh one when none is
// available.
func (c *Collaborators) RunVulnerabilitySweep(ctx context.Context, maxTargets int) (payload.Document, error) {
	in := c.takeLastScope()
	if in == nil {
		if _, err := c.CollectScope(ctx); err != nil {
			return nil, err
		}
		in = c.takeLastScope()
	}

	var listeners []payload.Listener
	if in.runtime != nil && in.runtime.Inventory != nil {
		listeners = in.runtime.Inventory.Listeners
	}

	result, err := c.sweeper.Sweep(ctx, in.scope, listeners, maxTargets)
	if err != nil {
		return nil, err
	}
	return payload.FromStruct(result)
}

func (c *Collaborators) discoverRuntime(ctx context.Context) (*Runtime, error) {
	inv, err := c.factory.CreateHostCollector().Collect(ctx)
	if err != nil {
		return nil, err
	}
	services, svcErr := c.factory.CreateSystemDCollector().Collect(ctx)
	if svcErr != nil {
		slog.Debug("systemd discovery failed", slog.String("error", svcErr.Error()))
	}
	return &Runtime{Inventory: inv, Services: services, ServicesErr: svcErr}, nil
}

func (c *Collaborators) setLastScope(in *sweepInput) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastScope = in
}

func (c *Collaborators) takeLastScope() *sweepInput {
	c.mu.Lock()
	defer c.mu.Unlock()
	in := c.lastScope
	c.lastScope = nil
	return in
}
