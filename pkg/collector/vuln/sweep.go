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

package vuln

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/google/cel-go/cel"

	cnserrors "github.com/NVIDIA/scanwatch/pkg/errors"
	"github.com/NVIDIA/scanwatch/pkg/payload"
)

var publicPrefixes = []string{"0.0.0.0:", "*:", "[::]:", ":::"}

type compiledRule struct {
	Rule
	program cel.Program
}

// Sweeper evaluates compiled rules against scope assets.
type Sweeper struct {
	rules []compiledRule
}

// NewSweeper compiles rules. Every expression must type check to bool.
func NewSweeper(rules []Rule) (*Sweeper, error) {
	env, err := cel.NewEnv(
		cel.Variable("asset", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("ports", cel.ListType(cel.IntType)),
		cel.Variable("public_ports", cel.ListType(cel.IntType)),
	)
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to create rule environment", err)
	}

	s := &Sweeper{rules: make([]compiledRule, 0, len(rules))}
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		if r.ID == "" {
			return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest, "rule id is required")
		}
		if seen[r.ID] {
			return nil, cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
				"duplicate rule id", map[string]any{"rule": r.ID})
		}
		seen[r.ID] = true

		ast, iss := env.Compile(r.Expression)
		if iss != nil && iss.Err() != nil {
			return nil, cnserrors.WrapWithContext(cnserrors.ErrCodeInvalidRequest,
				"failed to compile rule", iss.Err(), map[string]any{"rule": r.ID})
		}
		if !ast.OutputType().IsExactType(cel.BoolType) {
			return nil, cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
				"rule must evaluate to bool", map[string]any{"rule": r.ID, "type": ast.OutputType().String()})
		}
		prg, err := env.Program(ast)
		if err != nil {
			return nil, cnserrors.WrapWithContext(cnserrors.ErrCodeInvalidRequest,
				"failed to build rule program", err, map[string]any{"rule": r.ID})
		}
		s.rules = append(s.rules, compiledRule{Rule: r, program: prg})
	}
	return s, nil
}

// Rules returns the number of compiled rules.
func (s *Sweeper) Rules() int {
	return len(s.rules)
}

// Sweep evaluates every rule against at most maxTargets scope assets,
// critical assets first. listeners are attributed to the host asset in
// addition to the per-listener network assets. Rules that fail to evaluate
// for an asset are skipped and counted in the payload note.
func (s *Sweeper) Sweep(ctx context.Context, scope payload.Scope, listeners []payload.Listener, maxTargets int) (payload.Vulnerability, error) {
	result := payload.Vulnerability{
		ScopeSummary:   scope.Summary,
		TargetsScanned: []string{},
		ScanResults:    []payload.ScanResult{},
		RulesEvaluated: len(s.rules),
	}

	targets := orderTargets(scope.Assets)
	if maxTargets < 0 {
		maxTargets = 0
	}
	if len(targets) > maxTargets {
		targets = targets[:maxTargets]
	}

	failures := 0
	for _, asset := range targets {
		if err := ctx.Err(); err != nil {
			return payload.Vulnerability{}, err
		}

		vars, err := variables(asset, listeners)
		if err != nil {
			return payload.Vulnerability{}, err
		}

		scan := payload.ScanResult{
			Target:   targetName(asset),
			AssetID:  asset.AssetID,
			Findings: []payload.Finding{},
		}
		for _, r := range s.rules {
			out, _, err := r.program.ContextEval(ctx, vars)
			if err != nil {
				failures++
				slog.Debug("rule evaluation failed",
					slog.String("rule", r.ID),
					slog.String("asset", asset.AssetID),
					slog.String("error", err.Error()))
				continue
			}
			if hit, ok := out.Value().(bool); !ok || !hit {
				continue
			}
			scan.Findings = append(scan.Findings, payload.Finding{
				ID:             r.ID + ":" + asset.AssetID,
				Category:       payload.CategoryCybersecurity,
				Severity:       r.Severity,
				Title:          r.Title,
				Description:    r.Description,
				Evidence:       evidence(asset, vars),
				Recommendation: r.Recommendation,
			})
		}

		result.TargetsScanned = append(result.TargetsScanned, scan.Target)
		result.TotalFindings += len(scan.Findings)
		result.ScanResults = append(result.ScanResults, scan)
	}
	result.TotalTargetsScanned = len(result.TargetsScanned)

	if failures > 0 {
		result.Note = fmt.Sprintf("%d rule evaluations failed", failures)
	}
	return result, nil
}

var typeRank = map[string]int{
	payload.AssetTypeCritical:   0,
	payload.AssetTypeExternal:   1,
	payload.AssetTypeImportant:  2,
	payload.AssetTypeSupporting: 3,
}

// orderTargets sorts assets by type rank, keeping scope order within a rank.
func orderTargets(assets []payload.Asset) []payload.Asset {
	ordered := slices.Clone(assets)
	sort.SliceStable(ordered, func(i, j int) bool {
		return rank(ordered[i].AssetType) < rank(ordered[j].AssetType)
	})
	return ordered
}

func rank(assetType string) int {
	if r, ok := typeRank[assetType]; ok {
		return r
	}
	return len(typeRank)
}

func targetName(a payload.Asset) string {
	for _, v := range []string{a.IPAddress, a.Hostname, a.AssetName} {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return a.AssetID
}

func variables(asset payload.Asset, listeners []payload.Listener) (map[string]any, error) {
	doc, err := payload.FromStruct(asset)
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to encode asset", err)
	}

	var ports, public []int64
	switch asset.AssetCategory {
	case "network":
		for _, svc := range asset.Services {
			if _, p, ok := strings.Cut(svc, ":"); ok {
				if n, err := strconv.ParseInt(p, 10, 64); err == nil {
					ports = append(ports, n)
				}
			}
		}
		if isPublic(asset.IPAddress) {
			public = ports
		}
	case "infrastructure":
		for _, l := range listeners {
			ports = append(ports, int64(l.Port))
			if isPublic(l.LocalAddress) {
				public = append(public, int64(l.Port))
			}
		}
	}

	return map[string]any{
		"asset":        map[string]any(doc),
		"ports":        uniquePorts(ports),
		"public_ports": uniquePorts(public),
	}, nil
}

func uniquePorts(ports []int64) []int64 {
	out := slices.Clone(ports)
	slices.Sort(out)
	out = slices.Compact(out)
	if out == nil {
		out = []int64{}
	}
	return out
}

func evidence(asset payload.Asset, vars map[string]any) []string {
	ev := []string{"asset_id=" + asset.AssetID, "asset_category=" + asset.AssetCategory}
	if asset.IPAddress != "" {
		ev = append(ev, "ip_address="+asset.IPAddress)
	}
	if ports, ok := vars["ports"].([]int64); ok && len(ports) > 0 {
		parts := make([]string, len(ports))
		for i, p := range ports {
			parts[i] = strconv.FormatInt(p, 10)
		}
		ev = append(ev, "ports="+strings.Join(parts, ","))
	}
	return ev
}

func isPublic(address string) bool {
	address = strings.ToLower(strings.TrimSpace(address))
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(address, prefix) {
			return true
		}
	}
	return false
}
