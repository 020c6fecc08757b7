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
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/NVIDIA/scanwatch/pkg/collector/host"
	"github.com/NVIDIA/scanwatch/pkg/collector/k8s"
	"github.com/NVIDIA/scanwatch/pkg/collector/systemd"
	"github.com/NVIDIA/scanwatch/pkg/defaults"
	"github.com/NVIDIA/scanwatch/pkg/k8s/client"
	"github.com/NVIDIA/scanwatch/pkg/payload"
	"github.com/NVIDIA/scanwatch/pkg/snapshot"
)

// Runtime is the result of runtime discovery on the local host.
type Runtime struct {
	Inventory   *host.Inventory
	Services    []systemd.Service
	ServicesErr error
}

// ScopeInput carries the discovery results a scope is built from. A nil
// result with a non-nil error marks the source as failed.
type ScopeInput struct {
	Runtime    *Runtime
	RuntimeErr error
	Cluster    *k8s.Cluster
	ClusterErr error
	MaxAssets  int
	Now        time.Time
}

// BuildScope merges runtime and Kubernetes discovery into a scope payload.
// Runtime assets are split between the host, its services and its listeners,
// duplicates keep their first position and last value, and the result is
// capped at MaxAssets.
func BuildScope(in ScopeInput) payload.Scope {
	maxAssets := in.MaxAssets
	if maxAssets <= 0 {
		maxAssets = defaults.ScopeMaxAssets
	}
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	scannedAt := snapshot.FormatTimestamp(now)

	scope := payload.Scope{
		Assets: []payload.Asset{},
		Sources: payload.ScopeSources{
			Runtime:    payload.SourceOK,
			Cloud:      payload.SourceUnavailable,
			Kubernetes: payload.SourceOK,
		},
		Coverage: &payload.ScopeCoverage{},
		Notes:    []string{},
	}

	var assets []payload.Asset

	switch {
	case in.RuntimeErr != nil:
		scope.Sources.Runtime = payload.SourceError
		scope.Notes = append(scope.Notes, fmt.Sprintf("runtime discovery failed: %v", in.RuntimeErr))
	case in.Runtime == nil || in.Runtime.Inventory == nil:
		scope.Sources.Runtime = payload.SourceError
		scope.Notes = append(scope.Notes, "runtime discovery returned no inventory")
	default:
		rt := in.Runtime
		runtimeAssets := runtimeAssets(rt, maxAssets, scannedAt)
		assets = append(assets, runtimeAssets...)

		scope.Coverage.RuntimeAssets = len(runtimeAssets)
		scope.Coverage.ListeningPorts = len(rt.Inventory.Listeners)
		scope.Coverage.Services = len(rt.Services)

		if len(rt.Inventory.Notes) > 0 || rt.ServicesErr != nil {
			scope.Sources.Runtime = payload.SourcePartial
		}
		scope.Notes = append(scope.Notes, rt.Inventory.Notes...)
		if rt.ServicesErr != nil {
			scope.Notes = append(scope.Notes, fmt.Sprintf("systemd discovery failed: %v", rt.ServicesErr))
		}
	}

	switch {
	case in.ClusterErr != nil && errors.Is(in.ClusterErr, client.ErrNoCluster):
		scope.Sources.Kubernetes = payload.SourceUnavailable
	case in.ClusterErr != nil:
		scope.Sources.Kubernetes = payload.SourceError
		scope.Notes = append(scope.Notes, fmt.Sprintf("kubernetes health discovery failed: %v", in.ClusterErr))
	case in.Cluster == nil:
		scope.Sources.Kubernetes = payload.SourceUnavailable
	default:
		c := in.Cluster
		if c.Status != k8s.StatusOK {
			scope.Sources.Kubernetes = payload.SourcePartial
		}
		scope.Coverage.KubernetesNodesTotal = c.NodesTotal
		scope.Coverage.KubernetesNodesReady = c.NodesReady
		assets = append(assets, clusterAssets(c, maxAssets, scannedAt)...)
	}

	scope.Assets = dedupAssets(assets)
	if len(scope.Assets) > maxAssets {
		scope.Assets = scope.Assets[:maxAssets]
	}
	if len(scope.Notes) > defaults.ScopeNotesMax {
		scope.Notes = scope.Notes[:defaults.ScopeNotesMax]
	}

	scope.Summary = summarize(scope.Assets, scannedAt)
	return scope
}

func runtimeAssets(rt *Runtime, maxAssets int, scannedAt string) []payload.Asset {
	inv := rt.Inventory
	perKind := maxAssets / 3

	assets := []payload.Asset{{
		AssetID:             "host-" + inv.Hostname,
		AssetName:           inv.Hostname,
		AssetType:           payload.AssetTypeCritical,
		AssetCategory:       "infrastructure",
		Hostname:            inv.Hostname,
		OperatingSystem:     inv.OperatingSystem,
		Services:            []string{},
		Owner:               "platform",
		BusinessCriticality: "medium",
		DataSensitivity:     "internal",
		Tags:                []string{host.RuntimeProfile, "host"},
		LastScanned:         scannedAt,
		Status:              "active",
	}}

	for i, svc := range rt.Services {
		if i >= perKind {
			break
		}
		assets = append(assets, payload.Asset{
			AssetID:             "service-" + svc.Unit,
			AssetName:           svc.Unit,
			AssetType:           payload.AssetTypeImportant,
			AssetCategory:       "service",
			Hostname:            inv.Hostname,
			Services:            []string{svc.Unit},
			Owner:               "ops",
			BusinessCriticality: "medium",
			DataSensitivity:     "internal",
			Tags:                []string{"systemd", "runtime"},
			LastScanned:         scannedAt,
			Status:              "active",
		})
	}

	for i, l := range inv.Listeners {
		if i >= perKind {
			break
		}
		port := strconv.Itoa(l.Port)
		assets = append(assets, payload.Asset{
			AssetID:             "port-" + port + "-" + l.Process,
			AssetName:           l.Process + ":" + port,
			AssetType:           payload.AssetTypeExternal,
			AssetCategory:       "network",
			IPAddress:           l.LocalAddress,
			Hostname:            inv.Hostname,
			Services:            []string{l.Protocol + ":" + port},
			Owner:               "network",
			BusinessCriticality: "medium",
			DataSensitivity:     "internal",
			Tags:                []string{"port", "listener"},
			LastScanned:         scannedAt,
			Status:              "active",
		})
	}

	if len(assets) > maxAssets {
		assets = assets[:maxAssets]
	}
	return assets
}

func clusterAssets(c *k8s.Cluster, maxAssets int, scannedAt string) []payload.Asset {
	status := "active"
	if c.Status != k8s.StatusOK {
		status = "degraded"
	}
	tags := []string{"kubernetes", c.Status}
	if c.Provider != "" {
		tags = append(tags, c.Provider)
	}

	assets := []payload.Asset{{
		AssetID:             "k8s-cluster-" + c.Name,
		AssetName:           c.Name,
		AssetType:           payload.AssetTypeCritical,
		AssetCategory:       "kubernetes",
		OperatingSystem:     c.Version,
		Services:            []string{"kube-apiserver"},
		Owner:               "platform",
		BusinessCriticality: "high",
		DataSensitivity:     "internal",
		Tags:                tags,
		LastScanned:         scannedAt,
		Status:              status,
	}}

	for i, n := range c.Nodes {
		if i >= maxAssets/3 {
			break
		}
		nodeStatus := "active"
		if !n.Ready {
			nodeStatus = "degraded"
		}
		assets = append(assets, payload.Asset{
			AssetID:             "k8s-node-" + n.Name,
			AssetName:           n.Name,
			AssetType:           payload.AssetTypeImportant,
			AssetCategory:       "kubernetes-node",
			IPAddress:           n.InternalIP,
			Hostname:            n.Name,
			OperatingSystem:     n.OSImage,
			Services:            []string{"kubelet"},
			Owner:               "platform",
			BusinessCriticality: "high",
			DataSensitivity:     "internal",
			Tags:                []string{"kubernetes", "node"},
			LastScanned:         scannedAt,
			Status:              nodeStatus,
		})
	}
	return assets
}

type assetKey struct {
	id, name, category string
}

// dedupAssets keeps the first position of each asset and the last value
// seen for it.
func dedupAssets(assets []payload.Asset) []payload.Asset {
	index := make(map[assetKey]int, len(assets))
	out := make([]payload.Asset, 0, len(assets))
	for _, a := range assets {
		key := assetKey{a.AssetID, a.AssetName, a.AssetCategory}
		if i, ok := index[key]; ok {
			out[i] = a
			continue
		}
		index[key] = len(out)
		out = append(out, a)
	}
	return out
}

func summarize(assets []payload.Asset, scannedAt string) payload.ScopeSummary {
	s := payload.ScopeSummary{TotalAssets: len(assets), ScanTimestamp: scannedAt}
	for _, a := range assets {
		switch a.AssetType {
		case payload.AssetTypeCritical:
			s.CriticalAssets++
		case payload.AssetTypeImportant:
			s.ImportantAssets++
		case payload.AssetTypeSupporting:
			s.SupportingAssets++
		case payload.AssetTypeExternal:
			s.ExternalAssets++
		}
	}
	return s
}
