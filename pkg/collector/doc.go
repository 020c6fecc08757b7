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

// Package collector produces the payloads of a scan cycle from live
// discovery.
//
// # Sources
//
// A Factory creates the three discovery sources:
//
//   - collector/host: hostname, OS release, listening sockets, processes and
//     load, memory and disk samples read from procfs
//   - collector/systemd: running services listed over D-Bus
//   - collector/k8s: cluster version and node readiness from the API server
//
// # Payloads
//
// BuildScope merges runtime and Kubernetes discovery into an asset scope
// with per-source status, classification counts, coverage and notes.
// Analyze applies the monitoring and cybersecurity rules to a host
// inventory and scores the findings. The vulnerability sweep lives in
// collector/vuln.
//
// Collaborators wires all of it into the interface the cycle runner
// expects:
//
//	collab, err := collector.NewCollaborators(collector.NewDefaultFactory(
//	    collector.WithKubeconfig(cfg.Kubeconfig),
//	))
//	if err != nil {
//	    return err
//	}
//	runner := cycle.NewRunner(store, collab)
//
// Source failures are reported inside the payloads. Only an unusable
// procfs fails the analysis, and the runner replaces a failed payload with
// a placeholder.
package collector
