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

// Package k8s reads cluster health for scope discovery.
//
// Collector lists nodes and the server version through client-go and
// summarizes readiness:
//
//	cluster, err := (&k8s.Collector{Kubeconfig: path}).Collect(ctx)
//	if err != nil {
//		return err
//	}
//	fmt.Println(cluster.Status, cluster.NodesReady, cluster.NodesTotal)
//
// The cluster status is "ok" when all nodes are Ready, "degraded" when any
// node is not, and "unknown" when no nodes are visible. The managed
// provider (eks, gke, aks, oke) is derived from node provider IDs.
package k8s
