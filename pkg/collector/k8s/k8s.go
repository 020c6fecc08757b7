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

package k8s

import (
	"context"
	"fmt"
	"log/slog"

	"k8s.io/client-go/kubernetes"

	"github.com/NVIDIA/scanwatch/pkg/k8s/client"
)

// Cluster health values.
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
	StatusUnknown  = "unknown"
)

// DefaultClusterName is used when the kubeconfig has no current context.
const DefaultClusterName = "kubernetes"

// Cluster summarizes the cluster reachable through the configured client.
type Cluster struct {
	Name       string
	Version    string
	Provider   string
	Status     string
	NodesTotal int
	NodesReady int
	Nodes      []Node
}

// Collector reads cluster health from the Kubernetes API.
type Collector struct {
	// Clientset overrides the client built from Kubeconfig.
	Clientset kubernetes.Interface

	// Kubeconfig is resolved by the client package when Clientset is nil.
	Kubeconfig string

	// ClusterName overrides the name taken from the kubeconfig context.
	ClusterName string
}

// Collect returns the cluster version, node readiness and overall status.
// The status is ok when every node is ready, degraded when any node is not,
// and unknown when the cluster reports no nodes.
func (k *Collector) Collect(ctx context.Context) (*Cluster, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clientset, err := k.getClient()
	if err != nil {
		return nil, err
	}

	cluster := &Cluster{Name: k.clusterName(), Status: StatusUnknown}

	serverVersion, err := clientset.Discovery().ServerVersion()
	if err != nil {
		return nil, fmt.Errorf("failed to get kubernetes version: %w", err)
	}
	cluster.Version = serverVersion.GitVersion

	nodes, err := k.collectNodes(ctx, clientset)
	if err != nil {
		return nil, err
	}
	cluster.Nodes = nodes
	cluster.NodesTotal = len(nodes)
	for _, n := range nodes {
		if n.Ready {
			cluster.NodesReady++
		}
		if cluster.Provider == "" && n.Provider != "" {
			cluster.Provider = n.Provider
		}
	}

	switch {
	case cluster.NodesTotal == 0:
		cluster.Status = StatusUnknown
	case cluster.NodesReady == cluster.NodesTotal:
		cluster.Status = StatusOK
	default:
		cluster.Status = StatusDegraded
	}

	slog.Debug("collected kubernetes cluster",
		slog.String("cluster", cluster.Name),
		slog.String("version", cluster.Version),
		slog.String("status", cluster.Status),
		slog.Int("nodes", cluster.NodesTotal),
		slog.Int("ready", cluster.NodesReady))

	return cluster, nil
}

func (k *Collector) getClient() (kubernetes.Interface, error) {
	if k.Clientset != nil {
		return k.Clientset, nil
	}
	clientset, _, err := client.GetKubeClient(k.Kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("failed to get kubernetes client: %w", err)
	}
	return clientset, nil
}

func (k *Collector) clusterName() string {
	if k.ClusterName != "" {
		return k.ClusterName
	}
	if k.Clientset == nil {
		if name := client.ContextName(k.Kubeconfig); name != "" {
			return name
		}
	}
	return DefaultClusterName
}
