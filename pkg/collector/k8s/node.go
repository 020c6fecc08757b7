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
	"sort"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// Node is one cluster node.
type Node struct {
	Name             string
	Ready            bool
	KubeletVersion   string
	OSImage          string
	KernelVersion    string
	ContainerRuntime string
	InternalIP       string
	Provider         string
}

// collectNodes lists all nodes sorted by name.
func (k *Collector) collectNodes(ctx context.Context, clientset kubernetes.Interface) ([]Node, error) {
	list, err := clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}

	nodes := make([]Node, 0, len(list.Items))
	for i := range list.Items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		nodes = append(nodes, toNode(&list.Items[i]))
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })
	return nodes, nil
}

func toNode(n *corev1.Node) Node {
	info := n.Status.NodeInfo
	node := Node{
		Name:             n.Name,
		Ready:            isReady(n),
		KubeletVersion:   info.KubeletVersion,
		OSImage:          info.OSImage,
		KernelVersion:    info.KernelVersion,
		ContainerRuntime: info.ContainerRuntimeVersion,
	}
	if n.Spec.ProviderID != "" {
		node.Provider = parseProvider(n.Spec.ProviderID)
	}
	for _, addr := range n.Status.Addresses {
		if addr.Type == corev1.NodeInternalIP {
			node.InternalIP = addr.Address
			break
		}
	}
	return node
}

func isReady(n *corev1.Node) bool {
	for _, cond := range n.Status.Conditions {
		if cond.Type == corev1.NodeReady {
			return cond.Status == corev1.ConditionTrue
		}
	}
	return false
}
