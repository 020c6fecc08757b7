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

// Package client builds Kubernetes clients for the cluster scope source.
//
// GetKubeClient caches one client per kubeconfig path so repeated scan
// cycles reuse connections:
//
//	clientset, _, err := client.GetKubeClient(cfg.Kubeconfig)
//	if errors.Is(err, client.ErrNoCluster) {
//		// no cluster to scan
//	}
//
// The kubeconfig is resolved from the explicit path, then the KUBECONFIG
// environment variable, then ~/.kube/config. Without any of them the
// in-cluster service account is used, and ErrNoCluster is returned when
// the process is not running in a pod.
package client
