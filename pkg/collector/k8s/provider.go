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
	"log/slog"
	"strings"
)

// parseProvider maps a node providerID to a managed Kubernetes offering.
//
//   - aws:///us-west-2a/i-0123456789abcdef0 → "eks"
//   - gce://my-project/us-central1-a/gke-cluster-node → "gke"
//   - azure:///subscriptions/.../virtualMachines/... → "aks"
//   - oci://... → "oke"
//
// Unrecognized schemes are returned as-is.
func parseProvider(providerID string) string {
	scheme, _, found := strings.Cut(providerID, "://")
	if !found {
		slog.Warn("invalid providerID format", slog.String("providerID", providerID))
		return ""
	}

	switch provider := strings.ToLower(strings.TrimSpace(scheme)); provider {
	case "aws":
		return "eks"
	case "gce":
		return "gke"
	case "azure":
		return "aks"
	case "oci":
		return "oke"
	default:
		return provider
	}
}
