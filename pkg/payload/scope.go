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

package payload

// Asset classifications used in scope summaries.
const (
	AssetTypeCritical   = "critical"
	AssetTypeImportant  = "important"
	AssetTypeSupporting = "supporting"
	AssetTypeExternal   = "external"
)

// SourceStatus reports how a scope source fared during discovery.
type SourceStatus string

const (
	SourceOK          SourceStatus = "ok"
	SourcePartial     SourceStatus = "partial"
	SourceError       SourceStatus = "error"
	SourceUnavailable SourceStatus = "unavailable"
)

// Asset is one discovered item in a scope payload.
type Asset struct {
	AssetID             string   `json:"asset_id" yaml:"asset_id"`
	AssetName           string   `json:"asset_name" yaml:"asset_name"`
	AssetType           string   `json:"asset_type" yaml:"asset_type"`
	AssetCategory       string   `json:"asset_category" yaml:"asset_category"`
	IPAddress           string   `json:"ip_address,omitempty" yaml:"ip_address,omitempty"`
	Hostname            string   `json:"hostname,omitempty" yaml:"hostname,omitempty"`
	OperatingSystem     string   `json:"operating_system,omitempty" yaml:"operating_system,omitempty"`
	Services            []string `json:"services" yaml:"services"`
	Owner               string   `json:"owner,omitempty" yaml:"owner,omitempty"`
	BusinessCriticality string   `json:"business_criticality,omitempty" yaml:"business_criticality,omitempty"`
	DataSensitivity     string   `json:"data_sensitivity,omitempty" yaml:"data_sensitivity,omitempty"`
	Tags                []string `json:"tags" yaml:"tags"`
	LastScanned         string   `json:"last_scanned,omitempty" yaml:"last_scanned,omitempty"`
	Status              string   `json:"status,omitempty" yaml:"status,omitempty"`
}

// ScopeSummary counts assets by classification.
type ScopeSummary struct {
	TotalAssets      int    `json:"total_assets" yaml:"total_assets"`
	CriticalAssets   int    `json:"critical_assets" yaml:"critical_assets"`
	ImportantAssets  int    `json:"important_assets" yaml:"important_assets"`
	SupportingAssets int    `json:"supporting_assets" yaml:"supporting_assets"`
	ExternalAssets   int    `json:"external_assets" yaml:"external_assets"`
	ScanTimestamp    string `json:"scan_timestamp" yaml:"scan_timestamp"`
}

// ScopeSources reports the status of each discovery source.
type ScopeSources struct {
	Runtime    SourceStatus `json:"runtime" yaml:"runtime"`
	Cloud      SourceStatus `json:"cloud" yaml:"cloud"`
	Kubernetes SourceStatus `json:"kubernetes" yaml:"kubernetes"`
}

// ScopeCoverage describes how much of the environment discovery reached.
type ScopeCoverage struct {
	RuntimeAssets        int `json:"runtime_assets" yaml:"runtime_assets"`
	ListeningPorts       int `json:"listening_ports" yaml:"listening_ports"`
	Services             int `json:"services" yaml:"services"`
	KubernetesNodesTotal int `json:"kubernetes_nodes_total" yaml:"kubernetes_nodes_total"`
	KubernetesNodesReady int `json:"kubernetes_nodes_ready" yaml:"kubernetes_nodes_ready"`
}

// Scope is the payload of a scope snapshot.
type Scope struct {
	Assets   []Asset        `json:"assets" yaml:"assets"`
	Summary  ScopeSummary   `json:"summary" yaml:"summary"`
	Sources  ScopeSources   `json:"sources" yaml:"sources"`
	Coverage *ScopeCoverage `json:"coverage,omitempty" yaml:"coverage,omitempty"`
	Notes    []string       `json:"notes" yaml:"notes"`
}
