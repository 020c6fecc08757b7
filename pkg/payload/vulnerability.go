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

// ScanResult holds the findings for one swept target.
type ScanResult struct {
	Target   string    `json:"target" yaml:"target"`
	AssetID  string    `json:"asset_id" yaml:"asset_id"`
	Findings []Finding `json:"findings" yaml:"findings"`
}

// Vulnerability is the payload of a vulnerability snapshot.
type Vulnerability struct {
	ScopeSummary        ScopeSummary `json:"scope_summary" yaml:"scope_summary"`
	TargetsScanned      []string     `json:"targets_scanned" yaml:"targets_scanned"`
	TotalTargetsScanned int          `json:"total_targets_scanned" yaml:"total_targets_scanned"`
	TotalFindings       int          `json:"total_findings" yaml:"total_findings"`
	ScanResults         []ScanResult `json:"scan_results" yaml:"scan_results"`
	RulesEvaluated      int          `json:"rules_evaluated,omitempty" yaml:"rules_evaluated,omitempty"`
	Note                string       `json:"note,omitempty" yaml:"note,omitempty"`
}
