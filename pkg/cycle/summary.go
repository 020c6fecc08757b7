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

package cycle

import (
	"github.com/NVIDIA/scanwatch/pkg/diff"
	"github.com/NVIDIA/scanwatch/pkg/payload"
)

// SnapshotIDs are the ids of the snapshots written by one cycle.
type SnapshotIDs struct {
	Scope         int64  `json:"scope" yaml:"scope"`
	Analysis      int64  `json:"analysis" yaml:"analysis"`
	Vulnerability *int64 `json:"vulnerability,omitempty" yaml:"vulnerability,omitempty"`
}

// ScopeCounts summarizes the scope snapshot.
type ScopeCounts struct {
	TotalAssets int `json:"total_assets" yaml:"total_assets"`
}

// AnalysisCounts summarizes the analysis snapshot.
type AnalysisCounts struct {
	OverallRisk          int `json:"overall_risk" yaml:"overall_risk"`
	AnomalyFindingsTotal int `json:"anomaly_findings_total" yaml:"anomaly_findings_total"`
	OpenPortCount        int `json:"open_port_count" yaml:"open_port_count"`
}

// VulnerabilityCounts summarizes the vulnerability snapshot, if any.
type VulnerabilityCounts struct {
	Enabled      bool `json:"enabled" yaml:"enabled"`
	FindingTotal int  `json:"finding_total" yaml:"finding_total"`
}

// Diffs holds the per-domain changes against the previous cycle.
type Diffs struct {
	Assets          diff.Result `json:"assets" yaml:"assets"`
	OpenPorts       diff.Result `json:"open_ports" yaml:"open_ports"`
	Anomalies       diff.Result `json:"anomalies" yaml:"anomalies"`
	Vulnerabilities diff.Result `json:"vulnerabilities" yaml:"vulnerabilities"`
}

// Summary is the payload of a cycle_summary snapshot.
type Summary struct {
	CapturedAt     string              `json:"captured_at" yaml:"captured_at"`
	SnapshotIDs    SnapshotIDs         `json:"snapshot_ids" yaml:"snapshot_ids"`
	Scope          ScopeCounts         `json:"scope" yaml:"scope"`
	Analysis       AnalysisCounts      `json:"analysis" yaml:"analysis"`
	Vulnerability  VulnerabilityCounts `json:"vulnerability" yaml:"vulnerability"`
	Diff           Diffs               `json:"diff" yaml:"diff"`
	CycleSummaryID int64               `json:"cycle_summary_id,omitempty" yaml:"cycle_summary_id,omitempty"`
}

// SummaryInput carries the current and previous payloads of a cycle.
// Vulnerability is nil when the sweep did not run this cycle. Previous
// payloads are nil when no earlier snapshot exists.
type SummaryInput struct {
	CapturedAt  string
	SnapshotIDs SnapshotIDs

	Scope         payload.Document
	Analysis      payload.Document
	Vulnerability payload.Document

	PreviousScope         payload.Document
	PreviousAnalysis      payload.Document
	PreviousVulnerability payload.Document
}

// BuildSummary derives counts and diffs for one cycle. It never fails:
// malformed payloads contribute zero values.
func BuildSummary(in SummaryInput) *Summary {
	currentPorts := diff.PortIDs(in.Analysis)
	currentAnomalies := diff.AnomalyIDs(in.Analysis)

	vulnDiff := diff.Empty()
	if in.Vulnerability != nil {
		vulnDiff = diff.Compute(diff.VulnerabilityIDs(in.PreviousVulnerability), diff.VulnerabilityIDs(in.Vulnerability))
	}

	overallRisk, ok := in.Analysis.Map("analysis").Map("risk_scores").Int("overall_risk")
	if !ok {
		overallRisk = 0
	}

	return &Summary{
		CapturedAt:  in.CapturedAt,
		SnapshotIDs: in.SnapshotIDs,
		Scope: ScopeCounts{
			TotalAssets: in.Scope.Map("summary").IntOr("total_assets", 0),
		},
		Analysis: AnalysisCounts{
			OverallRisk:          overallRisk,
			AnomalyFindingsTotal: len(currentAnomalies),
			OpenPortCount:        len(currentPorts),
		},
		Vulnerability: VulnerabilityCounts{
			Enabled:      in.Vulnerability != nil,
			FindingTotal: len(diff.VulnerabilityIDs(in.Vulnerability)),
		},
		Diff: Diffs{
			Assets:          diff.Compute(diff.AssetIDs(in.PreviousScope), diff.AssetIDs(in.Scope)),
			OpenPorts:       diff.Compute(diff.PortIDs(in.PreviousAnalysis), currentPorts),
			Anomalies:       diff.Compute(diff.AnomalyIDs(in.PreviousAnalysis), currentAnomalies),
			Vulnerabilities: vulnDiff,
		},
	}
}

// Document converts the summary to a storable payload.
func (s *Summary) Document() (payload.Document, error) {
	return payload.FromStruct(s)
}
