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
	"github.com/NVIDIA/scanwatch/pkg/payload"
)

// AnalysisQuery is the query passed to the analyzer on scheduled cycles.
const AnalysisQuery = "scheduled system analysis"

// ScopePlaceholder is stored in place of a scope payload when discovery
// fails, so the cycle still records what happened.
func ScopePlaceholder(capturedAt string, cause error) payload.Document {
	return payload.Document{
		"assets": []any{},
		"summary": map[string]any{
			"total_assets":   0,
			"scan_timestamp": capturedAt,
		},
		"sources": map[string]any{
			"runtime":    string(payload.SourceError),
			"cloud":      string(payload.SourceError),
			"kubernetes": string(payload.SourceError),
		},
		"notes": []any{"scope scan failed: " + cause.Error()},
	}
}

// AnalysisPlaceholder is stored in place of an analysis payload when the
// analyzer fails.
func AnalysisPlaceholder(cause error) payload.Document {
	return payload.Document{
		"query": AnalysisQuery,
		"discovered_assets": map[string]any{
			"open_ports": map[string]any{"listeners": []any{}},
		},
		"metrics": map[string]any{
			"source": "error",
			"series": []any{},
		},
		"analysis": map[string]any{
			"findings":    []any{},
			"risk_scores": map[string]any{"overall_risk": 0},
			"summary":     map[string]any{"total": 0},
			"notes":       []any{"analysis failed: " + cause.Error()},
		},
	}
}

// VulnerabilityPlaceholder is stored in place of a vulnerability payload
// when the sweep fails.
func VulnerabilityPlaceholder(cause error) payload.Document {
	return payload.Document{
		"scope_summary":         map[string]any{},
		"targets_scanned":       []any{},
		"total_targets_scanned": 0,
		"total_findings":        0,
		"scan_results":          []any{},
		"note":                  "vulnerability sweep failed: " + cause.Error(),
	}
}
