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

// Finding severities, lowest first.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Finding categories. Risk scores are accumulated per category.
const (
	CategoryMonitoring    = "monitoring"
	CategoryCybersecurity = "cybersecurity"
)

// Listener is a listening socket on the host.
type Listener struct {
	Protocol     string `json:"protocol" yaml:"protocol"`
	LocalAddress string `json:"local_address" yaml:"local_address"`
	Port         int    `json:"port" yaml:"port"`
	Process      string `json:"process" yaml:"process"`
	PID          int    `json:"pid,omitempty" yaml:"pid,omitempty"`
}

// OpenPorts lists the listeners found during analysis.
type OpenPorts struct {
	Count     int        `json:"count" yaml:"count"`
	Listeners []Listener `json:"listeners" yaml:"listeners"`
}

// Process is a sampled host process.
type Process struct {
	PID     int    `json:"pid" yaml:"pid"`
	Command string `json:"command" yaml:"command"`
	Args    string `json:"args" yaml:"args"`
}

// Processes holds the process sample inspected by the analyzer.
type Processes struct {
	Count  int       `json:"count" yaml:"count"`
	Sample []Process `json:"sample" yaml:"sample"`
}

// Services counts running systemd units.
type Services struct {
	Count int      `json:"count" yaml:"count"`
	Names []string `json:"names" yaml:"names"`
}

// DiscoveredAssets holds the runtime inventory an analysis ran against.
type DiscoveredAssets struct {
	Hostname       string    `json:"hostname,omitempty" yaml:"hostname,omitempty"`
	RuntimeProfile string    `json:"runtime_profile,omitempty" yaml:"runtime_profile,omitempty"`
	OpenPorts      OpenPorts `json:"open_ports" yaml:"open_ports"`
	Processes      Processes `json:"processes" yaml:"processes"`
	Systemd        Services  `json:"systemd" yaml:"systemd"`
}

// MetricSample is the latest value of one host metric.
type MetricSample struct {
	Name   string  `json:"name" yaml:"name"`
	Latest float64 `json:"latest" yaml:"latest"`
	Unit   string  `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// Metrics describes where metric samples came from and their values.
type Metrics struct {
	Source string         `json:"source" yaml:"source"`
	Series []MetricSample `json:"series" yaml:"series"`
}

// Finding is a single issue raised by analysis or a vulnerability rule.
type Finding struct {
	ID             string   `json:"id" yaml:"id"`
	Category       string   `json:"category" yaml:"category"`
	Severity       string   `json:"severity" yaml:"severity"`
	Title          string   `json:"title" yaml:"title"`
	Description    string   `json:"description,omitempty" yaml:"description,omitempty"`
	Evidence       []string `json:"evidence,omitempty" yaml:"evidence,omitempty"`
	Recommendation string   `json:"recommendation,omitempty" yaml:"recommendation,omitempty"`
}

// RiskScores are 0-100 risk ratings with a 0-1 confidence.
type RiskScores struct {
	MonitoringRisk    int     `json:"monitoring_risk" yaml:"monitoring_risk"`
	CybersecurityRisk int     `json:"cybersecurity_risk" yaml:"cybersecurity_risk"`
	OverallRisk       int     `json:"overall_risk" yaml:"overall_risk"`
	Confidence        float64 `json:"confidence" yaml:"confidence"`
}

// FindingSummary counts findings by severity.
type FindingSummary struct {
	Critical int `json:"critical" yaml:"critical"`
	High     int `json:"high" yaml:"high"`
	Medium   int `json:"medium" yaml:"medium"`
	Low      int `json:"low" yaml:"low"`
	Total    int `json:"total" yaml:"total"`
}

// Add counts one finding of the given severity.
func (s *FindingSummary) Add(severity string) {
	switch severity {
	case SeverityCritical:
		s.Critical++
	case SeverityHigh:
		s.High++
	case SeverityMedium:
		s.Medium++
	default:
		s.Low++
	}
	s.Total++
}

// ServicesSummary counts what the analyzer saw on the host.
type ServicesSummary struct {
	SystemdServices int `json:"systemd_services" yaml:"systemd_services"`
	OpenPorts       int `json:"open_ports" yaml:"open_ports"`
	Processes       int `json:"processes" yaml:"processes"`
}

// AnalysisResult is the analyzer's verdict.
type AnalysisResult struct {
	AnalyzedAt                   string          `json:"analyzed_at,omitempty" yaml:"analyzed_at,omitempty"`
	RuntimeProfile               string          `json:"runtime_profile,omitempty" yaml:"runtime_profile,omitempty"`
	ServicesSummary              ServicesSummary `json:"services_summary" yaml:"services_summary"`
	TelemetrySource              string          `json:"telemetry_source,omitempty" yaml:"telemetry_source,omitempty"`
	Findings                     []Finding       `json:"findings" yaml:"findings"`
	RiskScores                   RiskScores      `json:"risk_scores" yaml:"risk_scores"`
	Summary                      FindingSummary  `json:"summary" yaml:"summary"`
	MonitoringRecommendations    []string        `json:"monitoring_recommendations,omitempty" yaml:"monitoring_recommendations,omitempty"`
	CybersecurityRecommendations []string        `json:"cybersecurity_recommendations,omitempty" yaml:"cybersecurity_recommendations,omitempty"`
	Notes                        []string        `json:"notes" yaml:"notes"`
}

// Analysis is the payload of an analysis snapshot.
type Analysis struct {
	Query            string           `json:"query" yaml:"query"`
	DiscoveredAssets DiscoveredAssets `json:"discovered_assets" yaml:"discovered_assets"`
	Metrics          Metrics          `json:"metrics" yaml:"metrics"`
	Analysis         AnalysisResult   `json:"analysis" yaml:"analysis"`
}
