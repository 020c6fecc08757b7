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

package collector

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/NVIDIA/scanwatch/pkg/collector/host"
	"github.com/NVIDIA/scanwatch/pkg/collector/systemd"
	"github.com/NVIDIA/scanwatch/pkg/defaults"
	"github.com/NVIDIA/scanwatch/pkg/payload"
	"github.com/NVIDIA/scanwatch/pkg/snapshot"
)

// Telemetry sources reported by the analyzer.
const (
	TelemetryLive        = "live"
	TelemetryMock        = "mock"
	TelemetryUnavailable = "unavailable"
)

const (
	metricRecommendation  = "Review workload saturation, regressions, and alert routing for this metric."
	portRecommendation    = "Restrict listener exposure with firewall rules, network policy, and service authentication."
	processRecommendation = "Validate process provenance, isolate host if malicious, and preserve forensic evidence."
)

// sensitivePorts maps well known service ports to the finding raised when
// they listen on a public address.
var sensitivePorts = map[int]string{
	21:    "FTP control port exposed",
	22:    "SSH management port exposed",
	23:    "Telnet management port exposed",
	2375:  "Docker API exposed without TLS",
	3306:  "MySQL database port exposed",
	3389:  "RDP management port exposed",
	5432:  "PostgreSQL database port exposed",
	6379:  "Redis port exposed",
	6443:  "Kubernetes API server port exposed",
	9200:  "Elasticsearch HTTP port exposed",
	11211: "Memcached port exposed",
	27017: "MongoDB port exposed",
}

// criticalPorts raise critical rather than high findings when exposed.
var criticalPorts = map[int]bool{2375: true, 6443: true}

// suspiciousPatterns are matched in order; the first hit wins.
var suspiciousPatterns = []struct {
	pattern string
	reason  string
}{
	{"nmap ", "Active network scanning command detected"},
	{"masscan", "High-speed port scanning pattern detected"},
	{"sqlmap", "SQL injection tooling pattern detected"},
	{"hydra ", "Credential brute-force tooling pattern detected"},
	{"mimikatz", "Credential extraction tooling pattern detected"},
	{"xmrig", "Cryptominer process pattern detected"},
	{"nc -e", "Netcat reverse shell style execution detected"},
	{"bash -i", "Interactive shell launch pattern detected"},
	{"curl | sh", "Piped remote shell execution pattern detected"},
	{"wget http", "External binary/script download pattern detected"},
}

type thresholds struct {
	low, medium, high, critical float64
}

var metricThresholds = map[string]thresholds{
	"cpu_usage_percent":    {60, 75, 85, 93},
	"memory_usage_percent": {65, 78, 88, 95},
	"disk_usage_percent":   {70, 80, 90, 96},
	"request_p95_ms":       {250, 350, 700, 1200},
	"error_rate_percent":   {0.7, 1.5, 3, 5},
}

var severityPoints = map[string]int{
	payload.SeverityLow:      8,
	payload.SeverityMedium:   18,
	payload.SeverityHigh:     30,
	payload.SeverityCritical: 45,
}

var publicPrefixes = []string{"0.0.0.0:", "*:", "[::]:", ":::"}

// AnalysisInput carries what the analyzer inspects.
type AnalysisInput struct {
	Query     string
	Inventory *host.Inventory
	Services  []systemd.Service

	// MetricsSource overrides the telemetry source. Default: live when the
	// inventory has metric samples, unavailable otherwise.
	MetricsSource string

	Now time.Time
}

// Analyze applies the monitoring and cybersecurity rules to a host
// inventory and scores the result.
func Analyze(in AnalysisInput) payload.Analysis {
	inv := in.Inventory
	if inv == nil {
		inv = &host.Inventory{}
	}
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	listeners := inv.Listeners
	if listeners == nil {
		listeners = []payload.Listener{}
	}
	processes := inv.Processes
	if processes == nil {
		processes = []payload.Process{}
	}
	series := inv.Metrics
	if series == nil {
		series = []payload.MetricSample{}
	}
	source := in.MetricsSource
	if source == "" {
		source = TelemetryUnavailable
		if len(series) > 0 {
			source = TelemetryLive
		}
	}
	names := systemd.Names(in.Services)

	var findings []payload.Finding
	findings = append(findings, portFindings(listeners)...)
	findings = append(findings, processFindings(processes)...)
	findings = append(findings, metricFindings(series, source)...)
	if findings == nil {
		findings = []payload.Finding{}
	}

	result := payload.AnalysisResult{
		AnalyzedAt:     snapshot.FormatTimestamp(now),
		RuntimeProfile: host.RuntimeProfile,
		ServicesSummary: payload.ServicesSummary{
			SystemdServices: len(names),
			OpenPorts:       len(listeners),
			Processes:       inv.ProcessCount,
		},
		TelemetrySource: source,
		Findings:        findings,
		RiskScores:      riskScores(findings, source),
		Notes:           []string{},
	}

	for _, f := range findings {
		result.Summary.Add(f.Severity)
		switch f.Category {
		case payload.CategoryMonitoring:
			result.MonitoringRecommendations = appendUnique(result.MonitoringRecommendations, f.Recommendation)
		case payload.CategoryCybersecurity:
			result.CybersecurityRecommendations = appendUnique(result.CybersecurityRecommendations, f.Recommendation)
		}
	}

	if source == TelemetryMock {
		result.Notes = append(result.Notes, "Telemetry source is mock; anomaly confidence is reduced.")
	}
	if len(names) == 0 {
		result.Notes = append(result.Notes, "No running systemd services or docker containers were discovered.")
	}
	result.Notes = append(result.Notes, inv.Notes...)

	return payload.Analysis{
		Query: in.Query,
		DiscoveredAssets: payload.DiscoveredAssets{
			Hostname:       inv.Hostname,
			RuntimeProfile: host.RuntimeProfile,
			OpenPorts:      payload.OpenPorts{Count: len(listeners), Listeners: listeners},
			Processes:      payload.Processes{Count: inv.ProcessCount, Sample: processes},
			Systemd:        payload.Services{Count: len(names), Names: names},
		},
		Metrics:  payload.Metrics{Source: source, Series: series},
		Analysis: result,
	}
}

func metricFindings(series []payload.MetricSample, source string) []payload.Finding {
	var findings []payload.Finding
	for _, m := range series {
		t, ok := metricThresholds[m.Name]
		if !ok {
			continue
		}
		severity := metricSeverity(m.Latest, t)
		if severity == "" {
			continue
		}
		latest := strconv.FormatFloat(m.Latest, 'f', -1, 64)
		findings = append(findings, payload.Finding{
			ID:             "metric-" + m.Name,
			Category:       payload.CategoryMonitoring,
			Severity:       severity,
			Title:          "Anomalous metric: " + m.Name,
			Description:    fmt.Sprintf("%s exceeded expected threshold with latest value %s.", m.Name, latest),
			Evidence:       []string{"metric=" + m.Name, "latest=" + latest, "source=" + source},
			Recommendation: metricRecommendation,
		})
	}
	return findings
}

func metricSeverity(v float64, t thresholds) string {
	switch {
	case v >= t.critical:
		return payload.SeverityCritical
	case v >= t.high:
		return payload.SeverityHigh
	case v >= t.medium:
		return payload.SeverityMedium
	case v >= t.low:
		return payload.SeverityLow
	}
	return ""
}

func portFindings(listeners []payload.Listener) []payload.Finding {
	var findings []payload.Finding
	for _, l := range listeners {
		description, ok := sensitivePorts[l.Port]
		if !ok || !isPublicListener(l.LocalAddress) {
			continue
		}
		severity := payload.SeverityHigh
		if criticalPorts[l.Port] {
			severity = payload.SeverityCritical
		}
		pid := "unknown"
		if l.PID > 0 {
			pid = strconv.Itoa(l.PID)
		}
		port := strconv.Itoa(l.Port)
		findings = append(findings, payload.Finding{
			ID:             "port-" + port,
			Category:       payload.CategoryCybersecurity,
			Severity:       severity,
			Title:          "Sensitive service exposed on " + port,
			Description:    description,
			Evidence:       []string{"port=" + port, "local_address=" + l.LocalAddress, "process=" + l.Process, "pid=" + pid},
			Recommendation: portRecommendation,
		})
	}
	return findings
}

func isPublicListener(address string) bool {
	address = strings.ToLower(strings.TrimSpace(address))
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(address, prefix) {
			return true
		}
	}
	return false
}

func processFindings(processes []payload.Process) []payload.Finding {
	var findings []payload.Finding
	for _, p := range processes {
		fingerprint := strings.ToLower(p.Command + " " + p.Args)
		for _, rule := range suspiciousPatterns {
			if !strings.Contains(fingerprint, rule.pattern) {
				continue
			}
			args := p.Args
			if len(args) > defaults.ProcessArgsEvidenceChars {
				args = args[:defaults.ProcessArgsEvidenceChars]
			}
			findings = append(findings, payload.Finding{
				ID:             "proc-" + strconv.Itoa(p.PID) + "-" + strings.ReplaceAll(rule.pattern, " ", "-"),
				Category:       payload.CategoryCybersecurity,
				Severity:       payload.SeverityCritical,
				Title:          "Suspicious process pattern detected",
				Description:    rule.reason,
				Evidence:       []string{"pid=" + strconv.Itoa(p.PID), "command=" + p.Command, "args=" + args},
				Recommendation: processRecommendation,
			})
			break
		}
	}
	return findings
}

// riskScores sums severity points per category, each capped at 100. The
// overall score is their mean rounded half to even.
func riskScores(findings []payload.Finding, source string) payload.RiskScores {
	var monitoring, cyber int
	for _, f := range findings {
		switch f.Category {
		case payload.CategoryMonitoring:
			monitoring += severityPoints[f.Severity]
		case payload.CategoryCybersecurity:
			cyber += severityPoints[f.Severity]
		}
	}
	monitoring = min(monitoring, 100)
	cyber = min(cyber, 100)
	overall := min(int(math.RoundToEven(float64(monitoring+cyber)/2)), 100)

	confidence := 0.6
	switch source {
	case TelemetryMock:
		confidence = 0.45
	case TelemetryLive:
		confidence = 0.8
	}

	return payload.RiskScores{
		MonitoringRisk:    monitoring,
		CybersecurityRisk: cyber,
		OverallRisk:       overall,
		Confidence:        confidence,
	}
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
