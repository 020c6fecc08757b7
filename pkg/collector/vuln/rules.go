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

package vuln

import (
	"github.com/NVIDIA/scanwatch/pkg/payload"
)

// Rule is a CEL expression evaluated once per swept asset. The expression
// sees three variables:
//
//	asset         map(string, dyn)  the scope asset as serialized in the payload
//	ports         list(int)         ports the asset listens on
//	public_ports  list(int)         the subset bound to all interfaces
//
// A rule that evaluates to true raises one finding for the asset.
type Rule struct {
	ID             string `json:"id" yaml:"id"`
	Title          string `json:"title" yaml:"title"`
	Severity       string `json:"severity" yaml:"severity"`
	Description    string `json:"description" yaml:"description"`
	Recommendation string `json:"recommendation" yaml:"recommendation"`
	Expression     string `json:"expression" yaml:"expression"`
}

const (
	restrictExposure = "Restrict network exposure using firewall rules and access controls."
	disableProtocol  = "Disable the plaintext service or replace it with an authenticated, encrypted alternative."
	restoreHealth    = "Investigate component health and restore the affected resources."
)

// DefaultRules returns the built-in rule set.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:             "telnet-service",
			Title:          "Telnet service listening",
			Severity:       payload.SeverityCritical,
			Description:    "Telnet transmits credentials in cleartext.",
			Recommendation: disableProtocol,
			Expression:     "23 in ports",
		},
		{
			ID:             "docker-api-plaintext",
			Title:          "Docker API listening without TLS",
			Severity:       payload.SeverityCritical,
			Description:    "The Docker daemon API on port 2375 grants root-equivalent access.",
			Recommendation: disableProtocol,
			Expression:     "2375 in ports",
		},
		{
			ID:             "ftp-service",
			Title:          "FTP service listening",
			Severity:       payload.SeverityHigh,
			Description:    "FTP transmits credentials in cleartext.",
			Recommendation: disableProtocol,
			Expression:     "21 in ports",
		},
		{
			ID:             "public-rdp",
			Title:          "RDP reachable on a public address",
			Severity:       payload.SeverityHigh,
			Description:    "Remote desktop is a frequent brute-force target.",
			Recommendation: restrictExposure,
			Expression:     "3389 in public_ports",
		},
		{
			ID:             "public-datastore",
			Title:          "Datastore reachable on a public address",
			Severity:       payload.SeverityHigh,
			Description:    "A database or cache port is bound to all interfaces.",
			Recommendation: restrictExposure,
			Expression:     "public_ports.exists(p, p in [3306, 5432, 6379, 9200, 11211, 27017])",
		},
		{
			ID:             "public-kube-apiserver",
			Title:          "Kubernetes API server reachable on a public address",
			Severity:       payload.SeverityHigh,
			Description:    "The API server port is bound to all interfaces.",
			Recommendation: restrictExposure,
			Expression:     "6443 in public_ports",
		},
		{
			ID:             "public-ssh",
			Title:          "SSH reachable on a public address",
			Severity:       payload.SeverityMedium,
			Description:    "SSH is bound to all interfaces.",
			Recommendation: restrictExposure,
			Expression:     "22 in public_ports",
		},
		{
			ID:             "kubernetes-cluster-degraded",
			Title:          "Kubernetes cluster degraded",
			Severity:       payload.SeverityHigh,
			Description:    "Not every node in the cluster reports Ready.",
			Recommendation: restoreHealth,
			Expression:     "asset.asset_category == 'kubernetes' && asset.status == 'degraded'",
		},
		{
			ID:             "kubernetes-node-not-ready",
			Title:          "Kubernetes node not ready",
			Severity:       payload.SeverityMedium,
			Description:    "The node does not report the Ready condition.",
			Recommendation: restoreHealth,
			Expression:     "asset.asset_category == 'kubernetes-node' && asset.status != 'active'",
		},
		{
			ID:             "unidentified-operating-system",
			Title:          "Host operating system not identified",
			Severity:       payload.SeverityLow,
			Description:    "The host did not report an operating system release.",
			Recommendation: "Ensure os-release is present so the host can be matched against advisories.",
			Expression:     "asset.asset_category == 'infrastructure' && !has(asset.operating_system)",
		},
	}
}
