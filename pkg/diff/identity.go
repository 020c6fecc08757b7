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

package diff

import (
	"fmt"
	"strings"

	"github.com/NVIDIA/scanwatch/pkg/payload"
)

// AssetIDs returns the asset identities of a scope payload. An asset is
// identified by its asset_id, or by its asset_name when the id is blank.
func AssetIDs(scope payload.Document) Set {
	ids := NewSet()
	for _, item := range scope.List("assets") {
		asset := payload.AsDocument(item)
		if asset == nil {
			continue
		}
		if id := firstNonBlank(asset.String("asset_id"), asset.String("asset_name")); id != "" {
			ids.Add(id)
		}
	}
	return ids
}

// PortIDs returns the listener identities of an analysis payload in the form
// protocol|local_address|port|process. Listeners without an integral port are
// ignored.
func PortIDs(analysis payload.Document) Set {
	ids := NewSet()
	listeners := analysis.Map("discovered_assets").Map("open_ports").List("listeners")
	for _, item := range listeners {
		l := payload.AsDocument(item)
		if l == nil {
			continue
		}
		port, ok := l.Int("port")
		if !ok {
			continue
		}
		ids.Add(PortID(
			stringOr(l, "protocol", "tcp"),
			stringOr(l, "local_address", ""),
			port,
			stringOr(l, "process", "unknown"),
		))
	}
	return ids
}

// PortID formats a listener identity.
func PortID(protocol, localAddress string, port int, process string) string {
	return fmt.Sprintf("%s|%s|%d|%s", protocol, localAddress, port, process)
}

// AnomalyIDs returns the finding identities of an analysis payload.
func AnomalyIDs(analysis payload.Document) Set {
	return findingIDs(analysis.Map("analysis").List("findings"))
}

// VulnerabilityIDs returns the finding identities across all scan results of
// a vulnerability payload. A nil payload yields an empty set.
func VulnerabilityIDs(vulnerability payload.Document) Set {
	ids := NewSet()
	for _, item := range vulnerability.List("scan_results") {
		result := payload.AsDocument(item)
		if result == nil {
			continue
		}
		for id := range findingIDs(result.List("findings")) {
			ids.Add(id)
		}
	}
	return ids
}

func findingIDs(findings []any) Set {
	ids := NewSet()
	for _, item := range findings {
		f := payload.AsDocument(item)
		if f == nil {
			continue
		}
		if id := firstNonBlank(f.String("id"), f.String("title")); id != "" {
			ids.Add(id)
		}
	}
	return ids
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			return t
		}
	}
	return ""
}

// stringOr returns the text of key, or def when the key is missing or null.
func stringOr(d payload.Document, key, def string) string {
	if v, ok := d[key]; ok && v != nil {
		return payload.Text(v)
	}
	return def
}
