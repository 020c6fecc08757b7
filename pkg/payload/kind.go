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

// Kind discriminates the snapshot types held by the store.
type Kind string

const (
	KindScope         Kind = "scope"
	KindAnalysis      Kind = "analysis"
	KindVulnerability Kind = "vulnerability"
	KindCycleSummary  Kind = "cycle_summary"
)

// String returns the kind name.
func (k Kind) String() string {
	return string(k)
}

// IsKnown reports whether k is one of the kinds written by a cycle.
func (k Kind) IsKnown() bool {
	switch k {
	case KindScope, KindAnalysis, KindVulnerability, KindCycleSummary:
		return true
	default:
		return false
	}
}

// Kinds returns the kinds written by a cycle, in write order.
func Kinds() []Kind {
	return []Kind{KindScope, KindAnalysis, KindVulnerability, KindCycleSummary}
}
