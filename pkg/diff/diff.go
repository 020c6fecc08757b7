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

// Result describes how an identity set changed between two snapshots.
type Result struct {
	Added        []string `json:"added" yaml:"added"`
	Removed      []string `json:"removed" yaml:"removed"`
	AddedCount   int      `json:"added_count" yaml:"added_count"`
	RemovedCount int      `json:"removed_count" yaml:"removed_count"`
}

// Compute returns the identities in current but not previous (added) and in
// previous but not current (removed), each sorted ascending.
func Compute(previous, current Set) Result {
	added := current.Minus(previous)
	removed := previous.Minus(current)
	return Result{
		Added:        added,
		Removed:      removed,
		AddedCount:   len(added),
		RemovedCount: len(removed),
	}
}

// Empty returns a Result with no changes.
func Empty() Result {
	return Compute(nil, nil)
}

// Changed reports whether anything was added or removed.
func (r Result) Changed() bool {
	return r.AddedCount > 0 || r.RemovedCount > 0
}
