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

// Package diff computes set differences between consecutive snapshots.
//
// Each domain has an identity function that extracts stable identifiers from
// a payload:
//
//   - AssetIDs: scope assets by asset_id, falling back to asset_name
//   - PortIDs: listeners as protocol|local_address|port|process
//   - AnomalyIDs: analysis findings by id, falling back to title
//   - VulnerabilityIDs: findings across all scan results by id or title
//
// Compute then reports what was added and removed:
//
//	r := diff.Compute(diff.AssetIDs(previous), diff.AssetIDs(current))
//	fmt.Println(r.Added, r.RemovedCount)
//
// Identity functions never fail. Payload elements that are not objects, and
// elements without a usable identity, are skipped.
package diff
