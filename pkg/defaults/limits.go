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

package defaults

// Result size limits.
const (
	// RecentCycleSummariesMin and RecentCycleSummariesMax clamp the limit
	// accepted by cycle history queries.
	RecentCycleSummariesMin = 1
	RecentCycleSummariesMax = 200

	// RecentCycleSummariesDefault is the history size used when none is given.
	RecentCycleSummariesDefault = 20

	// ScopeNotesMax caps the notes attached to a scope payload.
	ScopeNotesMax = 20

	// ScopeMaxAssets caps the number of assets a scope payload carries.
	ScopeMaxAssets = 500

	// HostProcessSample is the default number of processes inspected per
	// analysis. HostMaxProcesses is the largest accepted value.
	HostProcessSample = 200
	HostMaxProcesses  = 2000

	// HostMaxListeners caps the listeners reported per analysis.
	HostMaxListeners = 200

	// ProcessArgsEvidenceChars caps the command line quoted in a finding.
	ProcessArgsEvidenceChars = 180

	// RetentionDeleteBatch is the number of ids deleted per statement.
	RetentionDeleteBatch = 500
)
