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

// Package cycle runs a single scan cycle.
//
// A cycle loads the latest scope, analysis and vulnerability snapshots,
// asks its Collaborators for fresh payloads, persists them with one shared
// captured_at and writes a cycle summary holding counts and diffs against
// the previous snapshots.
//
// A failing or panicking collaborator never aborts the cycle. Its payload is
// replaced by a placeholder whose notes carry the error, and the failure is
// logged and counted. Errors from the store do abort the cycle.
//
// # Usage
//
//	runner := cycle.NewRunner(store, collaborators,
//	    cycle.WithSecuritySweep(true, 8),
//	    cycle.WithPayloadLogging(false, 0),
//	)
//	summary, err := runner.Run(ctx, 1)
package cycle
