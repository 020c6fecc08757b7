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

// Package scheduler runs scan cycles on wall-clock aligned ticks.
//
// Cycle starts are aligned to whole multiples of the interval since the Unix
// epoch, so an interval of 300 seconds fires at :00, :05, :10 and so on
// regardless of when the process started. A cycle that overruns its slot is
// followed immediately by the next one; ticks are never queued.
//
// After every cycle, when retention is enabled, the scheduler applies the
// retention policy and compacts the store on every CompactEveryCycles-th
// cycle.
//
// The cycle body, retention, sleep, clock and tick computation are
// injectable, which keeps the loop testable without waiting.
package scheduler
