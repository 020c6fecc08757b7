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

// Package host inventories the local machine for scope discovery and
// system analysis.
//
// Collector reads procfs through github.com/prometheus/procfs:
//
//   - listening TCP sockets and unconnected UDP sockets from /proc/net,
//     with the owning process resolved by matching socket inodes against
//     /proc/<pid>/fd
//   - a pid-ordered sample of processes with their command lines
//   - load average, memory and disk usage as percentages
//
// The OS name comes from /etc/os-release. Only an unusable procfs fails a
// collection; anything else missing is reported in Inventory.Notes.
package host
