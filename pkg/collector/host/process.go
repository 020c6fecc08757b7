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

package host

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/prometheus/procfs"

	"github.com/NVIDIA/scanwatch/pkg/payload"
)

// socketOwner is the first process found holding a socket inode.
type socketOwner struct {
	pid     int
	command string
}

type processScan struct {
	sample  []payload.Process
	count   int
	sockets map[uint64]socketOwner
}

// collectProcesses walks the process table in pid order. Every process is
// counted and its socket inodes recorded; only the first maxProcesses are
// sampled. Processes that exit mid-walk or deny access are skipped.
func (c *Collector) collectProcesses(ctx context.Context, pfs procfs.FS) (processScan, error) {
	scan := processScan{sockets: make(map[uint64]socketOwner)}

	procs, err := pfs.AllProcs()
	if err != nil {
		return scan, fmt.Errorf("failed to list processes: %w", err)
	}
	sort.Slice(procs, func(i, j int) bool { return procs[i].PID < procs[j].PID })

	limit := c.maxProcesses()
	scan.sample = make([]payload.Process, 0, min(limit, len(procs)))

	for _, proc := range procs {
		if err := ctx.Err(); err != nil {
			return scan, err
		}

		command, err := proc.Comm()
		if err != nil {
			continue
		}
		scan.count++

		if targets, err := proc.FileDescriptorTargets(); err == nil {
			for _, target := range targets {
				inode, ok := socketInode(target)
				if !ok {
					continue
				}
				if _, seen := scan.sockets[inode]; !seen {
					scan.sockets[inode] = socketOwner{pid: proc.PID, command: command}
				}
			}
		}

		if len(scan.sample) >= limit {
			continue
		}

		args := command
		if cmdline, err := proc.CmdLine(); err == nil && len(cmdline) > 0 {
			args = strings.Join(cmdline, " ")
		}
		scan.sample = append(scan.sample, payload.Process{
			PID:     proc.PID,
			Command: command,
			Args:    args,
		})
	}

	return scan, nil
}

// socketInode parses an fd link target of the form "socket:[12345]".
func socketInode(target string) (uint64, bool) {
	rest, ok := strings.CutPrefix(target, "socket:[")
	if !ok {
		return 0, false
	}
	rest, ok = strings.CutSuffix(rest, "]")
	if !ok {
		return 0, false
	}
	inode, err := strconv.ParseUint(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return inode, true
}
