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
	"io/fs"
	"log/slog"
	"os"
	"runtime"

	"github.com/prometheus/procfs"

	"github.com/NVIDIA/scanwatch/pkg/defaults"
	cnserrors "github.com/NVIDIA/scanwatch/pkg/errors"
	"github.com/NVIDIA/scanwatch/pkg/payload"
)

// RuntimeProfile is reported for inventories taken from the host process table.
const RuntimeProfile = "host-process"

// Collector inventories the local host from procfs.
type Collector struct {
	// ProcRoot is the procfs mount point. Default: /proc.
	ProcRoot string

	// RootFS resolves /etc/os-release. Default: the host root.
	RootFS fs.FS

	// MaxProcesses caps the process sample. Default: 200, at most 2000.
	MaxProcesses int

	// MaxListeners caps the reported listeners. Default: 200.
	MaxListeners int

	// DiskPath is the filesystem sampled for disk usage. Default: /.
	DiskPath string

	Hostname  func() (string, error)
	DiskUsage func(path string) (float64, error)
	NumCPU    func() int
}

// Inventory is what one collection found on the host.
type Inventory struct {
	Hostname        string
	OperatingSystem string
	Listeners       []payload.Listener
	Processes       []payload.Process
	ProcessCount    int
	Metrics         []payload.MetricSample
	Notes           []string
}

// Collect reads the host inventory. Only an unusable procfs is an error;
// partial failures are recorded in Inventory.Notes.
func (c *Collector) Collect(ctx context.Context) (*Inventory, error) {
	slog.Debug("collecting host inventory", "procRoot", c.procRoot())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pfs, err := procfs.NewFS(c.procRoot())
	if err != nil {
		return nil, cnserrors.WrapWithContext(cnserrors.ErrCodeUnavailable,
			"procfs is not available", err, map[string]any{"root": c.procRoot()})
	}

	inv := &Inventory{}

	hostname, err := c.hostname()
	if err != nil {
		inv.note("hostname lookup failed: %v", err)
		hostname = "localhost"
	}
	inv.Hostname = hostname

	osName, err := c.operatingSystem()
	if err != nil {
		inv.note("os release lookup failed: %v", err)
	}
	inv.OperatingSystem = osName

	procs, err := c.collectProcesses(ctx, pfs)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		inv.note("process discovery failed: %v", err)
	}
	inv.Processes = procs.sample
	inv.ProcessCount = procs.count

	listeners, err := c.collectListeners(pfs, procs.sockets)
	if err != nil {
		inv.note("listener discovery failed: %v", err)
	}
	inv.Listeners = listeners

	inv.Metrics = c.collectMetrics(pfs, inv)

	slog.Debug("collected host inventory",
		"hostname", inv.Hostname,
		"processes", inv.ProcessCount,
		"listeners", len(inv.Listeners),
		"notes", len(inv.Notes))

	return inv, nil
}

func (inv *Inventory) note(format string, args ...any) {
	inv.Notes = append(inv.Notes, fmt.Sprintf(format, args...))
}

func (c *Collector) procRoot() string {
	if c.ProcRoot == "" {
		return procfs.DefaultMountPoint
	}
	return c.ProcRoot
}

func (c *Collector) rootFS() fs.FS {
	if c.RootFS == nil {
		return os.DirFS("/")
	}
	return c.RootFS
}

func (c *Collector) hostname() (string, error) {
	if c.Hostname != nil {
		return c.Hostname()
	}
	return os.Hostname()
}

func (c *Collector) numCPU() int {
	n := runtime.NumCPU()
	if c.NumCPU != nil {
		n = c.NumCPU()
	}
	if n < 1 {
		return 1
	}
	return n
}

func (c *Collector) maxProcesses() int {
	switch {
	case c.MaxProcesses <= 0:
		return defaults.HostProcessSample
	case c.MaxProcesses > defaults.HostMaxProcesses:
		return defaults.HostMaxProcesses
	default:
		return c.MaxProcesses
	}
}

func (c *Collector) maxListeners() int {
	if c.MaxListeners <= 0 {
		return defaults.HostMaxListeners
	}
	return c.MaxListeners
}
