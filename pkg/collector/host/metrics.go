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
	"fmt"
	"math"

	"github.com/prometheus/procfs"
	"golang.org/x/sys/unix"

	"github.com/NVIDIA/scanwatch/pkg/payload"
)

// Metric names understood by the analyzer's thresholds.
const (
	MetricCPUUsage    = "cpu_usage_percent"
	MetricMemoryUsage = "memory_usage_percent"
	MetricDiskUsage   = "disk_usage_percent"
)

const unitPercent = "percent"

// collectMetrics samples load, memory and disk usage. A metric that cannot
// be read is left out and noted.
func (c *Collector) collectMetrics(pfs procfs.FS, inv *Inventory) []payload.MetricSample {
	series := make([]payload.MetricSample, 0, 3)

	if load, err := pfs.LoadAvg(); err != nil {
		inv.note("load average unavailable: %v", err)
	} else {
		// One-minute load relative to CPU count, capped at 100.
		cpu := math.Min(100, load.Load1/float64(c.numCPU())*100)
		series = append(series, sample(MetricCPUUsage, cpu))
	}

	if mem, err := memoryUsage(pfs); err != nil {
		inv.note("memory usage unavailable: %v", err)
	} else {
		series = append(series, sample(MetricMemoryUsage, mem))
	}

	diskUsage := c.DiskUsage
	if diskUsage == nil {
		diskUsage = statfsUsage
	}
	path := c.DiskPath
	if path == "" {
		path = "/"
	}
	if disk, err := diskUsage(path); err != nil {
		inv.note("disk usage unavailable: %v", err)
	} else {
		series = append(series, sample(MetricDiskUsage, disk))
	}

	return series
}

func sample(name string, value float64) payload.MetricSample {
	return payload.MetricSample{
		Name:   name,
		Latest: math.Round(value*10) / 10,
		Unit:   unitPercent,
	}
}

func memoryUsage(pfs procfs.FS) (float64, error) {
	info, err := pfs.Meminfo()
	if err != nil {
		return 0, err
	}
	if info.MemTotal == nil || *info.MemTotal == 0 {
		return 0, fmt.Errorf("MemTotal missing from meminfo")
	}
	available := uint64(0)
	switch {
	case info.MemAvailable != nil:
		available = *info.MemAvailable
	case info.MemFree != nil:
		available = *info.MemFree
	}
	total := float64(*info.MemTotal)
	return (total - float64(available)) / total * 100, nil
}

// statfsUsage returns the used share of the filesystem holding path,
// counting blocks reserved for root as used.
func statfsUsage(path string) (float64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, fmt.Errorf("statfs %s: %w", path, err)
	}
	if st.Blocks == 0 {
		return 0, fmt.Errorf("statfs %s: zero blocks", path)
	}
	return float64(st.Blocks-st.Bavail) / float64(st.Blocks) * 100, nil
}
