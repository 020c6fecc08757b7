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

package cycle

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Cycle metrics
	cycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scanwatch_cycle_duration_seconds",
			Help:    "Time taken to run a complete scan cycle",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	cycleTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scanwatch_cycle_total",
			Help: "Total number of scan cycles",
		},
		[]string{"status"}, // success or error
	)

	collaboratorDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scanwatch_collaborator_duration_seconds",
			Help:    "Time taken by individual cycle collaborators",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 120},
		},
		[]string{"collaborator"}, // scope, analysis, vulnerability
	)

	collaboratorFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scanwatch_collaborator_failures_total",
			Help: "Total number of collaborator failures replaced by placeholders",
		},
		[]string{"collaborator"},
	)

	lastCycleAssets = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scanwatch_cycle_assets",
			Help: "Number of scope assets in the last cycle",
		},
	)

	lastCycleOverallRisk = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scanwatch_cycle_overall_risk",
			Help: "Overall risk score of the last cycle",
		},
	)

	lastCycleFindings = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "scanwatch_cycle_findings",
			Help: "Number of findings in the last cycle",
		},
		[]string{"source"}, // analysis or vulnerability
	)
)
