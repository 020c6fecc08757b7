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

package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	schedulerCycleTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scanwatch_scheduler_cycles_total",
			Help: "Total number of cycles started by the scheduler loop",
		},
		[]string{"status"},
	)

	schedulerSleepSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scanwatch_scheduler_sleep_seconds",
			Help:    "Time slept between cycles",
			Buckets: []float64{0, 1, 10, 60, 300, 900, 3600},
		},
	)

	schedulerOverrunTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scanwatch_scheduler_overrun_total",
			Help: "Cycles that finished after the next tick was due",
		},
	)
)
