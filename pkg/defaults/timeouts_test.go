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

import (
	"testing"
	"time"
)

func TestTimeoutConstants(t *testing.T) {
	tests := []struct {
		name     string
		timeout  time.Duration
		minValue time.Duration
		maxValue time.Duration
	}{
		// Collector timeouts
		{"CollectorTimeout", CollectorTimeout, 5 * time.Second, 30 * time.Second},
		{"CollectorK8sTimeout", CollectorK8sTimeout, 10 * time.Second, 60 * time.Second},

		// Store
		{"StoreBusyTimeout", StoreBusyTimeout, 1 * time.Second, 60 * time.Second},
		{"StoreBusyBackoff", StoreBusyBackoff, 10 * time.Millisecond, 1 * time.Second},

		// Handler timeouts
		{"HistoryHandlerTimeout", HistoryHandlerTimeout, 1 * time.Second, 30 * time.Second},

		// Server timeouts
		{"ServerReadTimeout", ServerReadTimeout, 5 * time.Second, 30 * time.Second},
		{"ServerReadHeaderTimeout", ServerReadHeaderTimeout, 1 * time.Second, 10 * time.Second},
		{"ServerWriteTimeout", ServerWriteTimeout, 15 * time.Second, 60 * time.Second},
		{"ServerIdleTimeout", ServerIdleTimeout, 60 * time.Second, 300 * time.Second},
		{"ServerShutdownTimeout", ServerShutdownTimeout, 10 * time.Second, 60 * time.Second},

		// CLI
		{"CLICycleTimeout", CLICycleTimeout, 1 * time.Minute, 30 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.timeout < tt.minValue {
				t.Errorf("%s = %v, below minimum %v", tt.name, tt.timeout, tt.minValue)
			}
			if tt.timeout > tt.maxValue {
				t.Errorf("%s = %v, above maximum %v", tt.name, tt.timeout, tt.maxValue)
			}
		})
	}
}

func TestHandlerTimeoutBelowServerWrite(t *testing.T) {
	if HistoryHandlerTimeout >= ServerWriteTimeout {
		t.Errorf("HistoryHandlerTimeout (%v) should be less than ServerWriteTimeout (%v)",
			HistoryHandlerTimeout, ServerWriteTimeout)
	}
}

func TestRecentCycleSummaryBounds(t *testing.T) {
	if RecentCycleSummariesMin > RecentCycleSummariesDefault || RecentCycleSummariesDefault > RecentCycleSummariesMax {
		t.Errorf("default history size %d outside [%d, %d]",
			RecentCycleSummariesDefault, RecentCycleSummariesMin, RecentCycleSummariesMax)
	}
}
