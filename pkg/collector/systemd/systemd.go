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

package systemd

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/coreos/go-systemd/v22/dbus"
)

var (
	defaultPatterns = []string{"*.service"}
	defaultStates   = []string{"running"}
)

// DefaultLimit caps the number of services returned.
const DefaultLimit = 120

// Service is a running systemd unit.
type Service struct {
	Unit        string
	Description string
	ActiveState string
	SubState    string
}

// UnitLister is the part of a systemd D-Bus connection the collector uses.
type UnitLister interface {
	ListUnitsByPatternsContext(ctx context.Context, states []string, patterns []string) ([]dbus.UnitStatus, error)
	Close()
}

// ConnectFunc opens a connection to systemd.
type ConnectFunc func(ctx context.Context) (UnitLister, error)

// Collector lists running systemd services over D-Bus.
type Collector struct {
	// Patterns selects units by name. Default: *.service.
	Patterns []string

	// States selects units by sub-state. Default: running.
	States []string

	// Limit caps the result. Default: DefaultLimit.
	Limit int

	// Connect opens the D-Bus connection. Default: the system bus.
	Connect ConnectFunc
}

// Collect returns matching units sorted by name.
func (c *Collector) Collect(ctx context.Context) ([]Service, error) {
	slog.Debug("collecting systemd services")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	connect := c.Connect
	if connect == nil {
		connect = systemConnect
	}
	conn, err := connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to systemd: %w", err)
	}
	defer conn.Close()

	patterns := c.Patterns
	if len(patterns) == 0 {
		patterns = defaultPatterns
	}
	states := c.States
	if len(states) == 0 {
		states = defaultStates
	}

	units, err := conn.ListUnitsByPatternsContext(ctx, states, patterns)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}

	services := make([]Service, 0, len(units))
	for _, u := range units {
		services = append(services, Service{
			Unit:        u.Name,
			Description: u.Description,
			ActiveState: u.ActiveState,
			SubState:    u.SubState,
		})
	}
	sort.Slice(services, func(i, j int) bool { return services[i].Unit < services[j].Unit })

	limit := c.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(services) > limit {
		services = services[:limit]
	}
	return services, nil
}

func systemConnect(ctx context.Context) (UnitLister, error) {
	return dbus.NewSystemConnectionContext(ctx)
}

// Names returns the unit names of services.
func Names(services []Service) []string {
	names := make([]string, 0, len(services))
	for _, s := range services {
		names = append(names, s.Unit)
	}
	return names
}
