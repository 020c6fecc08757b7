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

package collector

import (
	"context"

	"github.com/NVIDIA/scanwatch/pkg/collector/host"
	"github.com/NVIDIA/scanwatch/pkg/collector/k8s"
	"github.com/NVIDIA/scanwatch/pkg/collector/systemd"
	"github.com/NVIDIA/scanwatch/pkg/defaults"
)

// HostCollector inventories the local host.
type HostCollector interface {
	Collect(ctx context.Context) (*host.Inventory, error)
}

// ServiceCollector lists running services.
type ServiceCollector interface {
	Collect(ctx context.Context) ([]systemd.Service, error)
}

// ClusterCollector reads Kubernetes cluster health.
type ClusterCollector interface {
	Collect(ctx context.Context) (*k8s.Cluster, error)
}

// Factory creates the discovery sources a cycle draws from.
type Factory interface {
	CreateHostCollector() HostCollector
	CreateSystemDCollector() ServiceCollector
	CreateKubernetesCollector() ClusterCollector
}

// DefaultFactory creates collectors with production dependencies.
type DefaultFactory struct {
	ProcRoot        string
	MaxProcesses    int
	SystemDPatterns []string
	Kubeconfig      string
}

// Option configures a DefaultFactory.
type Option func(*DefaultFactory)

// WithProcRoot sets the procfs mount point read by the host collector.
func WithProcRoot(root string) Option {
	return func(f *DefaultFactory) {
		f.ProcRoot = root
	}
}

// WithMaxProcesses caps the process sample taken per analysis.
func WithMaxProcesses(n int) Option {
	return func(f *DefaultFactory) {
		f.MaxProcesses = n
	}
}

// WithSystemDPatterns sets the unit name patterns listed from systemd.
func WithSystemDPatterns(patterns []string) Option {
	return func(f *DefaultFactory) {
		f.SystemDPatterns = patterns
	}
}

// WithKubeconfig sets the kubeconfig used by the Kubernetes collector.
func WithKubeconfig(path string) Option {
	return func(f *DefaultFactory) {
		f.Kubeconfig = path
	}
}

// NewDefaultFactory creates a factory with default settings.
func NewDefaultFactory(opts ...Option) *DefaultFactory {
	f := &DefaultFactory{
		ProcRoot:        "/proc",
		MaxProcesses:    defaults.HostProcessSample,
		SystemDPatterns: []string{"*.service"},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateHostCollector creates a procfs backed host collector.
func (f *DefaultFactory) CreateHostCollector() HostCollector {
	return &host.Collector{
		ProcRoot:     f.ProcRoot,
		MaxProcesses: f.MaxProcesses,
	}
}

// CreateSystemDCollector creates a systemd collector.
func (f *DefaultFactory) CreateSystemDCollector() ServiceCollector {
	return &systemd.Collector{
		Patterns: f.SystemDPatterns,
	}
}

// CreateKubernetesCollector creates a Kubernetes API collector.
func (f *DefaultFactory) CreateKubernetesCollector() ClusterCollector {
	return &k8s.Collector{
		Kubeconfig: f.Kubeconfig,
	}
}
