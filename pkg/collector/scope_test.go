package collector

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/scanwatch/pkg/collector/host"
	"github.com/NVIDIA/scanwatch/pkg/collector/k8s"
	"github.com/NVIDIA/scanwatch/pkg/collector/systemd"
	"github.com/NVIDIA/scanwatch/pkg/k8s/client"
	"github.com/NVIDIA/scanwatch/pkg/payload"
)

var scanTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testRuntime() *Runtime {
	return &Runtime{
		Inventory: &host.Inventory{
			Hostname:        "node-a",
			OperatingSystem: "Ubuntu 24.04 LTS",
			Listeners: []payload.Listener{
				{Protocol: "tcp", LocalAddress: "0.0.0.0:22", Port: 22, Process: "sshd", PID: 100},
				{Protocol: "tcp", LocalAddress: "127.0.0.1:6379", Port: 6379, Process: "redis-server", PID: 200},
			},
			ProcessCount: 42,
		},
		Services: []systemd.Service{
			{Unit: "containerd.service", ActiveState: "active", SubState: "running"},
			{Unit: "ssh.service", ActiveState: "active", SubState: "running"},
		},
	}
}

func testCluster() *k8s.Cluster {
	return &k8s.Cluster{
		Name:       "prod",
		Version:    "v1.31.2",
		Status:     k8s.StatusDegraded,
		NodesTotal: 2,
		NodesReady: 1,
		Nodes: []k8s.Node{
			{Name: "worker-1", Ready: true, InternalIP: "10.0.0.1", OSImage: "Ubuntu"},
			{Name: "worker-2", Ready: false, InternalIP: "10.0.0.2"},
		},
	}
}

func assetIDs(assets []payload.Asset) []string {
	ids := make([]string, len(assets))
	for i, a := range assets {
		ids[i] = a.AssetID
	}
	return ids
}

func TestBuildScope(t *testing.T) {
	scope := BuildScope(ScopeInput{
		Runtime: testRuntime(),
		Cluster: testCluster(),
		Now:     scanTime,
	})

	assert.Equal(t, []string{
		"host-node-a",
		"service-containerd.service",
		"service-ssh.service",
		"port-22-sshd",
		"port-6379-redis-server",
		"k8s-cluster-prod",
		"k8s-node-worker-1",
		"k8s-node-worker-2",
	}, assetIDs(scope.Assets))

	assert.Equal(t, payload.ScopeSources{
		Runtime:    payload.SourceOK,
		Cloud:      payload.SourceUnavailable,
		Kubernetes: payload.SourcePartial,
	}, scope.Sources)

	assert.Equal(t, payload.ScopeSummary{
		TotalAssets:     8,
		CriticalAssets:  2,
		ImportantAssets: 4,
		ExternalAssets:  2,
		ScanTimestamp:   "2026-03-01T12:00:00+00:00",
	}, scope.Summary)

	require.NotNil(t, scope.Coverage)
	assert.Equal(t, payload.ScopeCoverage{
		RuntimeAssets:        5,
		ListeningPorts:       2,
		Services:             2,
		KubernetesNodesTotal: 2,
		KubernetesNodesReady: 1,
	}, *scope.Coverage)
	assert.Empty(t, scope.Notes)

	port := scope.Assets[3]
	assert.Equal(t, "sshd:22", port.AssetName)
	assert.Equal(t, "network", port.AssetCategory)
	assert.Equal(t, payload.AssetTypeExternal, port.AssetType)
	assert.Equal(t, "0.0.0.0:22", port.IPAddress)
	assert.Equal(t, []string{"tcp:22"}, port.Services)

	cluster := scope.Assets[5]
	assert.Equal(t, "degraded", cluster.Status)
	assert.Equal(t, []string{"kubernetes", "degraded"}, cluster.Tags)
	assert.Equal(t, "high", cluster.BusinessCriticality)

	assert.Equal(t, "active", scope.Assets[6].Status)
	assert.Equal(t, "degraded", scope.Assets[7].Status)
}

func TestBuildScope_RuntimeFailure(t *testing.T) {
	scope := BuildScope(ScopeInput{
		RuntimeErr: errors.New("procfs is not available"),
		Cluster:    &k8s.Cluster{Name: "dev", Status: k8s.StatusOK, NodesTotal: 1, NodesReady: 1},
		Now:        scanTime,
	})

	assert.Equal(t, payload.SourceError, scope.Sources.Runtime)
	assert.Equal(t, payload.SourceOK, scope.Sources.Kubernetes)
	assert.Equal(t, []string{"runtime discovery failed: procfs is not available"}, scope.Notes)
	assert.Equal(t, []string{"k8s-cluster-dev"}, assetIDs(scope.Assets))
	assert.Equal(t, "active", scope.Assets[0].Status)
}

func TestBuildScope_PartialRuntime(t *testing.T) {
	rt := testRuntime()
	rt.Inventory.Notes = []string{"listeners: permission denied"}
	rt.ServicesErr = errors.New("dbus unavailable")

	scope := BuildScope(ScopeInput{Runtime: rt, ClusterErr: client.ErrNoCluster, Now: scanTime})

	assert.Equal(t, payload.SourcePartial, scope.Sources.Runtime)
	assert.Equal(t, payload.SourceUnavailable, scope.Sources.Kubernetes)
	assert.Equal(t, []string{
		"listeners: permission denied",
		"systemd discovery failed: dbus unavailable",
	}, scope.Notes)
}

func TestBuildScope_KubernetesError(t *testing.T) {
	scope := BuildScope(ScopeInput{
		Runtime:    testRuntime(),
		ClusterErr: fmt.Errorf("failed to get kubernetes version: %w", errors.New("connection refused")),
		Now:        scanTime,
	})

	assert.Equal(t, payload.SourceError, scope.Sources.Kubernetes)
	assert.Equal(t, []string{"kubernetes health discovery failed: failed to get kubernetes version: connection refused"}, scope.Notes)
	assert.Zero(t, scope.Coverage.KubernetesNodesTotal)
}

func TestBuildScope_WrappedNoCluster(t *testing.T) {
	scope := BuildScope(ScopeInput{
		Runtime:    testRuntime(),
		ClusterErr: fmt.Errorf("failed to get kubernetes client: %w", client.ErrNoCluster),
		Now:        scanTime,
	})

	assert.Equal(t, payload.SourceUnavailable, scope.Sources.Kubernetes)
	assert.Empty(t, scope.Notes)
}

func TestBuildScope_MaxAssets(t *testing.T) {
	rt := testRuntime()
	for i := range 10 {
		rt.Services = append(rt.Services, systemd.Service{Unit: fmt.Sprintf("extra-%d.service", i)})
	}

	scope := BuildScope(ScopeInput{Runtime: rt, Cluster: testCluster(), MaxAssets: 6, Now: scanTime})

	// 6/3 = 2 services and 2 listeners next to the host, then the cluster.
	assert.Equal(t, []string{
		"host-node-a",
		"service-containerd.service",
		"service-ssh.service",
		"port-22-sshd",
		"port-6379-redis-server",
		"k8s-cluster-prod",
	}, assetIDs(scope.Assets))
	assert.Equal(t, 6, scope.Summary.TotalAssets)
	assert.Equal(t, 5, scope.Coverage.RuntimeAssets)
	assert.Equal(t, 12, scope.Coverage.Services)
}

func TestBuildScope_NotesCapped(t *testing.T) {
	rt := testRuntime()
	for i := range 30 {
		rt.Inventory.Notes = append(rt.Inventory.Notes, fmt.Sprintf("note %d", i))
	}

	scope := BuildScope(ScopeInput{Runtime: rt, ClusterErr: client.ErrNoCluster, Now: scanTime})

	assert.Len(t, scope.Notes, 20)
	assert.Equal(t, "note 0", scope.Notes[0])
}

func TestDedupAssets(t *testing.T) {
	assets := []payload.Asset{
		{AssetID: "a", AssetName: "one", AssetCategory: "network", Status: "first"},
		{AssetID: "b", AssetName: "two", AssetCategory: "network"},
		{AssetID: "a", AssetName: "one", AssetCategory: "network", Status: "last"},
		{AssetID: "a", AssetName: "one", AssetCategory: "service"},
	}

	got := dedupAssets(assets)

	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].AssetID)
	assert.Equal(t, "last", got[0].Status)
	assert.Equal(t, "b", got[1].AssetID)
	assert.Equal(t, "service", got[2].AssetCategory)
}
