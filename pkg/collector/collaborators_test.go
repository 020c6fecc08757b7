package collector

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/scanwatch/pkg/collector/host"
	"github.com/NVIDIA/scanwatch/pkg/collector/k8s"
	"github.com/NVIDIA/scanwatch/pkg/collector/systemd"
	"github.com/NVIDIA/scanwatch/pkg/collector/vuln"
	cnserrors "github.com/NVIDIA/scanwatch/pkg/errors"
	"github.com/NVIDIA/scanwatch/pkg/k8s/client"
	"github.com/NVIDIA/scanwatch/pkg/payload"
)

type fakeHost struct {
	inv   *host.Inventory
	err   error
	calls atomic.Int32
}

func (f *fakeHost) Collect(context.Context) (*host.Inventory, error) {
	f.calls.Add(1)
	return f.inv, f.err
}

type fakeServices struct {
	services []systemd.Service
	err      error
}

func (f *fakeServices) Collect(context.Context) ([]systemd.Service, error) {
	return f.services, f.err
}

type fakeCluster struct {
	cluster *k8s.Cluster
	err     error
}

func (f *fakeCluster) Collect(context.Context) (*k8s.Cluster, error) {
	return f.cluster, f.err
}

type fakeFactory struct {
	host     *fakeHost
	services *fakeServices
	cluster  *fakeCluster
}

func (f *fakeFactory) CreateHostCollector() HostCollector          { return f.host }
func (f *fakeFactory) CreateSystemDCollector() ServiceCollector    { return f.services }
func (f *fakeFactory) CreateKubernetesCollector() ClusterCollector { return f.cluster }

func newFakeFactory() *fakeFactory {
	rt := testRuntime()
	return &fakeFactory{
		host:     &fakeHost{inv: rt.Inventory},
		services: &fakeServices{services: rt.Services},
		cluster:  &fakeCluster{err: client.ErrNoCluster},
	}
}

func newTestCollaborators(t *testing.T, f Factory, opts ...CollaboratorOption) *Collaborators {
	t.Helper()
	opts = append([]CollaboratorOption{WithClock(func() time.Time { return scanTime })}, opts...)
	c, err := NewCollaborators(f, opts...)
	require.NoError(t, err)
	return c
}

func TestCollaborators_CollectScope(t *testing.T) {
	c := newTestCollaborators(t, newFakeFactory())

	doc, err := c.CollectScope(context.Background())
	require.NoError(t, err)

	var scope payload.Scope
	require.NoError(t, doc.Decode(&scope))
	assert.Equal(t, 5, scope.Summary.TotalAssets)
	assert.Equal(t, "2026-03-01T12:00:00+00:00", scope.Summary.ScanTimestamp)
	assert.Equal(t, payload.SourceOK, scope.Sources.Runtime)
	assert.Equal(t, payload.SourceUnavailable, scope.Sources.Kubernetes)
	assert.Equal(t, "host-node-a", doc.List("assets")[0].(map[string]any)["asset_id"])
}

func TestCollaborators_CollectScope_HostFailure(t *testing.T) {
	f := newFakeFactory()
	f.host.err = errors.New("procfs is not available")
	c := newTestCollaborators(t, f)

	doc, err := c.CollectScope(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "error", doc.Map("sources").String("runtime"))
	assert.Equal(t, []any{"runtime discovery failed: procfs is not available"}, doc.List("notes"))
}

type slowCluster struct {
	ctxErr error
}

func (f *slowCluster) Collect(ctx context.Context) (*k8s.Cluster, error) {
	time.Sleep(20 * time.Millisecond)
	f.ctxErr = ctx.Err()
	return &k8s.Cluster{Name: "dev", Status: k8s.StatusOK, NodesTotal: 1, NodesReady: 1}, nil
}

type slowClusterFactory struct {
	*fakeFactory
	cluster *slowCluster
}

func (f *slowClusterFactory) CreateKubernetesCollector() ClusterCollector { return f.cluster }

func TestCollaborators_CollectScope_HostFailureKeepsCluster(t *testing.T) {
	f := &slowClusterFactory{fakeFactory: newFakeFactory(), cluster: &slowCluster{}}
	f.host.err = errors.New("procfs is not available")
	c := newTestCollaborators(t, f)

	doc, err := c.CollectScope(context.Background())
	require.NoError(t, err)

	require.NoError(t, f.cluster.ctxErr)
	assert.Equal(t, "error", doc.Map("sources").String("runtime"))
	assert.Equal(t, "ok", doc.Map("sources").String("kubernetes"))
}

func TestCollaborators_AnalyzeSystem(t *testing.T) {
	f := newFakeFactory()
	f.services.err = errors.New("dbus unavailable")
	c := newTestCollaborators(t, f)

	doc, err := c.AnalyzeSystem(context.Background(), "scheduled system analysis")
	require.NoError(t, err)

	var a payload.Analysis
	require.NoError(t, doc.Decode(&a))
	assert.Equal(t, "scheduled system analysis", a.Query)
	assert.Equal(t, "node-a", a.DiscoveredAssets.Hostname)
	assert.Equal(t, 2, a.DiscoveredAssets.OpenPorts.Count)

	ids := make([]string, 0, len(a.Analysis.Findings))
	for _, finding := range a.Analysis.Findings {
		ids = append(ids, finding.ID)
	}
	assert.Equal(t, []string{"port-22"}, ids)
	assert.Contains(t, a.Analysis.Notes, "systemd discovery failed: dbus unavailable")
}

func TestCollaborators_AnalyzeSystem_HostFailure(t *testing.T) {
	f := newFakeFactory()
	f.host.err = cnserrors.New(cnserrors.ErrCodeUnavailable, "procfs is not available")
	c := newTestCollaborators(t, f)

	_, err := c.AnalyzeSystem(context.Background(), "q")
	require.Error(t, err)
	assert.True(t, cnserrors.IsCode(err, cnserrors.ErrCodeUnavailable))
}

func TestCollaborators_SweepReusesScope(t *testing.T) {
	f := newFakeFactory()
	c := newTestCollaborators(t, f)

	_, err := c.CollectScope(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, f.host.calls.Load())

	doc, err := c.RunVulnerabilitySweep(context.Background(), 3)
	require.NoError(t, err)
	assert.EqualValues(t, 1, f.host.calls.Load())

	var v payload.Vulnerability
	require.NoError(t, doc.Decode(&v))
	assert.Equal(t, 3, v.TotalTargetsScanned)
	assert.Equal(t, 5, v.ScopeSummary.TotalAssets)
	assert.Equal(t, "node-a", v.TargetsScanned[0])

	// The cached scope is consumed; the next sweep discovers again.
	_, err = c.RunVulnerabilitySweep(context.Background(), 3)
	require.NoError(t, err)
	assert.EqualValues(t, 2, f.host.calls.Load())
}

func TestCollaborators_Cancelled(t *testing.T) {
	c := newTestCollaborators(t, newFakeFactory())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.CollectScope(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = c.RunVulnerabilitySweep(ctx, 3)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewCollaborators_InvalidRules(t *testing.T) {
	_, err := NewCollaborators(newFakeFactory(), WithRules([]vuln.Rule{{ID: "bad", Expression: "1 +"}}))
	require.Error(t, err)
	assert.True(t, cnserrors.IsCode(err, cnserrors.ErrCodeInvalidRequest))
}

func TestCollaborators_MaxAssets(t *testing.T) {
	c := newTestCollaborators(t, newFakeFactory(), WithMaxAssets(3))

	doc, err := c.CollectScope(context.Background())
	require.NoError(t, err)
	assert.Len(t, doc.List("assets"), 3)
}
