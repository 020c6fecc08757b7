package systemd

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/coreos/go-systemd/v22/dbus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	units    []dbus.UnitStatus
	err      error
	states   []string
	patterns []string
	closed   bool
}

func (f *fakeConn) ListUnitsByPatternsContext(_ context.Context, states, patterns []string) ([]dbus.UnitStatus, error) {
	f.states, f.patterns = states, patterns
	return f.units, f.err
}

func (f *fakeConn) Close() { f.closed = true }

func connectTo(conn *fakeConn) ConnectFunc {
	return func(context.Context) (UnitLister, error) { return conn, nil }
}

func TestCollect(t *testing.T) {
	conn := &fakeConn{units: []dbus.UnitStatus{
		{Name: "sshd.service", Description: "OpenSSH server", ActiveState: "active", SubState: "running"},
		{Name: "containerd.service", Description: "containerd", ActiveState: "active", SubState: "running"},
	}}

	services, err := (&Collector{Connect: connectTo(conn)}).Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"containerd.service", "sshd.service"}, Names(services))
	assert.Equal(t, "OpenSSH server", services[1].Description)
	assert.Equal(t, []string{"running"}, conn.states)
	assert.Equal(t, []string{"*.service"}, conn.patterns)
	assert.True(t, conn.closed)
}

func TestCollectLimitAndPatterns(t *testing.T) {
	units := make([]dbus.UnitStatus, 0, 5)
	for i := 5; i > 0; i-- {
		units = append(units, dbus.UnitStatus{Name: fmt.Sprintf("svc-%d.service", i)})
	}
	conn := &fakeConn{units: units}

	c := &Collector{Connect: connectTo(conn), Limit: 2, Patterns: []string{"svc-*.service"}, States: []string{"running", "exited"}}
	services, err := c.Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"svc-1.service", "svc-2.service"}, Names(services))
	assert.Equal(t, []string{"svc-*.service"}, conn.patterns)
	assert.Equal(t, []string{"running", "exited"}, conn.states)
}

func TestCollectErrors(t *testing.T) {
	boom := errors.New("no bus")

	_, err := (&Collector{Connect: func(context.Context) (UnitLister, error) { return nil, boom }}).Collect(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failed to connect to systemd")

	conn := &fakeConn{err: boom}
	_, err = (&Collector{Connect: connectTo(conn)}).Collect(context.Background())
	require.ErrorIs(t, err, boom)
	assert.True(t, conn.closed)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = (&Collector{Connect: connectTo(&fakeConn{})}).Collect(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
