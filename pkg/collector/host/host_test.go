package host

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cnserrors "github.com/NVIDIA/scanwatch/pkg/errors"
	"github.com/NVIDIA/scanwatch/pkg/payload"
)

const tcpHeader = "  sl  local_address rem_address   st tx_queue rx_queue tr tm->when retrnsmt   uid  timeout inode\n"

const tcpTable = tcpHeader +
	"   0: 00000000:0016 00000000:0000 0A 00000000:00000000 00:00000000 00000000     0        0 1111 1 0000000000000000 100 0 0 10 0\n" +
	"   1: 0100007F:18EB 00000000:0000 0A 00000000:00000000 00:00000000 00000000   999        0 2222 1 0000000000000000 100 0 0 10 0\n" +
	"   2: 0500000A:0016 0900000A:C738 01 00000000:00000000 02:00000AB1 00000000     0        0 4444 4 0000000000000000 20 4 30 10 -1\n"

const udpTable = "   sl  local_address rem_address   st tx_queue rx_queue tr tm->when retrnsmt   uid  timeout inode ref pointer drops\n" +
	"  10: 00000000:0044 00000000:0000 07 00000000:00000000 00:00000000 00000000     0        0 3333 2 0000000000000000 0\n"

type fakeProc struct {
	pid     string
	comm    string
	cmdline string
	sockets map[string]string
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// newProcRoot builds a minimal procfs tree.
func newProcRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "loadavg"), "0.50 0.40 0.30 1/123 4567\n")
	writeFile(t, filepath.Join(root, "meminfo"), "MemTotal:       1000 kB\nMemFree:         100 kB\nMemAvailable:    250 kB\n")
	writeFile(t, filepath.Join(root, "net", "tcp"), tcpTable)
	writeFile(t, filepath.Join(root, "net", "udp"), udpTable)

	procs := []fakeProc{
		{pid: "300", comm: "redis-server", cmdline: "redis-server\x00127.0.0.1:6379\x00", sockets: map[string]string{"4": "socket:[2222]"}},
		{pid: "100", comm: "sshd", cmdline: "/usr/sbin/sshd\x00-D\x00", sockets: map[string]string{"3": "socket:[1111]", "5": "/dev/null"}},
		{pid: "200", comm: "nmap", cmdline: "nmap\x00-sS\x0010.0.0.0/8\x00"},
		{pid: "2", comm: "kthreadd", cmdline: ""},
	}
	for _, p := range procs {
		dir := filepath.Join(root, p.pid)
		writeFile(t, filepath.Join(dir, "comm"), p.comm+"\n")
		writeFile(t, filepath.Join(dir, "cmdline"), p.cmdline)
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "fd"), 0o755))
		for fd, target := range p.sockets {
			require.NoError(t, os.Symlink(target, filepath.Join(dir, "fd", fd)))
		}
	}
	return root
}

func newTestCollector(t *testing.T) *Collector {
	return &Collector{
		ProcRoot: newProcRoot(t),
		RootFS: fstest.MapFS{
			"etc/os-release": {Data: []byte("NAME=\"Ubuntu\"\nVERSION_ID=\"24.04\"\nPRETTY_NAME=\"Ubuntu 24.04 LTS\"\n")},
		},
		Hostname:  func() (string, error) { return "node-a", nil },
		DiskUsage: func(string) (float64, error) { return 42.04, nil },
		NumCPU:    func() int { return 2 },
	}
}

func TestCollect(t *testing.T) {
	inv, err := newTestCollector(t).Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "node-a", inv.Hostname)
	assert.Equal(t, "Ubuntu 24.04 LTS", inv.OperatingSystem)
	assert.Empty(t, inv.Notes)

	assert.Equal(t, []payload.Listener{
		{Protocol: "tcp", LocalAddress: "0.0.0.0:22", Port: 22, Process: "sshd", PID: 100},
		{Protocol: "udp", LocalAddress: "0.0.0.0:68", Port: 68, Process: "unknown"},
		{Protocol: "tcp", LocalAddress: "127.0.0.1:6379", Port: 6379, Process: "redis-server", PID: 300},
	}, inv.Listeners)

	assert.Equal(t, 4, inv.ProcessCount)
	assert.Equal(t, []payload.Process{
		{PID: 2, Command: "kthreadd", Args: "kthreadd"},
		{PID: 100, Command: "sshd", Args: "/usr/sbin/sshd -D"},
		{PID: 200, Command: "nmap", Args: "nmap -sS 10.0.0.0/8"},
		{PID: 300, Command: "redis-server", Args: "redis-server 127.0.0.1:6379"},
	}, inv.Processes)

	assert.Equal(t, []payload.MetricSample{
		{Name: MetricCPUUsage, Latest: 25, Unit: "percent"},
		{Name: MetricMemoryUsage, Latest: 75, Unit: "percent"},
		{Name: MetricDiskUsage, Latest: 42, Unit: "percent"},
	}, inv.Metrics)
}

func TestCollectSampleLimitKeepsSocketOwners(t *testing.T) {
	c := newTestCollector(t)
	c.MaxProcesses = 2

	inv, err := c.Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, inv.ProcessCount)
	require.Len(t, inv.Processes, 2)
	assert.Equal(t, 100, inv.Processes[1].PID)
	assert.Equal(t, "redis-server", inv.Listeners[2].Process, "owners beyond the sample are still resolved")
}

func TestCollectMaxListeners(t *testing.T) {
	c := newTestCollector(t)
	c.MaxListeners = 1

	inv, err := c.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, inv.Listeners, 1)
	assert.Equal(t, 22, inv.Listeners[0].Port)
}

func TestCollectPartialFailures(t *testing.T) {
	c := newTestCollector(t)
	require.NoError(t, os.Remove(filepath.Join(c.ProcRoot, "loadavg")))
	c.RootFS = fstest.MapFS{}
	c.Hostname = func() (string, error) { return "", errors.New("no uts") }
	c.DiskUsage = func(string) (float64, error) { return 0, errors.New("statfs denied") }

	inv, err := c.Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "localhost", inv.Hostname)
	assert.NotEmpty(t, inv.OperatingSystem)
	assert.Len(t, inv.Notes, 4)
	require.Len(t, inv.Metrics, 1)
	assert.Equal(t, MetricMemoryUsage, inv.Metrics[0].Name)
	assert.Len(t, inv.Listeners, 3)
}

func TestCollectMissingProcfs(t *testing.T) {
	c := &Collector{ProcRoot: filepath.Join(t.TempDir(), "missing")}
	_, err := c.Collect(context.Background())
	require.Error(t, err)
	assert.True(t, cnserrors.IsCode(err, cnserrors.ErrCodeUnavailable))
}

func TestCollectCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestCollector(t).Collect(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestOperatingSystemFallbacks(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
		want string
	}{
		{"usr lib fallback", fstest.MapFS{"usr/lib/os-release": {Data: []byte("PRETTY_NAME='Fedora Linux 40'\n")}}, "Fedora Linux 40"},
		{"name and version", fstest.MapFS{"etc/os-release": {Data: []byte("NAME=Debian\nVERSION_ID=12\n")}}, "Debian 12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := (&Collector{RootFS: tt.fsys}).operatingSystem()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSocketInode(t *testing.T) {
	tests := map[string]struct {
		inode uint64
		ok    bool
	}{
		"socket:[12345]": {12345, true},
		"socket:[]":      {0, false},
		"pipe:[12345]":   {0, false},
		"socket:[12a]":   {0, false},
		"/dev/null":      {0, false},
	}
	for target, want := range tests {
		inode, ok := socketInode(target)
		assert.Equal(t, want.ok, ok, target)
		assert.Equal(t, want.inode, inode, target)
	}
}

func TestMaxProcessesClamp(t *testing.T) {
	assert.Equal(t, 200, (&Collector{}).maxProcesses())
	assert.Equal(t, 2000, (&Collector{MaxProcesses: 5000}).maxProcesses())
	assert.Equal(t, 10, (&Collector{MaxProcesses: 10}).maxProcesses())
}
