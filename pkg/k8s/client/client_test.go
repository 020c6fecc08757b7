package client

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestResolveKubeconfig(t *testing.T) {
	t.Setenv("KUBECONFIG", "/env/kubeconfig")
	if got := ResolveKubeconfig("/explicit"); got != "/explicit" {
		t.Errorf("explicit path ignored: %q", got)
	}
	if got := ResolveKubeconfig(""); got != "/env/kubeconfig" {
		t.Errorf("KUBECONFIG ignored: %q", got)
	}

	home := t.TempDir()
	t.Setenv("KUBECONFIG", "")
	t.Setenv("HOME", home)
	if got := ResolveKubeconfig(""); got != "" {
		t.Errorf("expected in-cluster fallback, got %q", got)
	}

	if err := os.MkdirAll(filepath.Join(home, ".kube"), 0o755); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(home, ".kube", "config")
	if err := os.WriteFile(cfgPath, []byte("apiVersion: v1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := ResolveKubeconfig(""); got != cfgPath {
		t.Errorf("expected %q, got %q", cfgPath, got)
	}
}

func TestBuildKubeClient_InvalidPaths(t *testing.T) {
	invalid := filepath.Join(t.TempDir(), "invalid-kubeconfig")
	if err := os.WriteFile(invalid, []byte("invalid yaml content"), 0o600); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{"/nonexistent/path/to/kubeconfig", invalid} {
		_, _, err := BuildKubeClient(path)
		if err == nil {
			t.Fatalf("BuildKubeClient(%q) should fail", path)
		}
		if !strings.Contains(err.Error(), "failed to build kube config") {
			t.Errorf("unexpected error: %v", err)
		}
	}
}

func TestBuildKubeClient_NotInCluster(t *testing.T) {
	t.Setenv("KUBERNETES_SERVICE_HOST", "")
	t.Setenv("KUBERNETES_SERVICE_PORT", "")

	_, _, err := BuildKubeClient("")
	if !errors.Is(err, ErrNoCluster) {
		t.Errorf("expected ErrNoCluster, got %v", err)
	}
}

func TestGetKubeClient_Cached(t *testing.T) {
	resetCache()
	t.Cleanup(resetCache)

	path := "/nonexistent/cached/kubeconfig"
	const goroutines = 10

	errs := make([]error, goroutines)
	var wg sync.WaitGroup
	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, errs[i] = GetKubeClient(path)
		}()
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		//nolint:errorlint // the cached error instance is shared
		if errs[i] != errs[0] {
			t.Fatalf("call %d returned a different error instance", i)
		}
	}
	if errs[0] == nil {
		t.Fatal("expected error for missing kubeconfig")
	}
}

func TestContextName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	kubeconfig := `apiVersion: v1
kind: Config
current-context: prod-west
contexts:
- name: prod-west
  context:
    cluster: prod
    user: admin
clusters:
- name: prod
  cluster:
    server: https://127.0.0.1:6443
users:
- name: admin
  user:
    token: abc
`
	if err := os.WriteFile(path, []byte(kubeconfig), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := ContextName(path); got != "prod-west" {
		t.Errorf("ContextName() = %q", got)
	}
	if got := ContextName(filepath.Join(t.TempDir(), "missing")); got != "" {
		t.Errorf("ContextName() for missing file = %q", got)
	}
}
