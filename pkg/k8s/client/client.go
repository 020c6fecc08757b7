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

package client

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"

	"github.com/NVIDIA/scanwatch/pkg/defaults"
)

// Interface is the clientset surface used by scanwatch.
type Interface = kubernetes.Interface

// ErrNoCluster is returned when neither a kubeconfig nor in-cluster
// credentials are available.
var ErrNoCluster = errors.New("no kubernetes cluster configured")

const userAgent = "scanwatch"

type cacheEntry struct {
	client Interface
	config *rest.Config
	err    error
}

var (
	cacheMu sync.Mutex
	cache   = map[string]*cacheEntry{}
)

// GetKubeClient returns a client for kubeconfig, building it on first use.
// Clients and build errors are cached per resolved kubeconfig path.
func GetKubeClient(kubeconfig string) (Interface, *rest.Config, error) {
	key := ResolveKubeconfig(kubeconfig)

	cacheMu.Lock()
	defer cacheMu.Unlock()

	if entry, ok := cache[key]; ok {
		return entry.client, entry.config, entry.err
	}

	entry := &cacheEntry{}
	clientset, config, err := BuildKubeClient(key)
	if err == nil {
		entry.client, entry.config = clientset, config
	}
	entry.err = err
	cache[key] = entry
	return entry.client, entry.config, entry.err
}

// ResolveKubeconfig returns the kubeconfig path to use: the explicit path,
// then KUBECONFIG, then ~/.kube/config if it exists. An empty result means
// in-cluster configuration.
func ResolveKubeconfig(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv("KUBECONFIG"); env != "" {
		return env
	}
	home := filepath.Join(homedir.HomeDir(), ".kube", "config")
	if _, err := os.Stat(home); err == nil {
		return home
	}
	return ""
}

// BuildKubeClient creates a new, uncached client. An empty kubeconfig
// uses in-cluster credentials and returns ErrNoCluster outside a cluster.
func BuildKubeClient(kubeconfig string) (*kubernetes.Clientset, *rest.Config, error) {
	var config *rest.Config
	var err error

	if kubeconfig == "" {
		config, err = rest.InClusterConfig()
		if errors.Is(err, rest.ErrNotInCluster) {
			return nil, nil, ErrNoCluster
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get in-cluster config: %w", err)
		}
	} else {
		config, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to build kube config from %s: %w", kubeconfig, err)
		}
	}

	config.UserAgent = userAgent
	config.Timeout = defaults.CollectorK8sTimeout

	client, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}
	return client, config, nil
}

// resetCache clears cached clients.
func resetCache() {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	cache = map[string]*cacheEntry{}
}

// ContextName returns the current context of the resolved kubeconfig, or
// "" when there is none.
func ContextName(kubeconfig string) string {
	path := ResolveKubeconfig(kubeconfig)
	if path == "" {
		return ""
	}
	raw, err := clientcmd.LoadFromFile(path)
	if err != nil {
		return ""
	}
	return raw.CurrentContext
}
