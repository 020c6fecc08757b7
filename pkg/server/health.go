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

package server

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/NVIDIA/scanwatch/pkg/defaults"
	cnserrors "github.com/NVIDIA/scanwatch/pkg/errors"
	"github.com/NVIDIA/scanwatch/pkg/serializer"
)

// ReadinessCheck reports an error when a dependency cannot serve requests.
type ReadinessCheck func(ctx context.Context) error

type namedCheck struct {
	name  string
	check ReadinessCheck
}

// WithReadinessCheck registers a check run on every /ready request.
func WithReadinessCheck(name string, check ReadinessCheck) Option {
	return func(s *Server) {
		s.checks = append(s.checks, namedCheck{name: name, check: check})
	}
}

// HealthResponse is the body of /health and /ready.
type HealthResponse struct {
	Status    string            `json:"status" yaml:"status"`
	Timestamp time.Time         `json:"timestamp" yaml:"timestamp"`
	Reason    string            `json:"reason,omitempty" yaml:"reason,omitempty"`
	Checks    map[string]string `json:"checks,omitempty" yaml:"checks,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	serializer.RespondJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	s.mu.RLock()
	ready := s.ready
	s.mu.RUnlock()

	if !ready {
		serializer.RespondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:    "not_ready",
			Timestamp: time.Now().UTC(),
			Reason:    "server is not accepting requests",
		})
		return
	}

	results, failed := s.runChecks(r.Context())
	resp := HealthResponse{
		Status:    "ready",
		Timestamp: time.Now().UTC(),
		Checks:    results,
	}
	status := http.StatusOK
	if len(failed) > 0 {
		resp.Status = "not_ready"
		resp.Reason = "failed checks: " + joinSorted(failed)
		status = http.StatusServiceUnavailable
	}
	serializer.RespondJSON(w, status, resp)
}

// runChecks runs all readiness checks concurrently under one deadline.
func (s *Server) runChecks(ctx context.Context) (map[string]string, []string) {
	if len(s.checks) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaults.ServerReadinessTimeout)
	defer cancel()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]string, len(s.checks))
		failed  []string
	)
	for _, c := range s.checks {
		wg.Go(func() {
			err := c.check(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				readinessFailures.WithLabelValues(c.name).Inc()
				slog.Warn("readiness check failed", "check", c.name, "error", err)
				results[c.name] = err.Error()
				failed = append(failed, c.name)
				return
			}
			results[c.name] = "ok"
		})
	}
	wg.Wait()
	return results, failed
}

func joinSorted(names []string) string {
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet {
		return true
	}
	w.Header().Set("Allow", http.MethodGet)
	WriteError(w, r, http.StatusMethodNotAllowed, cnserrors.ErrCodeMethodNotAllowed,
		"Method not allowed", false, map[string]any{"method": r.Method})
	return false
}
