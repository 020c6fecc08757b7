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

package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/NVIDIA/scanwatch/pkg/defaults"
	cnserrors "github.com/NVIDIA/scanwatch/pkg/errors"
	"github.com/NVIDIA/scanwatch/pkg/payload"
	"github.com/NVIDIA/scanwatch/pkg/serializer"
	"github.com/NVIDIA/scanwatch/pkg/server"
	"github.com/NVIDIA/scanwatch/pkg/snapshot"
)

const (
	// DefaultCycleLimit is the number of summaries returned when no limit
	// is given.
	DefaultCycleLimit = defaults.RecentCycleSummariesDefault

	// MaxCycleLimit caps the limit query parameter.
	MaxCycleLimit = defaults.RecentCycleSummariesMax
)

// Handler serves read-only views of the snapshot store.
type Handler struct {
	store Reader
	now   func() time.Time
}

// NewHandler returns a Handler reading from store.
func NewHandler(store Reader) *Handler {
	return &Handler{store: store, now: time.Now}
}

// Routes returns the handler's endpoints keyed by mux pattern.
func (h *Handler) Routes() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"/v1/cycles":                  h.Cycles,
		"/v1/snapshots/{type}/latest": h.LatestSnapshot,
		"/v1/status":                  h.Status,
	}
}

// CyclesResponse lists recent cycle summaries, newest first.
type CyclesResponse struct {
	Limit  int                  `json:"limit"`
	Count  int                  `json:"count"`
	Cycles []*snapshot.Snapshot `json:"cycles"`
}

// Cycles handles GET /v1/cycles?limit=N.
func (h *Handler) Cycles(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	limit := DefaultCycleLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < defaults.RecentCycleSummariesMin || n > MaxCycleLimit {
			server.WriteError(w, r, http.StatusBadRequest, cnserrors.ErrCodeInvalidRequest,
				"limit must be an integer between 1 and 200", false, map[string]any{"limit": raw})
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.HistoryHandlerTimeout)
	defer cancel()

	cycles, err := h.store.RecentCycleSummaries(ctx, limit)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to read cycle summaries", nil)
		return
	}
	if cycles == nil {
		cycles = []*snapshot.Snapshot{}
	}

	serializer.RespondJSON(w, http.StatusOK, CyclesResponse{
		Limit:  limit,
		Count:  len(cycles),
		Cycles: cycles,
	})
}

// LatestSnapshot handles GET /v1/snapshots/{type}/latest.
func (h *Handler) LatestSnapshot(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	kind := payload.Kind(r.PathValue("type"))
	if !kind.IsKnown() {
		server.WriteError(w, r, http.StatusBadRequest, cnserrors.ErrCodeInvalidRequest,
			"Unknown snapshot type", false, map[string]any{"type": string(kind), "supported": payload.Kinds()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.HistoryHandlerTimeout)
	defer cancel()

	snap, err := h.store.Latest(ctx, kind)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to read snapshot", map[string]any{"type": string(kind)})
		return
	}
	if snap == nil {
		server.WriteErrorFromErr(w, r,
			cnserrors.NewWithContext(cnserrors.ErrCodeNotFound, "No snapshot of this type has been captured",
				map[string]any{"type": string(kind)}),
			"", nil)
		return
	}

	serializer.RespondJSON(w, http.StatusOK, snap)
}

// Status handles GET /v1/status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.HistoryHandlerTimeout)
	defer cancel()

	st, err := BuildStatus(ctx, h.store, h.now())
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to build status", nil)
		return
	}

	slog.Debug("status served", "total", st.Total)
	serializer.RespondJSON(w, http.StatusOK, st)
}

func requireGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet {
		return true
	}
	w.Header().Set("Allow", http.MethodGet)
	server.WriteError(w, r, http.StatusMethodNotAllowed, cnserrors.ErrCodeMethodNotAllowed,
		"Method not allowed", false, map[string]any{"method": r.Method})
	return false
}
