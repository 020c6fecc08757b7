package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cnserrors "github.com/NVIDIA/scanwatch/pkg/errors"
)

func TestCodeMapping(t *testing.T) {
	tests := []struct {
		code      cnserrors.ErrorCode
		status    int
		retryable bool
	}{
		{cnserrors.ErrCodeInvalidRequest, http.StatusBadRequest, false},
		{cnserrors.ErrCodeNotFound, http.StatusNotFound, false},
		{cnserrors.ErrCodeMethodNotAllowed, http.StatusMethodNotAllowed, false},
		{cnserrors.ErrCodeRateLimitExceeded, http.StatusTooManyRequests, true},
		{cnserrors.ErrCodeUnavailable, http.StatusServiceUnavailable, true},
		{cnserrors.ErrCodeTimeout, http.StatusGatewayTimeout, true},
		{cnserrors.ErrCodeInternal, http.StatusInternalServerError, true},
		{cnserrors.ErrorCode("SOMETHING_ELSE"), http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.status, HTTPStatusFromCode(tt.code))
			assert.Equal(t, tt.retryable, retryableFromCode(tt.code))
		})
	}
}

func TestMergeDetails(t *testing.T) {
	assert.Nil(t, mergeDetails(nil, nil))
	assert.Nil(t, mergeDetails(map[string]any{}, map[string]any{}))

	got := mergeDetails(
		map[string]any{"db_path": "a.db", "type": "scope"},
		map[string]any{"limit": 5, "type": "analysis"},
	)
	assert.Equal(t, map[string]any{"db_path": "a.db", "limit": 5, "type": "analysis"}, got)
}

func decodeErrorResponse(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestWriteError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/cycles", nil)
	req = req.WithContext(context.WithValue(req.Context(), contextKeyRequestID, "req-123"))
	w := httptest.NewRecorder()

	WriteError(w, req, http.StatusBadRequest, cnserrors.ErrCodeInvalidRequest,
		"limit must be an integer", false, map[string]any{"limit": "ten"})

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeErrorResponse(t, w)
	assert.Equal(t, string(cnserrors.ErrCodeInvalidRequest), resp.Code)
	assert.Equal(t, "limit must be an integer", resp.Message)
	assert.Equal(t, "req-123", resp.RequestID)
	assert.False(t, resp.Retryable)
	assert.Equal(t, "ten", resp.Details["limit"])
	assert.False(t, resp.Timestamp.IsZero())
}

func TestWriteErrorFromErr(t *testing.T) {
	storeErr := cnserrors.WrapWithContext(cnserrors.ErrCodeUnavailable, "failed to query cycle summaries",
		errors.New("database is locked"), map[string]any{"db_path": "scan.db"})

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   cnserrors.ErrorCode
		wantMsg    string
		wantDetail map[string]any
	}{
		{
			name:       "structured error keeps code and context",
			err:        storeErr,
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   cnserrors.ErrCodeUnavailable,
			wantMsg:    "failed to query cycle summaries",
			wantDetail: map[string]any{"db_path": "scan.db", "error": "database is locked", "route": "cycles"},
		},
		{
			name:       "wrapped structured error is unwrapped",
			err:        fmt.Errorf("history: %w", cnserrors.New(cnserrors.ErrCodeNotFound, "no snapshot")),
			wantStatus: http.StatusNotFound,
			wantCode:   cnserrors.ErrCodeNotFound,
			wantMsg:    "no snapshot",
			wantDetail: map[string]any{"route": "cycles"},
		},
		{
			name:       "plain error falls back to internal",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   cnserrors.ErrCodeInternal,
			wantMsg:    "fallback",
			wantDetail: map[string]any{"error": "boom", "route": "cycles"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteErrorFromErr(w, httptest.NewRequest(http.MethodGet, "/v1/cycles", nil), tt.err,
				"fallback", map[string]any{"route": "cycles"})

			require.Equal(t, tt.wantStatus, w.Code)
			resp := decodeErrorResponse(t, w)
			assert.Equal(t, string(tt.wantCode), resp.Code)
			assert.Equal(t, tt.wantMsg, resp.Message)
			assert.Equal(t, tt.wantDetail, resp.Details)
		})
	}
}
