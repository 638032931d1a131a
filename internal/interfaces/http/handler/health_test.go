package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func healthy(context.Context) error { return nil }

func newHealthRouter(h *HealthHandler) *gin.Engine {
	r := gin.New()
	r.GET("/health", h.Live)
	r.GET("/health/ready", h.Ready)
	return r
}

func TestHealthHandler_Live(t *testing.T) {
	h := NewHealthHandler("splitfin-intelligence", "1.4.0",
		HealthCheck{Name: "database", Pinger: pingFunc(func(context.Context) error { return errors.New("down") })})

	w := httptest.NewRecorder()
	newHealthRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body LivenessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "splitfin-intelligence", body.Name)
	assert.Equal(t, "1.4.0", body.Version)
	assert.Equal(t, runtime.Version(), body.GoVersion)
	assert.NotEmpty(t, body.Uptime)
}

func TestHealthHandler_Ready(t *testing.T) {
	tests := []struct {
		name       string
		checks     []HealthCheck
		wantStatus int
		wantBody   string
		wantChecks map[string]string
	}{
		{
			name:       "no dependencies",
			wantStatus: http.StatusOK,
			wantBody:   "ready",
			wantChecks: map[string]string{},
		},
		{
			name: "all healthy",
			checks: []HealthCheck{
				{Name: "database", Pinger: pingFunc(healthy)},
				{Name: "redis", Pinger: pingFunc(healthy)},
			},
			wantStatus: http.StatusOK,
			wantBody:   "ready",
			wantChecks: map[string]string{"database": "ok", "redis": "ok"},
		},
		{
			name: "one dependency down",
			checks: []HealthCheck{
				{Name: "database", Pinger: pingFunc(healthy)},
				{Name: "storage", Pinger: pingFunc(func(context.Context) error { return errors.New("403 Forbidden") })},
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "unavailable",
			wantChecks: map[string]string{"database": "ok", "storage": "error"},
		},
		{
			name: "nil pinger is skipped",
			checks: []HealthCheck{
				{Name: "database", Pinger: pingFunc(healthy)},
				{Name: "redis", Pinger: nil},
			},
			wantStatus: http.StatusOK,
			wantBody:   "ready",
			wantChecks: map[string]string{"database": "ok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler("svc", "dev", tt.checks...)

			w := httptest.NewRecorder()
			newHealthRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			var body ReadinessResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantBody, body.Status)
			assert.Equal(t, tt.wantChecks, body.Checks)
		})
	}
}

func TestHealthHandler_Ready_TimesOutSlowDependency(t *testing.T) {
	slow := pingFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	h := NewHealthHandler("svc", "dev", HealthCheck{Name: "redis", Pinger: slow}).WithTimeout(20 * time.Millisecond)

	w := httptest.NewRecorder()
	newHealthRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `"error"`, mustField(t, w.Body.Bytes(), "checks", "redis"))
}

func mustField(t *testing.T, raw []byte, path ...string) string {
	t.Helper()
	var node any
	require.NoError(t, json.Unmarshal(raw, &node))
	for _, key := range path {
		m, ok := node.(map[string]any)
		require.True(t, ok)
		node = m[key]
	}
	out, err := json.Marshal(node)
	require.NoError(t, err)
	return string(out)
}
