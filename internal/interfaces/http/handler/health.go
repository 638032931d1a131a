package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/splitfin/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Pinger is a dependency the readiness probe can reach
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck names a dependency for the readiness probe
type HealthCheck struct {
	Name   string
	Pinger Pinger
}

const defaultCheckTimeout = 2 * time.Second

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	BaseHandler
	name      string
	version   string
	startTime time.Time
	timeout   time.Duration
	checks    []HealthCheck
}

// NewHealthHandler creates a new HealthHandler. Checks with a nil Pinger are ignored.
func NewHealthHandler(name, version string, checks ...HealthCheck) *HealthHandler {
	h := &HealthHandler{
		name:      name,
		version:   version,
		startTime: time.Now(),
		timeout:   defaultCheckTimeout,
	}
	for _, check := range checks {
		if check.Pinger != nil {
			h.checks = append(h.checks, check)
		}
	}
	return h
}

// WithTimeout bounds each dependency check
func (h *HealthHandler) WithTimeout(d time.Duration) *HealthHandler {
	if d > 0 {
		h.timeout = d
	}
	return h
}

// LivenessResponse is the /health body
// @name LivenessResponse
type LivenessResponse struct {
	Status    string `json:"status" example:"healthy"`
	Name      string `json:"name" example:"splitfin-intelligence"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
	Time      string `json:"time" example:"2026-01-23T12:00:00Z"`
}

// ReadinessResponse is the /health/ready body
// @name ReadinessResponse
type ReadinessResponse struct {
	Status string            `json:"status" example:"ready"`
	Checks map[string]string `json:"checks"`
	Time   string            `json:"time" example:"2026-01-23T12:00:00Z"`
}

// Live godoc
// @ID           getHealth
// @Summary      Liveness probe
// @Description  Always 200 while the process is serving
// @Tags         system
// @Produce      json
// @Success      200  {object}  LivenessResponse
// @Router       /health [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, LivenessResponse{
		Status:    "healthy",
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Time:      time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready godoc
// @ID           getHealthReady
// @Summary      Readiness probe
// @Description  Pings the database and the optional cache and object store
// @Tags         system
// @Produce      json
// @Success      200  {object}  ReadinessResponse
// @Failure      503  {object}  ReadinessResponse
// @Router       /health/ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	results := make([]string, len(h.checks))

	g, ctx := errgroup.WithContext(c.Request.Context())
	for i, check := range h.checks {
		g.Go(func() error {
			checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
			defer cancel()
			if err := check.Pinger.Ping(checkCtx); err != nil {
				logger.GetGinLogger(c).Warn("Readiness check failed",
					zap.String("dependency", check.Name), zap.Error(err))
				results[i] = "error"
				return nil
			}
			results[i] = "ok"
			return nil
		})
	}
	_ = g.Wait()

	resp := ReadinessResponse{
		Status: "ready",
		Checks: make(map[string]string, len(h.checks)),
		Time:   time.Now().UTC().Format(time.RFC3339),
	}
	status := http.StatusOK
	for i, check := range h.checks {
		resp.Checks[check.Name] = results[i]
		if results[i] != "ok" {
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}
	c.JSON(status, resp)
}
