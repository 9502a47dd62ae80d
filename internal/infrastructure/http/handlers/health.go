package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
)

const readinessTimeout = 3 * time.Second

// HealthHandler serves GET /health. It never touches a dependency.
type HealthHandler struct {
	service string
	version string
	started time.Time
}

func NewHealthHandler(service, version string) *HealthHandler {
	return &HealthHandler{service: service, version: version, started: time.Now()}
}

type livenessResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, livenessResponse{
		Status:    "OK",
		Message:   h.service + " is running",
		Version:   h.version,
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Timestamp: time.Now().UTC(),
	})
}

// Check is a named dependency check.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthDependenciesHandler serves GET /health/ready. All checks run in
// parallel under one deadline and every one must pass.
type HealthDependenciesHandler struct {
	checks  []Check
	timeout time.Duration
}

func NewHealthDependenciesHandler(checks ...Check) *HealthDependenciesHandler {
	return &HealthDependenciesHandler{checks: checks, timeout: readinessTimeout}
}

type dependencyStatus struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	results := make([]dependencyStatus, len(h.checks))
	var g errgroup.Group
	for i, check := range h.checks {
		g.Go(func() error {
			start := time.Now()
			err := check.Ping(ctx)
			results[i] = dependencyStatus{Status: "ok", LatencyMS: time.Since(start).Milliseconds()}
			if err != nil {
				results[i].Status = "unhealthy"
				results[i].Error = err.Error()
			}
			return nil
		})
	}
	_ = g.Wait()

	resp := readinessResponse{Status: "ok", Dependencies: make(map[string]dependencyStatus, len(h.checks))}
	code := http.StatusOK
	for i, check := range h.checks {
		resp.Dependencies[check.Name] = results[i]
		if results[i].Status != "ok" {
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}
	return c.JSON(code, resp)
}
