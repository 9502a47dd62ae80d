package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

func serve(t *testing.T, fn echo.HandlerFunc) (*httptest.ResponseRecorder, readinessResponse) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)
	if err := fn(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var body readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	return rec, body
}

func TestLiveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	if err := NewHealthHandler("farms-api", "1.0.0").Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body livenessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body.Status != "OK" || body.Version != "1.0.0" || body.Message != "farms-api is running" {
		t.Fatalf("unexpected liveness body: %+v", body)
	}
}

func TestReadiness_AllHealthy(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	h := NewHealthDependenciesHandler(
		Check{Name: "postgres", Ping: func(context.Context) error { return nil }},
		Check{Name: "redis", Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
	)
	rec, body := serve(t, h.Readiness)

	if rec.Code != http.StatusOK || body.Status != "ok" {
		t.Fatalf("expected ok, got %d %+v", rec.Code, body)
	}
	if body.Dependencies["redis"].Status != "ok" {
		t.Fatalf("expected redis ok, got %+v", body.Dependencies)
	}
}

func TestReadiness_Degraded(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	h := NewHealthDependenciesHandler(
		Check{Name: "mongodb", Ping: func(context.Context) error { return errors.New("no reachable servers") }},
		Check{Name: "redis", Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
	)
	rec, body := serve(t, h.Readiness)

	if rec.Code != http.StatusServiceUnavailable || body.Status != "degraded" {
		t.Fatalf("expected degraded, got %d %+v", rec.Code, body)
	}
	if got := body.Dependencies["mongodb"]; got.Status != "unhealthy" || got.Error != "no reachable servers" {
		t.Fatalf("unexpected mongodb status: %+v", got)
	}
	if body.Dependencies["redis"].Status != "unhealthy" {
		t.Fatalf("expected redis unhealthy, got %+v", body.Dependencies)
	}
}

func TestReadiness_ChecksShareDeadline(t *testing.T) {
	h := NewHealthDependenciesHandler(
		Check{Name: "postgres", Ping: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}},
		Check{Name: "redis", Ping: func(context.Context) error { return nil }},
	)
	h.timeout = 20 * time.Millisecond

	rec, body := serve(t, h.Readiness)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if got := body.Dependencies["postgres"]; got.Status != "unhealthy" || got.Error != context.DeadlineExceeded.Error() {
		t.Fatalf("unexpected postgres status: %+v", got)
	}
	if body.Dependencies["redis"].Status != "ok" {
		t.Fatalf("expected redis ok, got %+v", body.Dependencies)
	}
}
