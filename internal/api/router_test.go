package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/laritechfarms/farms-api/internal/core/domain"
	"github.com/laritechfarms/farms-api/internal/core/ports"
)

// stubAuth accepts the role name as the bearer token.
type stubAuth struct {
	ports.AuthService
}

const suspendedTenantToken = "tenant-off"

func (stubAuth) Authenticate(_ context.Context, token string) (domain.Identity, error) {
	if token == suspendedTenantToken {
		return domain.Identity{}, domain.ErrTenantInactive
	}
	if !domain.ValidRole(token) {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	return domain.Identity{UserID: 1, TenantID: 7, Role: token}, nil
}

type stubAudit struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (s *stubAudit) Record(_ context.Context, e domain.AuditEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *stubAudit) List(context.Context, domain.Identity, domain.AuditFilter, domain.Page) (*domain.PageResult[domain.AuditEvent], error) {
	return domain.NewPageResult([]domain.AuditEvent(nil), 0, domain.NewPage(1, 10)), nil
}

type stubBatches struct {
	ports.BatchService
	deleted []int64
}

func (s *stubBatches) List(_ context.Context, caller domain.Identity, _ domain.BatchFilter, page domain.Page) (*domain.PageResult[domain.Batch], error) {
	return domain.NewPageResult([]domain.Batch{{ID: 1, TenantID: caller.TenantID}}, 1, page), nil
}

func (s *stubBatches) Get(_ context.Context, caller domain.Identity, id int64) (*domain.Batch, error) {
	if id != 1 {
		return nil, domain.NotFound("lote")
	}
	return &domain.Batch{ID: id, TenantID: caller.TenantID}, nil
}

func (s *stubBatches) Delete(_ context.Context, _ domain.Identity, id int64) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func newTestRouter(t *testing.T) (http.Handler, *stubBatches, *stubAudit) {
	t.Helper()
	return newTestRouterWithRegistry(t, prometheus.NewRegistry())
}

func newTestRouterWithRegistry(t *testing.T, reg *prometheus.Registry) (http.Handler, *stubBatches, *stubAudit) {
	t.Helper()
	batches := &stubBatches{}
	audit := &stubAudit{}
	e := NewRouter(Services{
		Auth:    stubAuth{},
		Batches: batches,
		Audit:   audit,
	}, Options{
		Service:        "farms-api",
		Version:        "test",
		AllowedOrigins: []string{"*"},
		BodyLimit:      "1M",
		Registry:       reg,
	}, zerolog.Nop())
	return e, batches, audit
}

func do(h http.Handler, method, target, token string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestRouter_HealthIsPublic(t *testing.T) {
	h, _, _ := newTestRouter(t)
	rec, body := do(h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK || body["status"] != "OK" {
		t.Fatalf("unexpected response %d %v", rec.Code, body)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected a request id header")
	}
}

func TestRouter_ResourcesRequireToken(t *testing.T) {
	h, _, _ := newTestRouter(t)
	rec, body := do(h, http.MethodGet, "/api/v1/lotes", "")
	if rec.Code != http.StatusUnauthorized || body["error"] != domain.ErrMissingToken.Error() {
		t.Fatalf("unexpected response %d %v", rec.Code, body)
	}

	rec, _ = do(h, http.MethodGet, "/api/v1/lotes", "not-a-role")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for an invalid token, got %d", rec.Code)
	}
}

func TestRouter_InactiveTenantIsForbidden(t *testing.T) {
	h, _, _ := newTestRouter(t)
	rec, body := do(h, http.MethodGet, "/api/v1/lotes", suspendedTenantToken)
	if rec.Code != http.StatusForbidden || body["statusCode"] != float64(http.StatusForbidden) {
		t.Fatalf("unexpected response %d %v", rec.Code, body)
	}
	if body["error"] != domain.ErrTenantInactive.Error() {
		t.Fatalf("unexpected error message %v", body["error"])
	}
}

func TestRouter_MetricsCountHandledStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	h, _, _ := newTestRouterWithRegistry(t, reg)

	if rec, _ := do(h, http.MethodGet, "/api/v1/lotes/9", domain.RoleOperator); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	codes := map[string]float64{}
	for _, mf := range families {
		if mf.GetName() != "farms_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			var code, url string
			for _, l := range m.GetLabel() {
				switch l.GetName() {
				case "code":
					code = l.GetValue()
				case "url":
					url = l.GetValue()
				}
			}
			if url == "/api/v1/lotes/:id" {
				codes[code] += m.GetCounter().GetValue()
			}
		}
	}
	if codes["404"] != 1 || codes["500"] != 0 {
		t.Fatalf("expected one 404 for /api/v1/lotes/:id, got %v", codes)
	}
}

func TestRouter_ListIsPaginated(t *testing.T) {
	h, _, _ := newTestRouter(t)
	rec, body := do(h, http.MethodGet, "/api/v1/lotes?page=1&limit=5", domain.RoleOperator)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data := body["data"].(map[string]any)
	pagination := data["pagination"].(map[string]any)
	if pagination["limit"] != float64(5) || pagination["total"] != float64(1) {
		t.Fatalf("unexpected pagination: %v", pagination)
	}
}

func TestRouter_DeleteIsRoleGated(t *testing.T) {
	h, batches, audit := newTestRouter(t)

	rec, _ := do(h, http.MethodDelete, "/api/v1/lotes/3", domain.RoleOperator)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for operador, got %d", rec.Code)
	}
	if len(batches.deleted) != 0 || len(audit.events) != 0 {
		t.Fatal("forbidden request must not reach the service or the audit trail")
	}

	rec, _ = do(h, http.MethodDelete, "/api/v1/lotes/3", domain.RoleManager)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for gerente, got %d", rec.Code)
	}
	if len(batches.deleted) != 1 || batches.deleted[0] != 3 {
		t.Fatalf("expected batch 3 deleted, got %v", batches.deleted)
	}
	if len(audit.events) != 1 {
		t.Fatalf("expected one audit event, got %d", len(audit.events))
	}
	ev := audit.events[0]
	if ev.Entity != "lotes" || ev.EntityID != "3" || ev.TenantID != 7 || ev.RequestID == "" {
		t.Fatalf("unexpected audit event: %+v", ev)
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	h, _, _ := newTestRouter(t)
	rec, body := do(h, http.MethodGet, "/nope", "")
	if rec.Code != http.StatusNotFound || body["error"] != "route not found" {
		t.Fatalf("unexpected response %d %v", rec.Code, body)
	}
}

func TestRouter_AuditTrailIsAdminOnly(t *testing.T) {
	h, _, _ := newTestRouter(t)
	if rec, _ := do(h, http.MethodGet, "/api/v1/auditoria", domain.RoleManager); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if rec, _ := do(h, http.MethodGet, "/api/v1/auditoria", domain.RoleAdmin); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
