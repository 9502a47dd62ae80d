package middleware

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/laritechfarms/farms-api/internal/core/domain"
)

type recorderStub struct {
	events []domain.AuditEvent
}

func (r *recorderStub) Record(_ context.Context, e domain.AuditEvent) {
	r.events = append(r.events, e)
}

func auditContext(method string) echo.Context {
	c, _ := newContext(method, "/api/v1/lotes/4")
	c.SetPath("/api/v1/lotes/:id")
	c.SetParamNames("id")
	c.SetParamValues("4")
	c.Set(identityKey, domain.Identity{UserID: 9, TenantID: 3, Role: domain.RoleAdmin})
	c.Response().Header().Set(echo.HeaderXRequestID, "req-1")
	return c
}

func TestAudit_RecordsSuccessfulMutation(t *testing.T) {
	rec := &recorderStub{}
	c := auditContext(http.MethodPut)

	handler := Audit(rec, "/api/v1")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if len(rec.events) != 1 {
		t.Fatalf("expected one event, got %d", len(rec.events))
	}
	ev := rec.events[0]
	if ev.TenantID != 3 || ev.UserID != 9 {
		t.Errorf("unexpected actor %+v", ev)
	}
	if ev.Entity != "lotes" || ev.EntityID != "4" || ev.Route != "/api/v1/lotes/:id" {
		t.Errorf("unexpected target %+v", ev)
	}
	if ev.Status != http.StatusOK || ev.RequestID != "req-1" || ev.Method != http.MethodPut {
		t.Errorf("unexpected request data %+v", ev)
	}
}

func TestAudit_PrefersHandlerEntityID(t *testing.T) {
	rec := &recorderStub{}
	c, _ := newContext(http.MethodPost, "/api/v1/ventas")
	c.SetPath("/api/v1/ventas")
	c.Set(identityKey, domain.Identity{UserID: 1, TenantID: 1})

	handler := Audit(rec, "/api/v1")(func(c echo.Context) error {
		SetAuditEntityID(c, "77")
		return c.NoContent(http.StatusCreated)
	})
	_ = handler(c)

	if len(rec.events) != 1 || rec.events[0].EntityID != "77" || rec.events[0].Entity != "ventas" {
		t.Fatalf("unexpected events %+v", rec.events)
	}
}

func TestAudit_SkipsReadsAndFailures(t *testing.T) {
	rec := &recorderStub{}

	get := auditContext(http.MethodGet)
	_ = Audit(rec, "/api/v1")(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(get)

	failed := auditContext(http.MethodDelete)
	boom := errors.New("boom")
	if err := Audit(rec, "/api/v1")(func(c echo.Context) error { return boom })(failed); !errors.Is(err, boom) {
		t.Fatalf("expected handler error to pass through, got %v", err)
	}

	rejected := auditContext(http.MethodPost)
	_ = Audit(rec, "/api/v1")(func(c echo.Context) error { return c.NoContent(http.StatusConflict) })(rejected)

	if len(rec.events) != 0 {
		t.Fatalf("expected no events, got %+v", rec.events)
	}
}

func TestEntityOf(t *testing.T) {
	cases := map[string]string{
		"/api/v1/lotes/:id":                "lotes",
		"/api/v1/productos/:id/stock":      "productos",
		"/api/v1/empleados/:id/asistencia": "empleados",
		"/api/v1/ventas":                   "ventas",
	}
	for route, want := range cases {
		if got := entityOf(route, "/api/v1"); got != want {
			t.Errorf("entityOf(%q) = %q, want %q", route, got, want)
		}
	}
}
