package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/laritechfarms/farms-api/internal/core/domain"
)

const auditEntityIDKey = "audit.entity_id"

// AuditRecorder stores audit events. Failures are handled by the recorder.
type AuditRecorder interface {
	Record(ctx context.Context, event domain.AuditEvent)
}

// SetAuditEntityID lets a handler name the record a mutation produced when
// the route has no :id parameter.
func SetAuditEntityID(c echo.Context, id string) {
	c.Set(auditEntityIDKey, id)
}

// Audit records every successful mutating request made by an authenticated
// caller. prefix is stripped from the route to derive the entity name.
func Audit(rec AuditRecorder, prefix string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err != nil || !mutating(c.Request().Method) {
				return err
			}
			status := c.Response().Status
			if status >= http.StatusBadRequest {
				return nil
			}
			id, ok := IdentityFrom(c)
			if !ok {
				return nil
			}

			entityID := c.Param("id")
			if v, ok := c.Get(auditEntityIDKey).(string); ok && v != "" {
				entityID = v
			}

			rec.Record(c.Request().Context(), domain.AuditEvent{
				TenantID:  id.TenantID,
				UserID:    id.UserID,
				Method:    c.Request().Method,
				Route:     c.Path(),
				Entity:    entityOf(c.Path(), prefix),
				EntityID:  entityID,
				Status:    status,
				RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
			})
			return nil
		}
	}
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// entityOf returns the first path segment after prefix:
// "/api/v1/lotes/:id" -> "lotes".
func entityOf(route, prefix string) string {
	rest := strings.TrimPrefix(strings.TrimPrefix(route, prefix), "/")
	seg, _, _ := strings.Cut(rest, "/")
	return seg
}
