package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/laritechfarms/farms-api/internal/core/domain"
	"github.com/laritechfarms/farms-api/internal/core/ports"
)

// AuditHandler exposes the tenant's audit trail to administrators.
type AuditHandler struct {
	audit ports.AuditService
}

func NewAuditHandler(audit ports.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List handles GET /auditoria.
//
// @Summary      List audit events
// @Tags         auditoria
// @Produce      json
// @Security     BearerAuth
// @Param        entidad  query     string  false  "Entity name"
// @Param        page     query     int     false  "Page"
// @Param        limit    query     int     false  "Page size"
// @Success      200      {object}  map[string]any
// @Failure      403      {object}  map[string]any
// @Router       /auditoria [get]
func (h *AuditHandler) List(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	filter := domain.AuditFilter{Entity: newQuery(c).str("entidad")}
	result, err := h.audit.List(c.Request().Context(), caller, filter, pageFrom(c))
	if err != nil {
		return err
	}
	return ok(c, result)
}
