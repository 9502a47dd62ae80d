package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/laritechfarms/farms-api/internal/api/middleware"
	"github.com/laritechfarms/farms-api/internal/core/domain"
)

// callerFrom returns the identity injected by the Auth middleware. Its
// absence means the route was mounted without Auth.
func callerFrom(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.Identity{}, domain.ErrMissingToken
	}
	return id, nil
}
