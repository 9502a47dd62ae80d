package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/laritechfarms/farms-api/internal/api/metrics"
)

// RateLimit limits requests per client IP through store. When the store is
// unreachable requests are let through and the failure is logged.
func RateLimit(store echomiddleware.RateLimiterStore, log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: failOpen{store: store, log: log},
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "unable to identify client")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			metrics.RateLimitedTotal.Inc()
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests, try again later")
		},
	})
}

type failOpen struct {
	store echomiddleware.RateLimiterStore
	log   zerolog.Logger
}

func (f failOpen) Allow(identifier string) (bool, error) {
	ok, err := f.store.Allow(identifier)
	if err != nil {
		f.log.Warn().Err(err).Msg("rate limiter unavailable, allowing request")
		return true, nil
	}
	return ok, nil
}
