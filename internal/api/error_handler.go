package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/laritechfarms/farms-api/internal/api/middleware"
	"github.com/laritechfarms/farms-api/internal/core/domain"
)

// errorResponse is the envelope for domain and HTTP errors.
type errorResponse struct {
	Success    bool      `json:"success"`
	Error      string    `json:"error"`
	StatusCode int       `json:"statusCode"`
	Timestamp  time.Time `json:"timestamp"`
}

// storeErrorResponse is the envelope for errors raised by the database.
type storeErrorResponse struct {
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
	Method    string    `json:"method"`
	Details   string    `json:"details,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to their HTTP status codes.
//   - Maps Postgres and GORM errors by error code.
//   - Logs everything above 499 with the request context, never leaking it
//     to the client outside development.
func NewHTTPErrorHandler(log zerolog.Logger, production bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if code, msg, ok := resolveDomainError(err); ok {
			writeError(c, code, msg)
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg := fmt.Sprintf("%v", he.Message)
			if he.Code == http.StatusNotFound {
				msg = "route not found"
			}
			writeError(c, he.Code, msg)
			return
		}

		code, msg := resolveStoreError(err)
		logError(log, c, err, code)

		resp := storeErrorResponse{
			Error:     msg,
			Timestamp: time.Now().UTC(),
			Path:      c.Request().URL.Path,
			Method:    c.Request().Method,
		}
		if !production {
			resp.Details = err.Error()
		}
		_ = c.JSON(code, resp)
	}
}

func writeError(c echo.Context, code int, msg string) {
	_ = c.JSON(code, errorResponse{
		Success:    false,
		Error:      msg,
		StatusCode: code,
		Timestamp:  time.Now().UTC(),
	})
}

func resolveDomainError(err error) (int, string, bool) {
	switch {
	case errors.Is(err, domain.ErrMissingToken),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrUserInactive),
		errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error(), true
	case errors.Is(err, domain.ErrTenantInactive),
		errors.Is(err, domain.ErrTenantSuspended),
		errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, err.Error(), true
	case errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusBadRequest, err.Error(), true
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Error(), true
	}
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		return http.StatusNotFound, nf.Error(), true
	}
	var conflict *domain.ConflictError
	if errors.As(err, &conflict) {
		return http.StatusConflict, conflict.Error(), true
	}
	return 0, "", false
}

func resolveStoreError(err error) (int, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return http.StatusConflict, "duplicate record"
		case "23503":
			return http.StatusBadRequest, "referenced record does not exist"
		case "23502":
			return http.StatusBadRequest, "required value missing"
		case "22P02":
			return http.StatusBadRequest, "invalid input value"
		case "23514":
			return http.StatusBadRequest, "value violates a check constraint"
		}
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return http.StatusConflict, "duplicate record"
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return http.StatusBadRequest, "referenced record does not exist"
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "record not found"
	}
	return http.StatusInternalServerError, "internal server error"
}

func logError(log zerolog.Logger, c echo.Context, err error, code int) {
	ev := log.Warn()
	if code >= http.StatusInternalServerError {
		ev = log.Error()
	}
	req := c.Request()
	ev = ev.Err(err).
		Int("status", code).
		Str("url", req.URL.String()).
		Str("method", req.Method).
		Strs("params", c.ParamValues()).
		Str("query", req.URL.RawQuery).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID))
	if body := middleware.CapturedBody(c); len(body) > 0 {
		ev = ev.Bytes("body", body)
	}
	if id, ok := middleware.IdentityFrom(c); ok {
		ev = ev.Int64("tenant", id.TenantID)
	}
	ev.Msg("request failed")
}
