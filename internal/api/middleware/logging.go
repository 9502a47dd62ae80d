package middleware

import (
	"bytes"
	"io"
	"strings"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

const (
	bodyKey        = "request.body"
	maxCapturedLen = 16 << 10
)

// RequestLogger emits one zerolog line per request.
func RequestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			var ev *zerolog.Event
			switch {
			case v.Status >= 500:
				ev = log.Error().Err(v.Error)
			case v.Status >= 400:
				ev = log.Warn()
			default:
				ev = log.Info()
			}
			if id, ok := IdentityFrom(c); ok {
				ev = ev.Int64("tenant", id.TenantID)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}

// CaptureBody keeps a copy of the request body for error logging. Routes
// under skipPrefix (credentials) are never captured.
func CaptureBody(skipPrefix string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Body == nil || req.ContentLength == 0 || strings.HasPrefix(req.URL.Path, skipPrefix) {
				return next(c)
			}

			raw, err := io.ReadAll(io.LimitReader(req.Body, maxCapturedLen))
			if err != nil {
				return err
			}
			req.Body = io.NopCloser(io.MultiReader(bytes.NewReader(raw), req.Body))
			c.Set(bodyKey, raw)
			return next(c)
		}
	}
}

// CapturedBody returns the body stored by CaptureBody, if any.
func CapturedBody(c echo.Context) []byte {
	b, _ := c.Get(bodyKey).([]byte)
	return b
}
