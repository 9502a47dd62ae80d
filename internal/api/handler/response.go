package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// response is the success envelope shared by every endpoint.
type response struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data,omitempty"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func respond(c echo.Context, status int, data any, message string) error {
	return c.JSON(status, response{
		Success:   true,
		Data:      data,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

func ok(c echo.Context, data any) error {
	return respond(c, http.StatusOK, data, "")
}
