package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestCaptureBody_KeepsBodyReadable(t *testing.T) {
	e := echo.New()
	body := `{"tipo":"Ponedora","cantidad":100}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/lotes", strings.NewReader(body))
	c := e.NewContext(req, httptest.NewRecorder())

	handler := CaptureBody("/api/v1/auth")(func(c echo.Context) error {
		got, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return err
		}
		if string(got) != body {
			t.Fatalf("handler saw %q", got)
		}
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if string(CapturedBody(c)) != body {
		t.Fatalf("captured %q", CapturedBody(c))
	}
}

func TestCaptureBody_SkipsCredentials(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"password":"x"}`))
	c := e.NewContext(req, httptest.NewRecorder())

	_ = CaptureBody("/api/v1/auth")(func(c echo.Context) error { return nil })(c)
	if CapturedBody(c) != nil {
		t.Fatal("credentials must not be captured")
	}
}

type storeStub struct {
	allow bool
	err   error
}

func (s storeStub) Allow(string) (bool, error) { return s.allow, s.err }

func TestFailOpen(t *testing.T) {
	f := failOpen{store: storeStub{err: errors.New("redis down")}}
	if ok, err := f.Allow("1.2.3.4"); !ok || err != nil {
		t.Fatalf("expected fail open, got ok=%v err=%v", ok, err)
	}

	f = failOpen{store: storeStub{allow: false}}
	if ok, _ := f.Allow("1.2.3.4"); ok {
		t.Fatal("expected denial to pass through")
	}
}

func TestRateLimit_DeniesWith429(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	var got error
	e.HTTPErrorHandler = func(err error, c echo.Context) { got = err }

	handler := RateLimit(storeStub{allow: false}, zerolog.Nop())(func(c echo.Context) error {
		t.Fatal("should not reach next")
		return nil
	})
	_ = handler(c)

	var he *echo.HTTPError
	if !errors.As(got, &he) || he.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %v", got)
	}
}
