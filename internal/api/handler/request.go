package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/laritechfarms/farms-api/internal/core/domain"
)

// pageFrom reads page and limit. Non-numeric values fall back to defaults.
func pageFrom(c echo.Context) domain.Page {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return domain.NewPage(page, limit)
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, domain.Invalid("invalid id %q", c.Param("id"))
	}
	return id, nil
}

// query reads typed filters from the query string, keeping the first error.
type query struct {
	c   echo.Context
	err error
}

func newQuery(c echo.Context) *query {
	return &query{c: c}
}

func (q *query) str(name string) string {
	return strings.TrimSpace(q.c.QueryParam(name))
}

func (q *query) id(name string) *int64 {
	raw := q.str(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		q.fail(domain.Invalid("%s must be an integer", name))
		return nil
	}
	return &v
}

func (q *query) flag(name string) *bool {
	raw := q.str(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		q.fail(domain.Invalid("%s must be true or false", name))
		return nil
	}
	return &v
}

// dates reads fecha_desde/fecha_hasta, falling back to the older
// fecha_inicio/fecha_fin names.
func (q *query) dates() domain.DateRange {
	return domain.DateRange{
		From: q.date("fecha_desde", "fecha_inicio"),
		To:   q.date("fecha_hasta", "fecha_fin"),
	}
}

func (q *query) date(name, legacy string) *domain.Date {
	raw := q.str(name)
	if raw == "" {
		name, raw = legacy, q.str(legacy)
	}
	if raw == "" {
		return nil
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		q.fail(domain.Invalid("%s must be YYYY-MM-DD", name))
		return nil
	}
	return &d
}

func (q *query) fail(err error) {
	if q.err == nil {
		q.err = err
	}
}

// decodeCreate reads a create body into dst. Required fields that are
// absent, null or empty strings are reported together.
func decodeCreate(c echo.Context, dst any, required ...string) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return err
	}

	fields := map[string]json.RawMessage{}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &fields); err != nil {
			return domain.Invalid("request body must be a JSON object")
		}
	}

	var missing []string
	for _, name := range required {
		v := bytes.TrimSpace(fields[name])
		if len(v) == 0 || bytes.Equal(v, []byte("null")) || bytes.Equal(v, []byte(`""`)) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return domain.MissingFields(missing...)
	}

	if len(fields) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return invalidBody(err)
	}
	return nil
}

// decodePatch reads an update body. Only keys present in the body end up Set.
func decodePatch(c echo.Context, dst any) error {
	return bind(c, dst)
}

// bindValid decodes a JSON body into a request struct and validates it.
func bindValid(c echo.Context, dst any) error {
	if err := bind(c, dst); err != nil {
		return err
	}
	return c.Validate(dst)
}

// bind runs the echo binder and reports bad bodies as validation errors.
// Other HTTP errors, such as an unsupported media type, pass through.
func bind(c echo.Context, dst any) error {
	err := c.Bind(dst)
	if err == nil {
		return nil
	}
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code == http.StatusBadRequest {
		if he.Internal != nil {
			return invalidBody(he.Internal)
		}
		return domain.Invalid("invalid request body: %v", he.Message)
	}
	return err
}

func invalidBody(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return domain.Invalid("%s has the wrong type, expected %s", typeErr.Field, typeErr.Type)
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return domain.Invalid("malformed JSON body")
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return domain.Invalid("invalid request body: %v", err)
}
