package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/laritechfarms/farms-api/internal/api/metrics"
	"github.com/laritechfarms/farms-api/internal/api/middleware"
	"github.com/laritechfarms/farms-api/internal/core/domain"
	"github.com/laritechfarms/farms-api/internal/core/ports"
)

// resource serves the list/get/create/update/delete endpoints of one farm
// record type. Resource handlers embed it and add their extra routes.
type resource[T any, F any, P any] struct {
	svc      ports.RecordService[T, F, P]
	entity   string
	required []string
	// fresh returns a record carrying the defaults for absent fields.
	fresh  func() *T
	idOf   func(*T) int64
	filter func(echo.Context) (F, error)
}

func (r *resource[T, F, P]) List(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var filter F
	if r.filter != nil {
		if filter, err = r.filter(c); err != nil {
			return err
		}
	}
	result, err := r.svc.List(c.Request().Context(), caller, filter, pageFrom(c))
	if err != nil {
		return err
	}
	return ok(c, result)
}

func (r *resource[T, F, P]) Get(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	rec, err := r.svc.Get(c.Request().Context(), caller, id)
	if err != nil {
		return err
	}
	return ok(c, rec)
}

func (r *resource[T, F, P]) Create(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	rec := new(T)
	if r.fresh != nil {
		rec = r.fresh()
	}
	if err := decodeCreate(c, rec, r.required...); err != nil {
		return err
	}
	out, err := r.svc.Create(c.Request().Context(), caller, rec)
	if err != nil {
		return err
	}
	if r.idOf != nil {
		middleware.SetAuditEntityID(c, strconv.FormatInt(r.idOf(out), 10))
	}
	return respond(c, http.StatusCreated, out, r.entity+" created")
}

func (r *resource[T, F, P]) Update(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var patch P
	if err := decodePatch(c, &patch); err != nil {
		return err
	}
	out, err := r.svc.Update(c.Request().Context(), caller, id, patch)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, out, r.entity+" updated")
}

func (r *resource[T, F, P]) Delete(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := r.svc.Delete(c.Request().Context(), caller, id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, nil, r.entity+" deleted")
}

// Mount registers the CRUD routes on g. write gates create and update,
// remove gates delete.
func (r *resource[T, F, P]) Mount(g *echo.Group, write, remove []echo.MiddlewareFunc) {
	g.GET("", r.List)
	g.GET("/:id", r.Get)
	g.POST("", r.Create, write...)
	g.PUT("/:id", r.Update, write...)
	g.DELETE("/:id", r.Delete, remove...)
}

// read serves a caller-scoped query such as categories or statistics.
func read[X any](fn func(context.Context, domain.Identity) (X, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		caller, err := callerFrom(c)
		if err != nil {
			return err
		}
		out, err := fn(c.Request().Context(), caller)
		if err != nil {
			return err
		}
		return ok(c, out)
	}
}

// rangeStats serves statistics over the fecha_desde/fecha_hasta range.
func rangeStats[S any](fn func(context.Context, domain.Identity, domain.DateRange) (*S, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		caller, err := callerFrom(c)
		if err != nil {
			return err
		}
		q := newQuery(c)
		rng := q.dates()
		if q.err != nil {
			return q.err
		}
		out, err := fn(c.Request().Context(), caller, rng)
		if err != nil {
			return err
		}
		return ok(c, out)
	}
}

type stockRequest struct {
	Operation string  `json:"operacion"`
	Quantity  *int    `json:"cantidad"`
	Stock     *int    `json:"stock"`
	Notes     *string `json:"observaciones"`
}

// change converts the body to a StockChange. A bare {stock} body is the
// older form of a set.
func (r stockRequest) change() (domain.StockChange, error) {
	if r.Operation == "" && r.Quantity == nil && r.Stock != nil {
		return domain.StockChange{Op: domain.StockSet, Quantity: *r.Stock, Notes: r.Notes}, nil
	}
	var missing []string
	if r.Operation == "" {
		missing = append(missing, "operacion")
	}
	if r.Quantity == nil {
		missing = append(missing, "cantidad")
	}
	if len(missing) > 0 {
		return domain.StockChange{}, domain.MissingFields(missing...)
	}
	op, err := domain.ParseStockOp(r.Operation)
	if err != nil {
		return domain.StockChange{}, err
	}
	change := domain.StockChange{Op: op, Quantity: *r.Quantity, Notes: r.Notes}
	return change, change.Validate()
}

// adjustStock serves PATCH /:id/stock for products and inventory items.
func adjustStock[X any](kind string, fn func(context.Context, domain.Identity, int64, domain.StockChange) (*X, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		caller, err := callerFrom(c)
		if err != nil {
			return err
		}
		id, err := pathID(c)
		if err != nil {
			return err
		}
		var req stockRequest
		if err := decodePatch(c, &req); err != nil {
			return err
		}
		change, err := req.change()
		if err != nil {
			return err
		}
		out, err := fn(c.Request().Context(), caller, id, change)
		if err != nil {
			return err
		}
		metrics.StockAdjustmentsTotal.WithLabelValues(kind, string(change.Op)).Inc()
		return respond(c, http.StatusOK, out, "stock updated")
	}
}
