package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/laritechfarms/farms-api/internal/core/domain"
	"github.com/laritechfarms/farms-api/internal/core/ports"
)

type BatchHandler struct {
	resource[domain.Batch, domain.BatchFilter, domain.BatchPatch]
}

func NewBatchHandler(svc ports.BatchService) *BatchHandler {
	return &BatchHandler{resource[domain.Batch, domain.BatchFilter, domain.BatchPatch]{
		svc:      svc,
		entity:   "lote",
		required: []string{"tipo", "fecha_inicio", "cantidad", "galera"},
		idOf:     func(b *domain.Batch) int64 { return b.ID },
		filter: func(c echo.Context) (domain.BatchFilter, error) {
			q := newQuery(c)
			f := domain.BatchFilter{Status: q.str("estado"), Type: q.str("tipo"), Search: q.str("search")}
			return f, q.err
		},
	}}
}

type BirdHandler struct {
	resource[domain.Bird, domain.BirdFilter, domain.BirdPatch]
	birds ports.BirdService
}

func NewBirdHandler(svc ports.BirdService) *BirdHandler {
	return &BirdHandler{
		resource: resource[domain.Bird, domain.BirdFilter, domain.BirdPatch]{
			svc:      svc,
			entity:   "ave",
			required: []string{"tipo", "edad", "estado", "fecha_ingreso"},
			idOf:     func(b *domain.Bird) int64 { return b.ID },
			filter: func(c echo.Context) (domain.BirdFilter, error) {
				q := newQuery(c)
				f := domain.BirdFilter{Status: q.str("estado"), Type: q.str("tipo"), BatchID: q.id("id_lote")}
				return f, q.err
			},
		},
		birds: svc,
	}
}

// Stats handles GET /aves/estadisticas.
//
// @Summary      Flock statistics
// @Tags         aves
// @Produce      json
// @Security     BearerAuth
// @Param        fecha_desde  query     string  false  "Entered from (YYYY-MM-DD)"
// @Param        fecha_hasta  query     string  false  "Entered until (YYYY-MM-DD)"
// @Success      200          {object}  domain.BirdStats
// @Failure      400          {object}  map[string]any
// @Failure      401          {object}  map[string]any
// @Router       /aves/estadisticas [get]
func (h *BirdHandler) Stats(c echo.Context) error {
	return rangeStats(h.birds.Stats)(c)
}
