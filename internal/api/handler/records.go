package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/laritechfarms/farms-api/internal/core/domain"
	"github.com/laritechfarms/farms-api/internal/core/ports"
)

func recordFilter(c echo.Context) (domain.RecordFilter, error) {
	q := newQuery(c)
	f := domain.RecordFilter{BirdID: q.id("id_ave"), Range: q.dates()}
	return f, q.err
}

type BirdHealthHandler struct {
	resource[domain.HealthRecord, domain.RecordFilter, domain.HealthPatch]
	health ports.HealthService
}

func NewBirdHealthHandler(svc ports.HealthService) *BirdHealthHandler {
	return &BirdHealthHandler{
		resource: resource[domain.HealthRecord, domain.RecordFilter, domain.HealthPatch]{
			svc:      svc,
			entity:   "salud_aves",
			required: []string{"id_ave", "fecha"},
			idOf:     func(r *domain.HealthRecord) int64 { return r.ID },
			filter:   recordFilter,
		},
		health: svc,
	}
}

// Stats handles GET /salud-aves/stats.
func (h *BirdHealthHandler) Stats(c echo.Context) error {
	return rangeStats(h.health.Stats)(c)
}

type MortalityHandler struct {
	resource[domain.MortalityRecord, domain.RecordFilter, domain.MortalityPatch]
	mortality ports.MortalityService
}

func NewMortalityHandler(svc ports.MortalityService) *MortalityHandler {
	return &MortalityHandler{
		resource: resource[domain.MortalityRecord, domain.RecordFilter, domain.MortalityPatch]{
			svc:      svc,
			entity:   "mortalidad",
			required: []string{"fecha", "cantidad_muertes"},
			idOf:     func(r *domain.MortalityRecord) int64 { return r.ID },
			filter:   recordFilter,
		},
		mortality: svc,
	}
}

// Stats handles GET /control-muertes/stats.
func (h *MortalityHandler) Stats(c echo.Context) error {
	return rangeStats(h.mortality.Stats)(c)
}

type EggHandler struct {
	resource[domain.EggRecord, domain.RecordFilter, domain.EggPatch]
	eggs ports.EggService
}

func NewEggHandler(svc ports.EggService) *EggHandler {
	return &EggHandler{
		resource: resource[domain.EggRecord, domain.RecordFilter, domain.EggPatch]{
			svc:      svc,
			entity:   "produccion_huevos",
			required: []string{"fecha", "cantidad_huevos"},
			idOf:     func(r *domain.EggRecord) int64 { return r.ID },
			filter: func(c echo.Context) (domain.RecordFilter, error) {
				f, err := recordFilter(c)
				f.Quality = newQuery(c).str("calidad")
				return f, err
			},
		},
		eggs: svc,
	}
}

// Stats handles GET /control-huevos/stats.
//
// @Summary      Egg production statistics
// @Tags         control-huevos
// @Produce      json
// @Security     BearerAuth
// @Param        fecha_desde  query     string  false  "From (YYYY-MM-DD)"
// @Param        fecha_hasta  query     string  false  "To (YYYY-MM-DD)"
// @Success      200          {object}  domain.EggStats
// @Failure      400          {object}  map[string]any
// @Router       /control-huevos/stats [get]
func (h *EggHandler) Stats(c echo.Context) error {
	return rangeStats(h.eggs.Stats)(c)
}
