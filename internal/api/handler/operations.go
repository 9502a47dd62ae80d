package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/laritechfarms/farms-api/internal/core/domain"
	"github.com/laritechfarms/farms-api/internal/core/ports"
)

type InventoryHandler struct {
	resource[domain.InventoryItem, domain.InventoryFilter, domain.InventoryPatch]
	items ports.InventoryService
}

func NewInventoryHandler(svc ports.InventoryService) *InventoryHandler {
	return &InventoryHandler{
		resource: resource[domain.InventoryItem, domain.InventoryFilter, domain.InventoryPatch]{
			svc:      svc,
			entity:   "inventario",
			required: []string{"nombre", "cantidad", "unidad"},
			idOf:     func(i *domain.InventoryItem) int64 { return i.ID },
			filter: func(c echo.Context) (domain.InventoryFilter, error) {
				q := newQuery(c)
				f := domain.InventoryFilter{Category: q.str("categoria"), Search: q.str("search")}
				if low := q.flag("stock_bajo"); low != nil {
					f.LowStock = *low
				}
				return f, q.err
			},
		},
		items: svc,
	}
}

// Categories handles GET /inventario/categorias.
func (h *InventoryHandler) Categories(c echo.Context) error {
	return read(h.items.Categories)(c)
}

// Alerts handles GET /inventario/alertas.
//
// @Summary      Low stock alerts
// @Description  Items at or below their minimum stock, most urgent first.
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.InventoryItem
// @Failure      401  {object}  map[string]any
// @Router       /inventario/alertas [get]
func (h *InventoryHandler) Alerts(c echo.Context) error {
	return read(h.items.Alerts)(c)
}

// AdjustStock handles PATCH /inventario/:id/stock.
func (h *InventoryHandler) AdjustStock(c echo.Context) error {
	return adjustStock("inventario", h.items.AdjustStock)(c)
}

type VehicleHandler struct {
	resource[domain.Vehicle, domain.VehicleFilter, domain.VehiclePatch]
	vehicles ports.VehicleService
}

func NewVehicleHandler(svc ports.VehicleService) *VehicleHandler {
	return &VehicleHandler{
		resource: resource[domain.Vehicle, domain.VehicleFilter, domain.VehiclePatch]{
			svc:      svc,
			entity:   "vehiculo",
			required: []string{"tipo", "placa"},
			idOf:     func(v *domain.Vehicle) int64 { return v.ID },
			filter: func(c echo.Context) (domain.VehicleFilter, error) {
				q := newQuery(c)
				return domain.VehicleFilter{Status: q.str("estado"), Type: q.str("tipo")}, nil
			},
		},
		vehicles: svc,
	}
}

// Stats handles GET /vehiculos/stats.
func (h *VehicleHandler) Stats(c echo.Context) error {
	return rangeStats(h.vehicles.Stats)(c)
}

type ExpenseHandler struct {
	resource[domain.Expense, domain.ExpenseFilter, domain.ExpensePatch]
	expenses ports.ExpenseService
}

func NewExpenseHandler(svc ports.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{
		resource: resource[domain.Expense, domain.ExpenseFilter, domain.ExpensePatch]{
			svc:      svc,
			entity:   "gasto",
			required: []string{"fecha", "categoria", "monto"},
			idOf:     func(e *domain.Expense) int64 { return e.ID },
			filter: func(c echo.Context) (domain.ExpenseFilter, error) {
				q := newQuery(c)
				f := domain.ExpenseFilter{Category: q.str("categoria"), PaymentMethod: q.str("metodo_pago"), Range: q.dates()}
				return f, q.err
			},
		},
		expenses: svc,
	}
}

// Stats handles GET /gastos-operacion/stats.
func (h *ExpenseHandler) Stats(c echo.Context) error {
	return rangeStats(h.expenses.Stats)(c)
}
