package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/laritechfarms/farms-api/internal/api/metrics"
	"github.com/laritechfarms/farms-api/internal/api/middleware"
	"github.com/laritechfarms/farms-api/internal/core/domain"
	"github.com/laritechfarms/farms-api/internal/core/ports"
)

// HeaderIdempotencyKey lets clients retry sale creation safely.
const HeaderIdempotencyKey = "Idempotency-Key"

// HeaderIdempotentReplay marks a response served from an earlier request.
const HeaderIdempotentReplay = "Idempotent-Replayed"

type ProductHandler struct {
	resource[domain.Product, domain.ProductFilter, domain.ProductPatch]
	products ports.ProductService
}

func NewProductHandler(svc ports.ProductService) *ProductHandler {
	return &ProductHandler{
		resource: resource[domain.Product, domain.ProductFilter, domain.ProductPatch]{
			svc:      svc,
			entity:   "producto",
			required: []string{"nombre", "precio"},
			fresh:    func() *domain.Product { return &domain.Product{Active: true} },
			idOf:     func(p *domain.Product) int64 { return p.ID },
			filter: func(c echo.Context) (domain.ProductFilter, error) {
				q := newQuery(c)
				f := domain.ProductFilter{Active: q.flag("activo"), Category: q.str("categoria"), Search: q.str("search")}
				return f, q.err
			},
		},
		products: svc,
	}
}

// Categories handles GET /productos/categorias.
func (h *ProductHandler) Categories(c echo.Context) error {
	return read(h.products.Categories)(c)
}

// AdjustStock handles PATCH /productos/:id/stock.
//
// @Summary      Adjust product stock
// @Description  operacion is increment, decrement or set. A body of {"stock": n} sets the stock.
// @Tags         productos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int           true  "Product id"
// @Param        body  body      stockRequest  true  "Stock change"
// @Success      200   {object}  domain.Product
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /productos/{id}/stock [patch]
func (h *ProductHandler) AdjustStock(c echo.Context) error {
	return adjustStock("producto", h.products.AdjustStock)(c)
}

type ClientHandler struct {
	resource[domain.Client, domain.ClientFilter, domain.ClientPatch]
	sales ports.SaleService
}

func NewClientHandler(svc ports.ClientService, sales ports.SaleService) *ClientHandler {
	return &ClientHandler{
		resource: resource[domain.Client, domain.ClientFilter, domain.ClientPatch]{
			svc:      svc,
			entity:   "cliente",
			required: []string{"nombre"},
			idOf:     func(cl *domain.Client) int64 { return cl.ID },
			filter: func(c echo.Context) (domain.ClientFilter, error) {
				return domain.ClientFilter{Search: newQuery(c).str("search")}, nil
			},
		},
		sales: sales,
	}
}

// Sales handles GET /clientes/:id/ventas.
func (h *ClientHandler) Sales(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	result, err := h.sales.ClientSales(c.Request().Context(), caller, id, pageFrom(c))
	if err != nil {
		return err
	}
	return ok(c, result)
}

// SaleHandler handles the /ventas endpoints.
type SaleHandler struct {
	sales ports.SaleService
}

func NewSaleHandler(sales ports.SaleService) *SaleHandler {
	return &SaleHandler{sales: sales}
}

type saleLineRequest struct {
	ProductID int64    `json:"id_producto" validate:"required"`
	Quantity  *int     `json:"cantidad" validate:"required,min=1"`
	UnitPrice *float64 `json:"precio_unitario" validate:"required,min=0"`
}

type createSaleRequest struct {
	ClientID *int64            `json:"id_cliente"`
	Date     *domain.Date      `json:"fecha" validate:"required"`
	Status   string            `json:"estado"`
	Notes    *string           `json:"observaciones"`
	Lines    []saleLineRequest `json:"detalles" validate:"required,min=1,dive"`
}

func (r createSaleRequest) sale() *domain.Sale {
	sale := &domain.Sale{
		ClientID: r.ClientID,
		Date:     *r.Date,
		Status:   r.Status,
		Notes:    r.Notes,
		Lines:    make([]domain.SaleLine, len(r.Lines)),
	}
	for i, l := range r.Lines {
		sale.Lines[i] = domain.SaleLine{ProductID: l.ProductID, Quantity: *l.Quantity, UnitPrice: *l.UnitPrice}
	}
	return sale
}

type saleStatusRequest struct {
	Status string `json:"estado" validate:"required"`
}

// List handles GET /ventas.
func (h *SaleHandler) List(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	q := newQuery(c)
	filter := domain.SaleFilter{Status: q.str("estado"), ClientID: q.id("id_cliente"), Range: q.dates()}
	if q.err != nil {
		return q.err
	}
	result, err := h.sales.List(c.Request().Context(), caller, filter, pageFrom(c))
	if err != nil {
		return err
	}
	return ok(c, result)
}

// Get handles GET /ventas/:id.
func (h *SaleHandler) Get(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	sale, err := h.sales.Get(c.Request().Context(), caller, id)
	if err != nil {
		return err
	}
	return ok(c, sale)
}

// Create handles POST /ventas.
//
// @Summary      Create a sale
// @Description  Inserts the sale, its lines and the stock decrements in one transaction.
// @Description  Repeating a request with the same Idempotency-Key returns the original sale.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string             false  "Client-chosen retry key"
// @Param        body             body      createSaleRequest  true   "Sale"
// @Success      201              {object}  domain.Sale
// @Success      200              {object}  domain.Sale        "Replayed"
// @Failure      400              {object}  map[string]any
// @Failure      404              {object}  map[string]any
// @Failure      409              {object}  map[string]any
// @Router       /ventas [post]
func (h *SaleHandler) Create(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var req createSaleRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	sale, replayed, err := h.sales.Create(c.Request().Context(), caller, req.sale(), c.Request().Header.Get(HeaderIdempotencyKey))
	if err != nil {
		metrics.SalesTotal.WithLabelValues("failed").Inc()
		return err
	}
	middleware.SetAuditEntityID(c, strconv.FormatInt(sale.ID, 10))

	if replayed {
		metrics.SalesTotal.WithLabelValues("replayed").Inc()
		c.Response().Header().Set(HeaderIdempotentReplay, "true")
		return respond(c, http.StatusOK, sale, "venta already created")
	}
	metrics.SalesTotal.WithLabelValues("created").Inc()
	metrics.SaleAmount.Observe(sale.Total)
	return respond(c, http.StatusCreated, sale, "venta created")
}

// UpdateStatus handles PATCH /ventas/:id/estado.
func (h *SaleHandler) UpdateStatus(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req saleStatusRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	sale, err := h.sales.UpdateStatus(c.Request().Context(), caller, id, req.Status)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, sale, "venta updated")
}

// Stats handles GET /ventas/estadisticas.
func (h *SaleHandler) Stats(c echo.Context) error {
	return rangeStats(h.sales.Stats)(c)
}
