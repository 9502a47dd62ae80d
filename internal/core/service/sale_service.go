package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/laritechfarms/farms-api/internal/core/domain"
	"github.com/laritechfarms/farms-api/internal/core/ports"
)

// SaleService creates sales and reports on them.
type SaleService struct {
	sales   ports.SaleRepository
	clients ports.ClientRepository
	idem    ports.IdempotencyStore
	log     zerolog.Logger
}

// NewSaleService wires the service. idem may be nil, in which case
// Idempotency-Key headers are ignored.
func NewSaleService(sales ports.SaleRepository, clients ports.ClientRepository, idem ports.IdempotencyStore, log zerolog.Logger) *SaleService {
	return &SaleService{sales: sales, clients: clients, idem: idem, log: log}
}

func (s *SaleService) List(ctx context.Context, caller domain.Identity, filter domain.SaleFilter, page domain.Page) (*domain.PageResult[domain.Sale], error) {
	items, total, err := s.sales.List(ctx, caller.TenantID, filter, page)
	if err != nil {
		return nil, err
	}
	return domain.NewPageResult(items, total, page), nil
}

func (s *SaleService) Get(ctx context.Context, caller domain.Identity, id int64) (*domain.Sale, error) {
	return s.sales.FindByID(ctx, caller.TenantID, id)
}

// ClientSales lists the sales of one client after checking the client is the caller's.
func (s *SaleService) ClientSales(ctx context.Context, caller domain.Identity, clientID int64, page domain.Page) (*domain.PageResult[domain.Sale], error) {
	if _, err := s.clients.FindByID(ctx, caller.TenantID, clientID); err != nil {
		return nil, err
	}
	return s.List(ctx, caller, domain.SaleFilter{ClientID: &clientID}, page)
}

// Create records a sale. The header, its lines and the stock decrement of
// every line run in one transaction.
func (s *SaleService) Create(ctx context.Context, caller domain.Identity, sale *domain.Sale, idempotencyKey string) (*domain.Sale, bool, error) {
	if err := validateSale(sale); err != nil {
		return nil, false, err
	}

	key := ""
	if idempotencyKey != "" && s.idem != nil {
		key = idempotencyScope(caller.TenantID, idempotencyKey)
		saleID, claimed, err := s.idem.Claim(ctx, key)
		if err != nil {
			return nil, false, err
		}
		if !claimed {
			if saleID == 0 {
				return nil, false, &domain.ConflictError{Kind: domain.InProgress, Message: "a request with this Idempotency-Key is still in progress"}
			}
			prior, err := s.sales.FindByID(ctx, caller.TenantID, saleID)
			if err != nil {
				return nil, false, err
			}
			return prior, true, nil
		}
	}

	saleID, err := s.create(ctx, caller, sale)
	if err != nil {
		if key != "" {
			if rerr := s.idem.Release(ctx, key); rerr != nil {
				s.log.Warn().Err(rerr).Str("key", key).Msg("failed to release idempotency key")
			}
		}
		return nil, false, err
	}

	// The sale is committed: from here on the key must point at it, never be released.
	if key != "" {
		if err := s.idem.Complete(context.WithoutCancel(ctx), key, saleID); err != nil {
			s.log.Warn().Err(err).Str("key", key).Int64("sale_id", saleID).Msg("failed to store idempotency result")
		}
	}

	created, err := s.sales.FindByID(ctx, caller.TenantID, saleID)
	if err != nil {
		return nil, false, err
	}
	return created, false, nil
}

// create runs the sale transaction and returns the committed sale id.
func (s *SaleService) create(ctx context.Context, caller domain.Identity, sale *domain.Sale) (int64, error) {
	sale.ID = 0
	sale.TenantID = caller.TenantID
	sale.UserID = caller.UserID
	sale.Client = nil
	if sale.Status == "" {
		sale.Status = domain.SaleCompleted
	}
	sale.Total = domain.SaleTotal(sale.Lines)

	lines := sale.Lines
	sale.Lines = nil

	err := s.sales.InTx(ctx, func(tx ports.SaleTx) error {
		if sale.ClientID != nil {
			ok, err := tx.ClientExists(ctx, caller.TenantID, *sale.ClientID)
			if err != nil {
				return err
			}
			if !ok {
				return domain.NotFound("cliente")
			}
		}
		if err := tx.InsertSale(ctx, sale); err != nil {
			return err
		}
		for i := range lines {
			lines[i].ID = 0
			lines[i].TenantID = caller.TenantID
			lines[i].SaleID = sale.ID
			lines[i].Product = nil
		}
		if err := tx.InsertLines(ctx, lines); err != nil {
			return err
		}
		for _, l := range lines {
			if err := tx.DecrementStock(ctx, caller.TenantID, l.ProductID, l.Quantity); err != nil {
				if errors.Is(err, domain.ErrInsufficientStock) {
					return domain.Invalid("insufficient stock for producto %d", l.ProductID)
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Info().
		Int64("tenant_id", caller.TenantID).
		Int64("sale_id", sale.ID).
		Float64("total", sale.Total).
		Int("lines", len(lines)).
		Msg("sale created")

	return sale.ID, nil
}

func validateSale(sale *domain.Sale) error {
	if sale.Date.IsZero() {
		return domain.MissingFields("fecha")
	}
	if len(sale.Lines) == 0 {
		return domain.Invalid("detalles must contain at least one line")
	}
	if sale.Status != "" && !domain.ValidSaleStatus(sale.Status) {
		return domain.Invalid("invalid estado %q", sale.Status)
	}
	for i, l := range sale.Lines {
		if l.ProductID <= 0 {
			return domain.Invalid("detalles[%d]: id_producto is required", i)
		}
		if l.Quantity < 1 {
			return domain.Invalid("detalles[%d]: cantidad must be at least 1", i)
		}
		if l.UnitPrice < 0 {
			return domain.Invalid("detalles[%d]: precio_unitario must not be negative", i)
		}
	}
	return nil
}

func (s *SaleService) UpdateStatus(ctx context.Context, caller domain.Identity, id int64, status string) (*domain.Sale, error) {
	if status == "" {
		return nil, domain.MissingFields("estado")
	}
	if !domain.ValidSaleStatus(status) {
		return nil, domain.Invalid("invalid estado %q", status)
	}
	return s.sales.UpdateStatus(ctx, caller.TenantID, id, status)
}

func (s *SaleService) Stats(ctx context.Context, caller domain.Identity, r domain.DateRange) (*domain.SaleStats, error) {
	return s.sales.Stats(ctx, caller.TenantID, r)
}

func idempotencyScope(tenantID int64, key string) string {
	return "venta:" + strconv.FormatInt(tenantID, 10) + ":" + key
}
