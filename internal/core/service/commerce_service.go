package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/laritechfarms/farms-api/internal/core/domain"
	"github.com/laritechfarms/farms-api/internal/core/ports"
)

// ProductService manages the product catalog and its stock.
type ProductService struct {
	records[domain.Product, domain.ProductFilter, domain.ProductPatch]
	products ports.ProductRepository
	log      zerolog.Logger
}

// NewProductService creates a ProductService.
func NewProductService(products ports.ProductRepository, log zerolog.Logger) *ProductService {
	s := &ProductService{products: products, log: log}
	s.records = records[domain.Product, domain.ProductFilter, domain.ProductPatch]{
		store:        products,
		log:          log,
		entity:       "producto",
		prepare:      s.prepare,
		checkChanges: s.checkChanges,
		guardDelete:  s.guardDelete,
	}
	return s
}

func (s *ProductService) prepare(_ context.Context, caller domain.Identity, p *domain.Product) error {
	p.ID = 0
	p.TenantID = caller.TenantID
	if p.Price < 0 {
		return domain.Invalid("precio must not be negative")
	}
	if p.Stock < 0 {
		return domain.Invalid("stock must not be negative")
	}
	return nil
}

func (s *ProductService) checkChanges(_ context.Context, _ domain.Identity, _ int64, changes domain.Changes) error {
	if v, ok := changes["precio"].(float64); ok && v < 0 {
		return domain.Invalid("precio must not be negative")
	}
	if v, ok := changes["stock"].(int); ok && v < 0 {
		return domain.Invalid("stock must not be negative")
	}
	return nil
}

func (s *ProductService) guardDelete(ctx context.Context, caller domain.Identity, id int64) error {
	n, err := s.products.CountSaleLines(ctx, caller.TenantID, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.Dependents("cannot delete producto: it appears in %d sale lines", n)
	}
	return nil
}

func (s *ProductService) Categories(ctx context.Context, caller domain.Identity) ([]domain.GroupTotal, error) {
	return s.products.Categories(ctx, caller.TenantID)
}

func (s *ProductService) AdjustStock(ctx context.Context, caller domain.Identity, id int64, change domain.StockChange) (*domain.Product, error) {
	if err := change.Validate(); err != nil {
		return nil, err
	}
	p, err := s.products.AdjustStock(ctx, caller.TenantID, id, change)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Int64("tenant_id", caller.TenantID).
		Int64("product_id", id).
		Str("op", string(change.Op)).
		Int("quantity", change.Quantity).
		Int("stock", p.Stock).
		Msg("stock adjusted")
	return p, nil
}

// ClientService manages clients.
type ClientService struct {
	records[domain.Client, domain.ClientFilter, domain.ClientPatch]
	clients ports.ClientRepository
}

// NewClientService creates a ClientService.
func NewClientService(clients ports.ClientRepository, log zerolog.Logger) *ClientService {
	s := &ClientService{clients: clients}
	s.records = records[domain.Client, domain.ClientFilter, domain.ClientPatch]{
		store:  clients,
		log:    log,
		entity: "cliente",
		prepare: func(_ context.Context, caller domain.Identity, c *domain.Client) error {
			c.ID = 0
			c.TenantID = caller.TenantID
			return nil
		},
		guardDelete: s.guardDelete,
	}
	return s
}

func (s *ClientService) guardDelete(ctx context.Context, caller domain.Identity, id int64) error {
	n, err := s.clients.CountSales(ctx, caller.TenantID, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.Dependents("cannot delete cliente: it has %d ventas", n)
	}
	return nil
}
