package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/laritechfarms/farms-api/internal/core/domain"
	"github.com/laritechfarms/farms-api/internal/core/ports"
)

// lockForUpdate loads dest with a row lock held until the transaction ends.
func lockForUpdate(tx *gorm.DB, dest any, where string, args ...any) error {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where(where, args...).First(dest).Error
}

// adjustProductStock applies change to one product inside tx.
func adjustProductStock(tx *gorm.DB, tenantID, productID int64, op domain.StockOp, qty int) (*domain.Product, error) {
	var p domain.Product
	if err := lockForUpdate(tx, &p, "id_tenant = ? AND id_producto = ?", tenantID, productID); err != nil {
		return nil, translate("producto", err)
	}
	next, err := domain.ApplyStockOp(p.Stock, op, qty)
	if err != nil {
		return nil, err
	}
	if err := tx.Model(&domain.Product{}).
		Where("id_tenant = ? AND id_producto = ?", tenantID, productID).
		Update("stock", next).Error; err != nil {
		return nil, fmt.Errorf("update stock: %w", err)
	}
	p.Stock = next
	return &p, nil
}

func productScope(f domain.ProductFilter) scope {
	return all(
		equalsBool("producto.activo", f.Active),
		equals("producto.categoria", f.Category),
		search(f.Search, "producto.nombre"),
	)
}

// ProductRepository implements ports.ProductRepository.
type ProductRepository struct {
	*store[domain.Product, domain.ProductFilter]
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{
		store: newStore[domain.Product](db, "producto", "id_producto", "producto.nombre ASC", productScope),
	}
}

func (r *ProductRepository) Categories(ctx context.Context, tenantID int64) ([]domain.GroupTotal, error) {
	out, err := groupTotals(r.scoped(ctx, tenantID).Where("producto.categoria IS NOT NULL"),
		"producto.categoria", "producto.stock", "clave ASC", 0)
	if err != nil {
		return nil, fmt.Errorf("product categories: %w", err)
	}
	return out, nil
}

func (r *ProductRepository) AdjustStock(ctx context.Context, tenantID, id int64, change domain.StockChange) (*domain.Product, error) {
	var out *domain.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := adjustProductStock(tx, tenantID, id, change.Op, change.Quantity)
		out = p
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ProductRepository) CountSaleLines(ctx context.Context, tenantID, productID int64) (int64, error) {
	return count[domain.SaleLine](ctx, r.db, tenantID, "id_producto = ?", productID)
}

func clientScope(f domain.ClientFilter) scope {
	return search(f.Search,
		"cliente.nombre", "cliente.telefono", "cliente.correo", "cliente.direccion", "cliente.ruc")
}

// ClientRepository implements ports.ClientRepository.
type ClientRepository struct {
	*store[domain.Client, domain.ClientFilter]
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	s := newStore[domain.Client](db, "cliente", "id_cliente", "cliente.fecha_registro DESC, cliente.id_cliente DESC", clientScope)
	s.listing = func(q *gorm.DB, _ int64) *gorm.DB {
		return q.Select("cliente.*, (SELECT COUNT(*) FROM venta WHERE venta.id_cliente = cliente.id_cliente AND venta.id_tenant = cliente.id_tenant) AS total_ventas")
	}
	return &ClientRepository{store: s}
}

func (r *ClientRepository) CountSales(ctx context.Context, tenantID, clientID int64) (int64, error) {
	return count[domain.Sale](ctx, r.db, tenantID, "id_cliente = ?", clientID)
}

func saleScope(f domain.SaleFilter) scope {
	return all(
		equals("venta.estado", f.Status),
		equalsID("venta.id_cliente", f.ClientID),
		dateRange("venta.fecha", f.Range),
	)
}

// SaleRepository implements ports.SaleRepository.
type SaleRepository struct {
	*store[domain.Sale, domain.SaleFilter]
}

func NewSaleRepository(db *gorm.DB) *SaleRepository {
	s := newStore[domain.Sale](db, "venta", "id_venta", "venta.fecha DESC, venta.id_venta DESC", saleScope)
	withLines := func(q *gorm.DB, tenantID int64) *gorm.DB {
		return q.Preload("Client").
			Preload("Lines", "id_tenant = ?", tenantID).
			Preload("Lines.Product")
	}
	s.listing = withLines
	s.detail = withLines
	return &SaleRepository{store: s}
}

func (r *SaleRepository) UpdateStatus(ctx context.Context, tenantID, id int64, status string) (*domain.Sale, error) {
	return r.Update(ctx, tenantID, id, domain.Changes{"estado": status})
}

// InTx runs fn in one database transaction; any error rolls it back.
func (r *SaleRepository) InTx(ctx context.Context, fn func(tx ports.SaleTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(saleTx{tx: tx})
	})
}

func (r *SaleRepository) Stats(ctx context.Context, tenantID int64, rng domain.DateRange) (*domain.SaleStats, error) {
	base := func() *gorm.DB {
		return r.scoped(ctx, tenantID).Scopes(dateRange("venta.fecha", rng))
	}

	sum, err := summarize(base(), "venta.total")
	if err != nil {
		return nil, fmt.Errorf("sale summary: %w", err)
	}
	byStatus, err := groupTotals(base(), "venta.estado", "venta.total", "total DESC", 0)
	if err != nil {
		return nil, fmt.Errorf("sales by status: %w", err)
	}
	byDay, err := groupTotals(base(), "venta.fecha", "venta.total", "clave DESC", 30)
	if err != nil {
		return nil, fmt.Errorf("sales by day: %w", err)
	}

	return &domain.SaleStats{
		Count:    sum.Count,
		Revenue:  sum.Sum,
		Average:  sum.Average,
		ByStatus: byStatus,
		ByDay:    byDay,
	}, nil
}

type saleTx struct {
	tx *gorm.DB
}

func (s saleTx) ClientExists(ctx context.Context, tenantID, clientID int64) (bool, error) {
	n, err := count[domain.Client](ctx, s.tx, tenantID, "id_cliente = ?", clientID)
	return n > 0, err
}

func (s saleTx) InsertSale(ctx context.Context, sale *domain.Sale) error {
	if err := s.tx.WithContext(ctx).Omit(clause.Associations).Create(sale).Error; err != nil {
		return translate("venta", err)
	}
	return nil
}

func (s saleTx) InsertLines(ctx context.Context, lines []domain.SaleLine) error {
	if len(lines) == 0 {
		return nil
	}
	if err := s.tx.WithContext(ctx).Omit(clause.Associations).CreateInBatches(lines, 100).Error; err != nil {
		return translate("detalle_venta", err)
	}
	return nil
}

func (s saleTx) DecrementStock(ctx context.Context, tenantID, productID int64, qty int) error {
	_, err := adjustProductStock(s.tx.WithContext(ctx), tenantID, productID, domain.StockDecrement, qty)
	return err
}
