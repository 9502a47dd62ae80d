package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/laritechfarms/farms-api/internal/core/domain"
)

func inventoryScope(f domain.InventoryFilter) scope {
	return all(
		equals("inventario_granja.categoria", f.Category),
		search(f.Search, "inventario_granja.nombre", "inventario_granja.proveedor"),
		func(q *gorm.DB) *gorm.DB {
			if !f.LowStock {
				return q
			}
			return q.Where("inventario_granja.minimo_stock IS NOT NULL AND inventario_granja.cantidad <= inventario_granja.minimo_stock")
		},
	)
}

// InventoryRepository implements ports.InventoryRepository. Returned items
// carry their computed stock status.
type InventoryRepository struct {
	*store[domain.InventoryItem, domain.InventoryFilter]
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{
		store: newStore[domain.InventoryItem](db, "inventario", "id_inventario", "inventario_granja.nombre ASC", inventoryScope),
	}
}

func classifyAll(items []domain.InventoryItem) {
	for i := range items {
		items[i].Classify()
	}
}

func (r *InventoryRepository) List(ctx context.Context, tenantID int64, filter domain.InventoryFilter, page domain.Page) ([]domain.InventoryItem, int64, error) {
	items, total, err := r.store.List(ctx, tenantID, filter, page)
	classifyAll(items)
	return items, total, err
}

func (r *InventoryRepository) FindByID(ctx context.Context, tenantID, id int64) (*domain.InventoryItem, error) {
	item, err := r.store.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	item.Classify()
	return item, nil
}

func (r *InventoryRepository) Update(ctx context.Context, tenantID, id int64, changes domain.Changes) (*domain.InventoryItem, error) {
	item, err := r.store.Update(ctx, tenantID, id, changes)
	if err != nil {
		return nil, err
	}
	item.Classify()
	return item, nil
}

func (r *InventoryRepository) Categories(ctx context.Context, tenantID int64) ([]domain.GroupTotal, error) {
	out, err := groupTotals(r.scoped(ctx, tenantID).Where("inventario_granja.categoria IS NOT NULL"),
		"inventario_granja.categoria", "inventario_granja.cantidad", "clave ASC", 0)
	if err != nil {
		return nil, fmt.Errorf("inventory categories: %w", err)
	}
	return out, nil
}

// Alerts returns items at or under LowStockFactor times their minimum, the
// most depleted first.
func (r *InventoryRepository) Alerts(ctx context.Context, tenantID int64) ([]domain.InventoryItem, error) {
	items := []domain.InventoryItem{}
	err := r.scoped(ctx, tenantID).
		Where("inventario_granja.minimo_stock IS NOT NULL").
		Where("inventario_granja.cantidad <= inventario_granja.minimo_stock * ?", domain.LowStockFactor).
		Order("CAST(inventario_granja.cantidad AS NUMERIC) / NULLIF(inventario_granja.minimo_stock, 0) ASC NULLS FIRST").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("inventory alerts: %w", err)
	}
	classifyAll(items)
	return items, nil
}

func (r *InventoryRepository) AdjustStock(ctx context.Context, tenantID, id int64, change domain.StockChange) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx, &item, "id_tenant = ? AND id_inventario = ?", tenantID, id); err != nil {
			return translate(r.entity, err)
		}
		next, err := domain.ApplyStockOp(item.Quantity, change.Op, change.Quantity)
		if err != nil {
			return err
		}
		updates := map[string]any{"cantidad": next}
		if change.Notes != nil {
			updates["observaciones"] = *change.Notes
		}
		if err := tx.Model(&domain.InventoryItem{}).
			Where("id_tenant = ? AND id_inventario = ?", tenantID, id).
			Updates(updates).Error; err != nil {
			return fmt.Errorf("update inventory stock: %w", err)
		}
		item.Quantity = next
		if change.Notes != nil {
			item.Notes = change.Notes
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	item.Classify()
	return &item, nil
}

func vehicleScope(f domain.VehicleFilter) scope {
	return all(
		equals("vehiculo.estado", f.Status),
		equals("vehiculo.tipo", f.Type),
	)
}

// VehicleRepository implements ports.VehicleRepository.
type VehicleRepository struct {
	*store[domain.Vehicle, domain.VehicleFilter]
}

func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{
		store: newStore[domain.Vehicle](db, "vehiculo", "id_vehiculo", "vehiculo.fecha_adquisicion DESC NULLS LAST, vehiculo.id_vehiculo DESC", vehicleScope),
	}
}

func (r *VehicleRepository) PlateTaken(ctx context.Context, tenantID int64, plate string, exceptID int64) (bool, error) {
	n, err := count[domain.Vehicle](ctx, r.db, tenantID, "UPPER(placa) = UPPER(?) AND id_vehiculo <> ?", plate, exceptID)
	return n > 0, err
}

// CountTransport counts transport control rows referencing the vehicle. The
// table is owned by the dispatch module and has no model here.
func (r *VehicleRepository) CountTransport(ctx context.Context, tenantID, vehicleID int64) (int64, error) {
	if !r.db.WithContext(ctx).Migrator().HasTable("control_transporte") {
		return 0, nil
	}
	var n int64
	err := r.db.WithContext(ctx).Table("control_transporte").
		Where("id_tenant = ? AND id_vehiculo = ?", tenantID, vehicleID).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count transport: %w", err)
	}
	return n, nil
}

// statsQuery scopes the fleet statistics to vehicles acquired within rng.
func (r *VehicleRepository) statsQuery(ctx context.Context, tenantID int64, rng domain.DateRange) *gorm.DB {
	return r.statsQuery(ctx, tenantID, rng).Scopes(dateRange("vehiculo.fecha_adquisicion", rng))
}

func (r *VehicleRepository) Stats(ctx context.Context, tenantID int64, rng domain.DateRange) (*domain.VehicleStats, error) {
	stats := &domain.VehicleStats{}
	if err := r.statsQuery(ctx, tenantID, rng).Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("vehicle total: %w", err)
	}
	var err error
	if stats.ByStatus, err = groupTotals(r.statsQuery(ctx, tenantID, rng), "vehiculo.estado", "vehiculo.capacidad", "cantidad DESC", 0); err != nil {
		return nil, fmt.Errorf("vehicles by status: %w", err)
	}
	if stats.ByType, err = groupTotals(r.statsQuery(ctx, tenantID, rng), "vehiculo.tipo", "vehiculo.capacidad", "cantidad DESC", 0); err != nil {
		return nil, fmt.Errorf("vehicles by type: %w", err)
	}
	if err := r.statsQuery(ctx, tenantID, rng).Select("COALESCE(SUM(vehiculo.capacidad), 0)").Scan(&stats.TotalCapacity).Error; err != nil {
		return nil, fmt.Errorf("vehicle capacity: %w", err)
	}
	return stats, nil
}

func expenseScope(f domain.ExpenseFilter) scope {
	return all(
		equals("gasto_operacion.categoria", f.Category),
		equals("gasto_operacion.metodo_pago", f.PaymentMethod),
		dateRange("gasto_operacion.fecha", f.Range),
	)
}

// ExpenseRepository implements ports.ExpenseRepository.
type ExpenseRepository struct {
	*store[domain.Expense, domain.ExpenseFilter]
}

func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{
		store: newStore[domain.Expense](db, "gasto", "id_gasto", "gasto_operacion.fecha DESC, gasto_operacion.id_gasto DESC", expenseScope),
	}
}

func (r *ExpenseRepository) Stats(ctx context.Context, tenantID int64, rng domain.DateRange) (*domain.ExpenseStats, error) {
	base := func() *gorm.DB {
		return r.scoped(ctx, tenantID).Scopes(dateRange("gasto_operacion.fecha", rng))
	}

	sum, err := summarize(base(), "gasto_operacion.monto")
	if err != nil {
		return nil, fmt.Errorf("expense summary: %w", err)
	}
	stats := &domain.ExpenseStats{Summary: sum}
	if stats.ByCategory, err = groupTotals(base(), "gasto_operacion.categoria", "gasto_operacion.monto", "total DESC", 0); err != nil {
		return nil, fmt.Errorf("expenses by category: %w", err)
	}
	if stats.ByPaymentMethod, err = groupTotals(base(), "gasto_operacion.metodo_pago", "gasto_operacion.monto", "total DESC", 0); err != nil {
		return nil, fmt.Errorf("expenses by payment method: %w", err)
	}
	if stats.ByDay, err = groupTotals(base(), "gasto_operacion.fecha", "gasto_operacion.monto", "clave DESC", 30); err != nil {
		return nil, fmt.Errorf("expenses by day: %w", err)
	}
	return stats, nil
}
