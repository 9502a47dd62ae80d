package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/laritechfarms/farms-api/internal/core/domain"
	"github.com/laritechfarms/farms-api/internal/core/ports"
)

// InventoryService manages farm supplies and their stock levels.
type InventoryService struct {
	records[domain.InventoryItem, domain.InventoryFilter, domain.InventoryPatch]
	items ports.InventoryRepository
	log   zerolog.Logger
}

// NewInventoryService creates an InventoryService.
func NewInventoryService(items ports.InventoryRepository, log zerolog.Logger) *InventoryService {
	s := &InventoryService{items: items, log: log}
	s.records = records[domain.InventoryItem, domain.InventoryFilter, domain.InventoryPatch]{
		store:  items,
		log:    log,
		entity: "inventario",
		prepare: func(_ context.Context, caller domain.Identity, i *domain.InventoryItem) error {
			i.ID = 0
			i.TenantID = caller.TenantID
			if i.Quantity < 0 {
				return domain.Invalid("cantidad must not be negative")
			}
			if i.MinStock != nil && *i.MinStock < 0 {
				return domain.Invalid("minimo_stock must not be negative")
			}
			i.Classify()
			return nil
		},
		checkChanges: func(_ context.Context, _ domain.Identity, _ int64, changes domain.Changes) error {
			if v, ok := changes["cantidad"].(int); ok && v < 0 {
				return domain.Invalid("cantidad must not be negative")
			}
			return nil
		},
	}
	return s
}

func (s *InventoryService) Categories(ctx context.Context, caller domain.Identity) ([]domain.GroupTotal, error) {
	return s.items.Categories(ctx, caller.TenantID)
}

func (s *InventoryService) Alerts(ctx context.Context, caller domain.Identity) ([]domain.InventoryItem, error) {
	return s.items.Alerts(ctx, caller.TenantID)
}

func (s *InventoryService) AdjustStock(ctx context.Context, caller domain.Identity, id int64, change domain.StockChange) (*domain.InventoryItem, error) {
	if err := change.Validate(); err != nil {
		return nil, err
	}
	item, err := s.items.AdjustStock(ctx, caller.TenantID, id, change)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Int64("tenant_id", caller.TenantID).
		Int64("item_id", id).
		Str("op", string(change.Op)).
		Int("quantity", change.Quantity).
		Int("stock", item.Quantity).
		Msg("stock adjusted")
	return item, nil
}

// VehicleService manages the fleet. Plates are unique per tenant.
type VehicleService struct {
	records[domain.Vehicle, domain.VehicleFilter, domain.VehiclePatch]
	vehicles ports.VehicleRepository
}

// NewVehicleService creates a VehicleService.
func NewVehicleService(vehicles ports.VehicleRepository, log zerolog.Logger) *VehicleService {
	s := &VehicleService{vehicles: vehicles}
	s.records = records[domain.Vehicle, domain.VehicleFilter, domain.VehiclePatch]{
		store:        vehicles,
		log:          log,
		entity:       "vehiculo",
		prepare:      s.prepare,
		checkChanges: s.checkChanges,
		guardDelete:  s.guardDelete,
	}
	return s
}

func (s *VehicleService) prepare(ctx context.Context, caller domain.Identity, v *domain.Vehicle) error {
	v.ID = 0
	v.TenantID = caller.TenantID
	if v.Status == "" {
		v.Status = domain.VehicleActive
	}
	return s.requireFreePlate(ctx, caller.TenantID, v.Plate, 0)
}

func (s *VehicleService) checkChanges(ctx context.Context, caller domain.Identity, id int64, changes domain.Changes) error {
	if plate, ok := changes["placa"].(string); ok {
		return s.requireFreePlate(ctx, caller.TenantID, plate, id)
	}
	return nil
}

func (s *VehicleService) requireFreePlate(ctx context.Context, tenantID int64, plate string, exceptID int64) error {
	taken, err := s.vehicles.PlateTaken(ctx, tenantID, plate, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return domain.Duplicate("placa %s already registered", plate)
	}
	return nil
}

func (s *VehicleService) guardDelete(ctx context.Context, caller domain.Identity, id int64) error {
	n, err := s.vehicles.CountTransport(ctx, caller.TenantID, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.Dependents("cannot delete vehiculo: it has %d transport records", n)
	}
	return nil
}

func (s *VehicleService) Stats(ctx context.Context, caller domain.Identity, r domain.DateRange) (*domain.VehicleStats, error) {
	return s.vehicles.Stats(ctx, caller.TenantID, r)
}

// ExpenseService records operating expenses.
type ExpenseService struct {
	records[domain.Expense, domain.ExpenseFilter, domain.ExpensePatch]
	expenses ports.ExpenseRepository
}

// NewExpenseService creates an ExpenseService.
func NewExpenseService(expenses ports.ExpenseRepository, log zerolog.Logger) *ExpenseService {
	s := &ExpenseService{expenses: expenses}
	s.records = records[domain.Expense, domain.ExpenseFilter, domain.ExpensePatch]{
		store:  expenses,
		log:    log,
		entity: "gasto",
		prepare: func(_ context.Context, caller domain.Identity, e *domain.Expense) error {
			e.ID = 0
			e.TenantID = caller.TenantID
			e.UserID = caller.UserID
			if e.Amount < 0 {
				return domain.Invalid("monto must not be negative")
			}
			return nil
		},
	}
	return s
}

func (s *ExpenseService) Stats(ctx context.Context, caller domain.Identity, r domain.DateRange) (*domain.ExpenseStats, error) {
	return s.expenses.Stats(ctx, caller.TenantID, r)
}
