package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/laritechfarms/farms-api/internal/core/domain"
)

func recordScope(table string) func(domain.RecordFilter) scope {
	return func(f domain.RecordFilter) scope {
		return all(
			equalsID(table+".id_ave", f.BirdID),
			dateRange(table+".fecha", f.Range),
		)
	}
}

// HealthRepository implements ports.HealthRepository.
type HealthRepository struct {
	*store[domain.HealthRecord, domain.RecordFilter]
}

func NewHealthRepository(db *gorm.DB) *HealthRepository {
	return &HealthRepository{
		store: newStore[domain.HealthRecord](db, "salud_ave", "id_salud", "salud_ave.fecha DESC, salud_ave.id_salud DESC", recordScope("salud_ave")),
	}
}

func (r *HealthRepository) Stats(ctx context.Context, tenantID int64, rng domain.DateRange) (*domain.HealthStats, error) {
	base := func() *gorm.DB {
		return r.scoped(ctx, tenantID).Scopes(dateRange("salud_ave.fecha", rng))
	}

	stats := &domain.HealthStats{}
	if err := base().Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("health total: %w", err)
	}
	var err error
	if stats.ByTreatment, err = groupTotals(base(), "salud_ave.tipo_tratamiento", "salud_ave.costo", "cantidad DESC", 0); err != nil {
		return nil, fmt.Errorf("health by treatment: %w", err)
	}
	if err := base().Select("COALESCE(SUM(salud_ave.costo), 0)").Scan(&stats.TotalCost).Error; err != nil {
		return nil, fmt.Errorf("health cost: %w", err)
	}
	return stats, nil
}

// MortalityRepository implements ports.MortalityRepository.
type MortalityRepository struct {
	*store[domain.MortalityRecord, domain.RecordFilter]
}

func NewMortalityRepository(db *gorm.DB) *MortalityRepository {
	return &MortalityRepository{
		store: newStore[domain.MortalityRecord](db, "control_muertes", "id_control_muertes", "control_muertes.fecha DESC, control_muertes.id_control_muertes DESC", recordScope("control_muertes")),
	}
}

func (r *MortalityRepository) Stats(ctx context.Context, tenantID int64, rng domain.DateRange) (*domain.MortalityStats, error) {
	base := func() *gorm.DB {
		return r.scoped(ctx, tenantID).Scopes(dateRange("control_muertes.fecha", rng))
	}

	stats := &domain.MortalityStats{}
	if err := base().Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("mortality total: %w", err)
	}
	if err := base().Select("COALESCE(SUM(control_muertes.cantidad_muertes), 0)").Scan(&stats.Deaths).Error; err != nil {
		return nil, fmt.Errorf("mortality deaths: %w", err)
	}
	var err error
	if stats.ByCause, err = groupTotals(base(), "control_muertes.causa_principal", "control_muertes.cantidad_muertes", "total DESC", 0); err != nil {
		return nil, fmt.Errorf("mortality by cause: %w", err)
	}
	if stats.ByDay, err = groupTotals(base(), "control_muertes.fecha", "control_muertes.cantidad_muertes", "clave DESC", 30); err != nil {
		return nil, fmt.Errorf("mortality by day: %w", err)
	}
	return stats, nil
}

// EggRepository implements ports.EggRepository.
type EggRepository struct {
	*store[domain.EggRecord, domain.RecordFilter]
}

func NewEggRepository(db *gorm.DB) *EggRepository {
	filter := func(f domain.RecordFilter) scope {
		return all(recordScope("control_huevos")(f), equals("control_huevos.calidad", f.Quality))
	}
	return &EggRepository{
		store: newStore[domain.EggRecord](db, "control_huevos", "id_control_huevos", "control_huevos.fecha DESC, control_huevos.id_control_huevos DESC", filter),
	}
}

func (r *EggRepository) Stats(ctx context.Context, tenantID int64, rng domain.DateRange) (*domain.EggStats, error) {
	base := func() *gorm.DB {
		return r.scoped(ctx, tenantID).Scopes(dateRange("control_huevos.fecha", rng))
	}

	sum, err := summarize(base(), "control_huevos.cantidad_huevos")
	if err != nil {
		return nil, fmt.Errorf("egg summary: %w", err)
	}
	stats := &domain.EggStats{Summary: sum}
	if stats.ByQuality, err = groupTotals(base(), "control_huevos.calidad", "control_huevos.cantidad_huevos", "total DESC", 0); err != nil {
		return nil, fmt.Errorf("eggs by quality: %w", err)
	}
	if stats.ByDay, err = groupTotals(base(), "control_huevos.fecha", "control_huevos.cantidad_huevos", "clave DESC", 30); err != nil {
		return nil, fmt.Errorf("eggs by day: %w", err)
	}
	return stats, nil
}
