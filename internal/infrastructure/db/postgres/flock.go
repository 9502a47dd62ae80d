package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/laritechfarms/farms-api/internal/core/domain"
)

func batchScope(f domain.BatchFilter) scope {
	return all(
		equals("lote.estado", f.Status),
		equals("lote.tipo", f.Type),
		search(f.Search, "lote.galera"),
	)
}

// BatchRepository implements ports.BatchRepository.
type BatchRepository struct {
	*store[domain.Batch, domain.BatchFilter]
}

func NewBatchRepository(db *gorm.DB) *BatchRepository {
	s := newStore[domain.Batch](db, "lote", "id_lote", "lote.fecha_inicio DESC, lote.id_lote DESC", batchScope)
	s.listing = func(q *gorm.DB, _ int64) *gorm.DB {
		return q.Select("lote.*, (SELECT COUNT(*) FROM ave WHERE ave.id_lote = lote.id_lote AND ave.id_tenant = lote.id_tenant) AS total_aves")
	}
	s.detail = func(q *gorm.DB, tenantID int64) *gorm.DB {
		return q.Preload("Birds", func(db *gorm.DB) *gorm.DB {
			return db.Where("id_tenant = ?", tenantID).Order("id_ave")
		})
	}
	return &BatchRepository{store: s}
}

func (r *BatchRepository) CountBirds(ctx context.Context, tenantID, batchID int64) (int64, error) {
	return count[domain.Bird](ctx, r.db, tenantID, "id_lote = ?", batchID)
}

func birdScope(f domain.BirdFilter) scope {
	return all(
		equals("ave.estado", f.Status),
		equals("ave.tipo", f.Type),
		equalsID("ave.id_lote", f.BatchID),
	)
}

// BirdRepository implements ports.BirdRepository. Bird ids are numbered per
// tenant.
type BirdRepository struct {
	*store[domain.Bird, domain.BirdFilter]
}

func NewBirdRepository(db *gorm.DB) *BirdRepository {
	s := newStore[domain.Bird](db, "ave", "id_ave", "ave.fecha_ingreso DESC, ave.id_ave DESC", birdScope)
	withBatch := func(q *gorm.DB, _ int64) *gorm.DB { return q.Preload("Batch") }
	s.listing = withBatch
	s.detail = withBatch
	return &BirdRepository{store: s}
}

// Create allocates the next per-tenant id while holding the tenant row lock.
func (r *BirdRepository) Create(ctx context.Context, b *domain.Bird) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tenant domain.Tenant
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id_tenant").
			Where("id_tenant = ?", b.TenantID).
			First(&tenant).Error; err != nil {
			return translate("tenant", err)
		}

		var next int64
		if err := tx.Model(&domain.Bird{}).
			Where("id_tenant = ?", b.TenantID).
			Select("COALESCE(MAX(id_ave), 0) + 1").
			Scan(&next).Error; err != nil {
			return fmt.Errorf("next bird id: %w", err)
		}
		b.ID = next
		return tx.Omit(clause.Associations).Create(b).Error
	})
	if err != nil {
		return translate(r.entity, err)
	}
	return nil
}

func (r *BirdRepository) CountHealthRecords(ctx context.Context, tenantID, birdID int64) (int64, error) {
	return count[domain.HealthRecord](ctx, r.db, tenantID, "id_ave = ?", birdID)
}

// statsQuery scopes the flock statistics to birds that entered within rng.
func (r *BirdRepository) statsQuery(ctx context.Context, tenantID int64, rng domain.DateRange) *gorm.DB {
	return r.statsQuery(ctx, tenantID, rng).Scopes(dateRange("ave.fecha_ingreso", rng))
}

func (r *BirdRepository) Stats(ctx context.Context, tenantID int64, rng domain.DateRange) (*domain.BirdStats, error) {
	stats := &domain.BirdStats{Groups: []domain.BirdGroup{}}

	if err := r.statsQuery(ctx, tenantID, rng).Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("bird total: %w", err)
	}

	err := r.statsQuery(ctx, tenantID, rng).
		Select("ave.estado AS status, ave.tipo AS type, COUNT(*) AS count, COALESCE(AVG(ave.peso), 0) AS avg_weight, COALESCE(AVG(ave.edad), 0) AS avg_age").
		Group("ave.estado, ave.tipo").
		Order("ave.estado, ave.tipo").
		Scan(&stats.Groups).Error
	if err != nil {
		return nil, fmt.Errorf("bird groups: %w", err)
	}

	err = r.statsQuery(ctx, tenantID, rng).
		Where("ave.tipo = ? AND ave.estado = ?", domain.BirdLayer, domain.BirdAlive).
		Select("COALESCE(SUM(ave.produccion_huevos), 0)").
		Scan(&stats.LayerEggTotal).Error
	if err != nil {
		return nil, fmt.Errorf("layer eggs: %w", err)
	}
	return stats, nil
}
