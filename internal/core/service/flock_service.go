package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/laritechfarms/farms-api/internal/core/domain"
	"github.com/laritechfarms/farms-api/internal/core/ports"
)

// BatchService manages batches (lotes).
type BatchService struct {
	records[domain.Batch, domain.BatchFilter, domain.BatchPatch]
	batches ports.BatchRepository
}

// NewBatchService creates a BatchService.
func NewBatchService(batches ports.BatchRepository, log zerolog.Logger) *BatchService {
	s := &BatchService{batches: batches}
	s.records = records[domain.Batch, domain.BatchFilter, domain.BatchPatch]{
		store:       batches,
		log:         log,
		entity:      "lote",
		prepare:     s.prepare,
		guardDelete: s.guardDelete,
	}
	return s
}

func (s *BatchService) prepare(_ context.Context, caller domain.Identity, b *domain.Batch) error {
	b.ID = 0
	b.TenantID = caller.TenantID
	b.BirdCount = 0
	b.Birds = nil
	if b.Status == "" {
		b.Status = domain.BatchActive
	}
	if b.Quantity < 0 {
		return domain.Invalid("cantidad must not be negative")
	}
	return nil
}

func (s *BatchService) guardDelete(ctx context.Context, caller domain.Identity, id int64) error {
	n, err := s.batches.CountBirds(ctx, caller.TenantID, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.Dependents("cannot delete lote: it still has %d aves", n)
	}
	return nil
}

// BirdService manages birds and checks their batch belongs to the tenant.
type BirdService struct {
	records[domain.Bird, domain.BirdFilter, domain.BirdPatch]
	birds   ports.BirdRepository
	batches ports.BatchRepository
}

// NewBirdService creates a BirdService.
func NewBirdService(birds ports.BirdRepository, batches ports.BatchRepository, log zerolog.Logger) *BirdService {
	s := &BirdService{birds: birds, batches: batches}
	s.records = records[domain.Bird, domain.BirdFilter, domain.BirdPatch]{
		store:        birds,
		log:          log,
		entity:       "ave",
		prepare:      s.prepare,
		checkChanges: s.checkChanges,
		guardDelete:  s.guardDelete,
	}
	return s
}

func (s *BirdService) prepare(ctx context.Context, caller domain.Identity, b *domain.Bird) error {
	b.ID = 0
	b.TenantID = caller.TenantID
	b.Batch = nil
	if b.BatchID != nil {
		if err := s.requireBatch(ctx, caller.TenantID, *b.BatchID); err != nil {
			return err
		}
	}
	return nil
}

func (s *BirdService) checkChanges(ctx context.Context, caller domain.Identity, _ int64, changes domain.Changes) error {
	if id, ok := changes["id_lote"].(int64); ok {
		return s.requireBatch(ctx, caller.TenantID, id)
	}
	return nil
}

// requireBatch rejects a reference to a batch outside the caller's tenant.
func (s *BirdService) requireBatch(ctx context.Context, tenantID, batchID int64) error {
	if _, err := s.batches.FindByID(ctx, tenantID, batchID); err != nil {
		if domain.IsNotFound(err) {
			return domain.Invalid("lote %d not found", batchID)
		}
		return err
	}
	return nil
}

func (s *BirdService) guardDelete(ctx context.Context, caller domain.Identity, id int64) error {
	n, err := s.birds.CountHealthRecords(ctx, caller.TenantID, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.Dependents("cannot delete ave: it has %d health records", n)
	}
	return nil
}

func (s *BirdService) Stats(ctx context.Context, caller domain.Identity, r domain.DateRange) (*domain.BirdStats, error) {
	return s.birds.Stats(ctx, caller.TenantID, r)
}
