package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/laritechfarms/farms-api/internal/core/domain"
	"github.com/laritechfarms/farms-api/internal/core/ports"
)

// birdRef checks that a referenced bird belongs to the caller's tenant.
type birdRef struct {
	birds ports.BirdRepository
}

func (r birdRef) require(ctx context.Context, tenantID int64, birdID *int64) error {
	if birdID == nil {
		return nil
	}
	_, err := r.birds.FindByID(ctx, tenantID, *birdID)
	return err
}

func (r birdRef) checkChanges(ctx context.Context, caller domain.Identity, _ int64, changes domain.Changes) error {
	if id, ok := changes["id_ave"].(int64); ok {
		return r.require(ctx, caller.TenantID, &id)
	}
	return nil
}

// HealthService records bird treatments.
type HealthService struct {
	records[domain.HealthRecord, domain.RecordFilter, domain.HealthPatch]
	health ports.HealthRepository
}

// NewHealthService creates a HealthService.
func NewHealthService(health ports.HealthRepository, birds ports.BirdRepository, log zerolog.Logger) *HealthService {
	ref := birdRef{birds: birds}
	s := &HealthService{health: health}
	s.records = records[domain.HealthRecord, domain.RecordFilter, domain.HealthPatch]{
		store:  health,
		log:    log,
		entity: "salud_ave",
		prepare: func(ctx context.Context, caller domain.Identity, h *domain.HealthRecord) error {
			h.ID = 0
			h.TenantID = caller.TenantID
			h.UserID = caller.UserID
			return ref.require(ctx, caller.TenantID, &h.BirdID)
		},
	}
	return s
}

func (s *HealthService) Stats(ctx context.Context, caller domain.Identity, r domain.DateRange) (*domain.HealthStats, error) {
	return s.health.Stats(ctx, caller.TenantID, r)
}

// MortalityService records deaths.
type MortalityService struct {
	records[domain.MortalityRecord, domain.RecordFilter, domain.MortalityPatch]
	mortality ports.MortalityRepository
}

// NewMortalityService creates a MortalityService.
func NewMortalityService(mortality ports.MortalityRepository, birds ports.BirdRepository, log zerolog.Logger) *MortalityService {
	ref := birdRef{birds: birds}
	s := &MortalityService{mortality: mortality}
	s.records = records[domain.MortalityRecord, domain.RecordFilter, domain.MortalityPatch]{
		store:  mortality,
		log:    log,
		entity: "control_muertes",
		prepare: func(ctx context.Context, caller domain.Identity, m *domain.MortalityRecord) error {
			m.ID = 0
			m.TenantID = caller.TenantID
			m.UserID = caller.UserID
			if m.Deaths < 0 {
				return domain.Invalid("cantidad_muertes must not be negative")
			}
			return ref.require(ctx, caller.TenantID, m.BirdID)
		},
		checkChanges: ref.checkChanges,
	}
	return s
}

func (s *MortalityService) Stats(ctx context.Context, caller domain.Identity, r domain.DateRange) (*domain.MortalityStats, error) {
	return s.mortality.Stats(ctx, caller.TenantID, r)
}

// EggService records egg collection.
type EggService struct {
	records[domain.EggRecord, domain.RecordFilter, domain.EggPatch]
	eggs ports.EggRepository
}

// NewEggService creates an EggService.
func NewEggService(eggs ports.EggRepository, birds ports.BirdRepository, log zerolog.Logger) *EggService {
	ref := birdRef{birds: birds}
	s := &EggService{eggs: eggs}
	s.records = records[domain.EggRecord, domain.RecordFilter, domain.EggPatch]{
		store:  eggs,
		log:    log,
		entity: "control_huevos",
		prepare: func(ctx context.Context, caller domain.Identity, e *domain.EggRecord) error {
			e.ID = 0
			e.TenantID = caller.TenantID
			e.UserID = caller.UserID
			if e.Eggs < 0 {
				return domain.Invalid("cantidad_huevos must not be negative")
			}
			if e.Quality != nil && !domain.ValidEggQuality(*e.Quality) {
				return domain.Invalid("invalid calidad %q", *e.Quality)
			}
			return ref.require(ctx, caller.TenantID, e.BirdID)
		},
		checkChanges: ref.checkChanges,
	}
	return s
}

func (s *EggService) Stats(ctx context.Context, caller domain.Identity, r domain.DateRange) (*domain.EggStats, error) {
	return s.eggs.Stats(ctx, caller.TenantID, r)
}
