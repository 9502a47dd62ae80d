package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/laritechfarms/farms-api/internal/core/domain"
)

type stubBatchRepo struct {
	*stubStore[domain.Batch, domain.BatchFilter]
	birds map[int64]int64
}

func (r *stubBatchRepo) CountBirds(_ context.Context, _ int64, batchID int64) (int64, error) {
	return r.birds[batchID], nil
}

type stubBirdRepo struct {
	*stubStore[domain.Bird, domain.BirdFilter]
	health map[int64]int64
}

func (r *stubBirdRepo) CountHealthRecords(_ context.Context, _ int64, birdID int64) (int64, error) {
	return r.health[birdID], nil
}

func (r *stubBirdRepo) Stats(context.Context, int64, domain.DateRange) (*domain.BirdStats, error) {
	return &domain.BirdStats{}, nil
}

// tenantBatches returns batches that exist only for tenant 7.
func tenantBatches(ids ...int64) *stubBatchRepo {
	known := make(map[int64]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}
	return &stubBatchRepo{
		stubStore: &stubStore[domain.Batch, domain.BatchFilter]{
			find: func(tenantID, id int64) (*domain.Batch, error) {
				if tenantID != 7 || !known[id] {
					return nil, domain.NotFound("lote")
				}
				return &domain.Batch{ID: id, TenantID: tenantID, Status: domain.BatchActive}, nil
			},
		},
		birds: map[int64]int64{},
	}
}

func TestBatchCreateStampsTenantAndDefaults(t *testing.T) {
	repo := tenantBatches()
	svc := NewBatchService(repo, zerolog.Nop())

	in := &domain.Batch{
		ID:        99,
		TenantID:  1,
		Type:      "Ponedoras",
		StartDate: domain.NewDate(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
		Quantity:  500,
		House:     "G1",
		BirdCount: 12,
	}
	got, err := svc.Create(context.Background(), staffCaller, in)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got.TenantID != 7 || got.ID != 0 || got.BirdCount != 0 {
		t.Fatalf("Create() = %+v, want tenant 7 with server-assigned id", got)
	}
	if got.Status != domain.BatchActive {
		t.Fatalf("estado = %q, want %q", got.Status, domain.BatchActive)
	}
	if len(repo.created) != 1 {
		t.Fatalf("store got %d creates, want 1", len(repo.created))
	}
}

func TestBatchCreateRejectsNegativeQuantity(t *testing.T) {
	repo := tenantBatches()
	svc := NewBatchService(repo, zerolog.Nop())

	_, err := svc.Create(context.Background(), staffCaller, &domain.Batch{Type: "Engorde", Quantity: -1, House: "G2"})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Create() error = %v, want ValidationError", err)
	}
	if len(repo.created) != 0 {
		t.Fatal("invalid batch reached the store")
	}
}

func TestBatchDeleteBlockedByBirds(t *testing.T) {
	repo := tenantBatches(4)
	repo.birds[4] = 3
	svc := NewBatchService(repo, zerolog.Nop())

	err := svc.Delete(context.Background(), staffCaller, 4)
	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) || conflict.Kind != domain.HasDependents {
		t.Fatalf("Delete() error = %v, want dependents conflict", err)
	}
	if len(repo.deleted) != 0 {
		t.Fatal("batch with birds was deleted")
	}
}

func TestBatchDeleteEmpty(t *testing.T) {
	repo := tenantBatches(4)
	svc := NewBatchService(repo, zerolog.Nop())

	if err := svc.Delete(context.Background(), staffCaller, 4); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != 4 {
		t.Fatalf("deleted = %v, want [4]", repo.deleted)
	}
}

func TestBatchOfAnotherTenantIsNotFound(t *testing.T) {
	repo := tenantBatches(4)
	svc := NewBatchService(repo, zerolog.Nop())

	other := staffCaller
	other.TenantID = 8

	if _, err := svc.Get(context.Background(), other, 4); !domain.IsNotFound(err) {
		t.Fatalf("Get() error = %v, want not found", err)
	}
	if err := svc.Delete(context.Background(), other, 4); !domain.IsNotFound(err) {
		t.Fatalf("Delete() error = %v, want not found", err)
	}
}

func TestBirdCreateChecksBatch(t *testing.T) {
	batches := tenantBatches(4)
	birds := &stubBirdRepo{stubStore: &stubStore[domain.Bird, domain.BirdFilter]{}}
	svc := NewBirdService(birds, batches, zerolog.Nop())

	known := int64(4)
	if _, err := svc.Create(context.Background(), staffCaller, &domain.Bird{Type: "Gallina", Status: "Activa", BatchID: &known}); err != nil {
		t.Fatalf("Create() with own batch error = %v", err)
	}

	unknown := int64(5)
	_, err := svc.Create(context.Background(), staffCaller, &domain.Bird{Type: "Gallina", Status: "Activa", BatchID: &unknown})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Create() with foreign batch error = %v, want ValidationError", err)
	}
	if len(birds.created) != 1 {
		t.Fatalf("store got %d creates, want 1", len(birds.created))
	}
}

func TestBirdUpdateChecksBatch(t *testing.T) {
	batches := tenantBatches(4)
	birds := &stubBirdRepo{stubStore: &stubStore[domain.Bird, domain.BirdFilter]{
		find: func(tenantID, id int64) (*domain.Bird, error) {
			return &domain.Bird{ID: id, TenantID: tenantID, Type: "Gallina", Status: "Activa"}, nil
		},
	}}
	svc := NewBirdService(birds, batches, zerolog.Nop())

	_, err := svc.Update(context.Background(), staffCaller, 1, domain.BirdPatch{BatchID: domain.Some[int64](9)})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Update() error = %v, want ValidationError", err)
	}
	if len(birds.updates) != 0 {
		t.Fatal("update with unknown batch reached the store")
	}

	if _, err := svc.Update(context.Background(), staffCaller, 1, domain.BirdPatch{BatchID: domain.Optional[int64]{Set: true, Null: true}}); err != nil {
		t.Fatalf("Update() clearing id_lote error = %v", err)
	}
	if len(birds.updates) != 1 || birds.updates[0]["id_lote"] != nil || !birds.updates[0].Has("id_lote") {
		t.Fatalf("updates = %v, want id_lote cleared", birds.updates)
	}
}

func TestBirdUpdateWithoutChangesSkipsStore(t *testing.T) {
	birds := &stubBirdRepo{stubStore: &stubStore[domain.Bird, domain.BirdFilter]{
		find: func(tenantID, id int64) (*domain.Bird, error) {
			return &domain.Bird{ID: id, TenantID: tenantID}, nil
		},
	}}
	svc := NewBirdService(birds, tenantBatches(), zerolog.Nop())

	got, err := svc.Update(context.Background(), staffCaller, 2, domain.BirdPatch{})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.ID != 2 || len(birds.updates) != 0 {
		t.Fatalf("Update() = %+v with %d store updates, want current record and none", got, len(birds.updates))
	}
}

func TestBirdDeleteBlockedByHealthRecords(t *testing.T) {
	birds := &stubBirdRepo{
		stubStore: &stubStore[domain.Bird, domain.BirdFilter]{
			find: func(tenantID, id int64) (*domain.Bird, error) {
				return &domain.Bird{ID: id, TenantID: tenantID}, nil
			},
		},
		health: map[int64]int64{2: 1},
	}
	svc := NewBirdService(birds, tenantBatches(), zerolog.Nop())

	err := svc.Delete(context.Background(), staffCaller, 2)
	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) || conflict.Kind != domain.HasDependents {
		t.Fatalf("Delete() error = %v, want dependents conflict", err)
	}
}
