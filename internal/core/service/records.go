package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/laritechfarms/farms-api/internal/core/domain"
	"github.com/laritechfarms/farms-api/internal/core/ports"
)

type patcher interface {
	Changes() (domain.Changes, error)
}

// records implements the tenant-scoped CRUD flow shared by farm resources.
// Resource services embed it and plug their rules in through the hooks.
type records[T any, F any, P patcher] struct {
	store  ports.TenantStore[T, F]
	log    zerolog.Logger
	entity string

	// prepare stamps ownership and defaults on a new record and checks its references.
	prepare func(ctx context.Context, caller domain.Identity, record *T) error
	// checkChanges validates a patch against the stored record.
	checkChanges func(ctx context.Context, caller domain.Identity, id int64, changes domain.Changes) error
	// guardDelete refuses deletes that would orphan dependent records.
	guardDelete func(ctx context.Context, caller domain.Identity, id int64) error
}

func (r *records[T, F, P]) List(ctx context.Context, caller domain.Identity, filter F, page domain.Page) (*domain.PageResult[T], error) {
	items, total, err := r.store.List(ctx, caller.TenantID, filter, page)
	if err != nil {
		return nil, err
	}
	return domain.NewPageResult(items, total, page), nil
}

func (r *records[T, F, P]) Get(ctx context.Context, caller domain.Identity, id int64) (*T, error) {
	return r.store.FindByID(ctx, caller.TenantID, id)
}

func (r *records[T, F, P]) Create(ctx context.Context, caller domain.Identity, record *T) (*T, error) {
	if r.prepare != nil {
		if err := r.prepare(ctx, caller, record); err != nil {
			return nil, err
		}
	}
	if err := r.store.Create(ctx, record); err != nil {
		return nil, err
	}
	r.log.Info().
		Int64("tenant_id", caller.TenantID).
		Int64("user_id", caller.UserID).
		Str("entity", r.entity).
		Msg("record created")
	return record, nil
}

func (r *records[T, F, P]) Update(ctx context.Context, caller domain.Identity, id int64, patch P) (*T, error) {
	changes, err := patch.Changes()
	if err != nil {
		return nil, err
	}
	current, err := r.store.FindByID(ctx, caller.TenantID, id)
	if err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return current, nil
	}
	if r.checkChanges != nil {
		if err := r.checkChanges(ctx, caller, id, changes); err != nil {
			return nil, err
		}
	}
	return r.store.Update(ctx, caller.TenantID, id, changes)
}

func (r *records[T, F, P]) Delete(ctx context.Context, caller domain.Identity, id int64) error {
	if _, err := r.store.FindByID(ctx, caller.TenantID, id); err != nil {
		return err
	}
	if r.guardDelete != nil {
		if err := r.guardDelete(ctx, caller, id); err != nil {
			return err
		}
	}
	if err := r.store.Delete(ctx, caller.TenantID, id); err != nil {
		return err
	}
	r.log.Info().
		Int64("tenant_id", caller.TenantID).
		Str("entity", r.entity).
		Int64("id", id).
		Msg("record deleted")
	return nil
}
