package service

import (
	"context"

	"github.com/laritechfarms/farms-api/internal/core/domain"
)

// stubStore is a TenantStore keyed by (tenant, id). Records are looked up
// through the find func so each test decides what exists.
type stubStore[T any, F any] struct {
	find    func(tenantID, id int64) (*T, error)
	created []*T
	updates []domain.Changes
	deleted []int64
}

func (s *stubStore[T, F]) List(_ context.Context, _ int64, _ F, _ domain.Page) ([]T, int64, error) {
	return nil, 0, nil
}

func (s *stubStore[T, F]) FindByID(_ context.Context, tenantID, id int64) (*T, error) {
	if s.find == nil {
		return nil, domain.NotFound("record")
	}
	return s.find(tenantID, id)
}

func (s *stubStore[T, F]) Create(_ context.Context, record *T) error {
	s.created = append(s.created, record)
	return nil
}

func (s *stubStore[T, F]) Update(ctx context.Context, tenantID, id int64, changes domain.Changes) (*T, error) {
	s.updates = append(s.updates, changes)
	return s.FindByID(ctx, tenantID, id)
}

func (s *stubStore[T, F]) Delete(_ context.Context, _ int64, id int64) error {
	s.deleted = append(s.deleted, id)
	return nil
}

var staffCaller = domain.Identity{UserID: 3, TenantID: 7, Email: "ana@granja.com", Role: domain.RoleSupervisor}
