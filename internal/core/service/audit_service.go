package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/laritechfarms/farms-api/internal/core/domain"
	"github.com/laritechfarms/farms-api/internal/core/ports"
)

const auditWriteTimeout = 3 * time.Second

// AuditService writes the mutation trail. Write failures are logged and
// reported through onFailure, never returned to the request.
type AuditService struct {
	repo      ports.AuditRepository
	log       zerolog.Logger
	onFailure func()
}

// NewAuditService wires the audit trail. onFailure may be nil.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger, onFailure func()) *AuditService {
	if onFailure == nil {
		onFailure = func() {}
	}
	return &AuditService{repo: repo, log: log, onFailure: onFailure}
}

func (s *AuditService) Record(ctx context.Context, event domain.AuditEvent) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	// The request may already be finished; the write keeps its own deadline.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditWriteTimeout)
	defer cancel()

	if err := s.repo.Record(writeCtx, event); err != nil {
		s.onFailure()
		s.log.Warn().
			Err(err).
			Int64("tenant_id", event.TenantID).
			Str("route", event.Route).
			Msg("audit write failed")
	}
}

func (s *AuditService) List(ctx context.Context, caller domain.Identity, filter domain.AuditFilter, page domain.Page) (*domain.PageResult[domain.AuditEvent], error) {
	items, total, err := s.repo.List(ctx, caller.TenantID, filter, page)
	if err != nil {
		return nil, err
	}
	return domain.NewPageResult(items, total, page), nil
}
