package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/laritechfarms/farms-api/internal/core/domain"
)

type scope = func(*gorm.DB) *gorm.DB

type tabler interface {
	TableName() string
}

func tableOf[T any]() string {
	var zero T
	if t, ok := any(zero).(tabler); ok {
		return t.TableName()
	}
	panic(fmt.Sprintf("postgres: %T has no TableName", zero))
}

// store is the tenant-scoped CRUD core behind every farm repository. All
// queries start from scoped, which adds the tenant predicate.
type store[T any, F any] struct {
	db     *gorm.DB
	entity string
	table  string
	pk     string
	order  string
	filter func(F) scope

	// listing and detail add selects or preloads for List and FindByID.
	listing func(q *gorm.DB, tenantID int64) *gorm.DB
	detail  func(q *gorm.DB, tenantID int64) *gorm.DB
}

func newStore[T any, F any](db *gorm.DB, entity, pk, order string, filter func(F) scope) *store[T, F] {
	return &store[T, F]{
		db:     db,
		entity: entity,
		table:  tableOf[T](),
		pk:     pk,
		order:  order,
		filter: filter,
	}
}

func (s *store[T, F]) col(name string) string {
	return s.table + "." + name
}

func (s *store[T, F]) scoped(ctx context.Context, tenantID int64) *gorm.DB {
	return s.db.WithContext(ctx).Model(new(T)).Where(s.col("id_tenant")+" = ?", tenantID)
}

// listQuery is the filtered, tenant-scoped query List pages through.
func (s *store[T, F]) listQuery(ctx context.Context, tenantID int64, filter F) *gorm.DB {
	q := s.scoped(ctx, tenantID)
	if s.filter != nil {
		q = q.Scopes(s.filter(filter))
	}
	return q.Session(&gorm.Session{})
}

func (s *store[T, F]) List(ctx context.Context, tenantID int64, filter F, page domain.Page) ([]T, int64, error) {
	q := s.listQuery(ctx, tenantID, filter)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", s.entity, err)
	}

	items := make([]T, 0, page.Limit)
	q = q.Order(s.order).Offset(page.Offset()).Limit(page.Limit)
	if s.listing != nil {
		q = s.listing(q, tenantID)
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", s.entity, err)
	}
	return items, total, nil
}

func (s *store[T, F]) FindByID(ctx context.Context, tenantID, id int64) (*T, error) {
	var rec T
	q := s.scoped(ctx, tenantID).Where(s.col(s.pk)+" = ?", id)
	if s.detail != nil {
		q = s.detail(q, tenantID)
	}
	if err := q.First(&rec).Error; err != nil {
		return nil, translate(s.entity, err)
	}
	return &rec, nil
}

func (s *store[T, F]) Create(ctx context.Context, record *T) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(record).Error; err != nil {
		return translate(s.entity, err)
	}
	return nil
}

func (s *store[T, F]) Update(ctx context.Context, tenantID, id int64, changes domain.Changes) (*T, error) {
	res := s.scoped(ctx, tenantID).Where(s.col(s.pk)+" = ?", id).Updates(map[string]any(changes))
	if res.Error != nil {
		return nil, translate(s.entity, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.NotFound(s.entity)
	}
	return s.FindByID(ctx, tenantID, id)
}

func (s *store[T, F]) Delete(ctx context.Context, tenantID, id int64) error {
	res := s.scoped(ctx, tenantID).Where(s.col(s.pk)+" = ?", id).Delete(new(T))
	if res.Error != nil {
		return translate(s.entity, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound(s.entity)
	}
	return nil
}

// count returns the rows of model M in tenantID matching where.
func count[M any](ctx context.Context, db *gorm.DB, tenantID int64, where string, args ...any) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(new(M)).
		Where("id_tenant = ?", tenantID).
		Where(where, args...).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", tableOf[M](), err)
	}
	return n, nil
}

// translate maps storage errors the services act on into domain errors.
// Anything else is wrapped and left for the HTTP error handler.
func translate(entity string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NotFound(entity)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.Duplicate("%s already exists", entity)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.Duplicate("%s already exists", entity)
	}
	return fmt.Errorf("%s: %w", entity, err)
}

// ── Filter helpers ────────────────────────────────────────────────────────────

func equals(col string, v string) scope {
	return func(q *gorm.DB) *gorm.DB {
		if v == "" {
			return q
		}
		return q.Where(col+" = ?", v)
	}
}

func equalsID(col string, v *int64) scope {
	return func(q *gorm.DB) *gorm.DB {
		if v == nil {
			return q
		}
		return q.Where(col+" = ?", *v)
	}
}

func equalsBool(col string, v *bool) scope {
	return func(q *gorm.DB) *gorm.DB {
		if v == nil {
			return q
		}
		return q.Where(col+" = ?", *v)
	}
}

// search matches term case-insensitively as a substring of any of cols.
func search(term string, cols ...string) scope {
	return func(q *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(cols) == 0 {
			return q
		}
		pattern := "%" + escapeLike(term) + "%"
		parts := make([]string, len(cols))
		args := make([]any, len(cols))
		for i, c := range cols {
			parts[i] = c + " ILIKE ?"
			args[i] = pattern
		}
		return q.Where("("+strings.Join(parts, " OR ")+")", args...)
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func dateRange(col string, r domain.DateRange) scope {
	return func(q *gorm.DB) *gorm.DB {
		if r.From != nil {
			q = q.Where(col+" >= ?", r.From.Time)
		}
		if r.To != nil {
			q = q.Where(col+" <= ?", r.To.Time)
		}
		return q
	}
}

func all(scopes ...scope) scope {
	return func(q *gorm.DB) *gorm.DB {
		return q.Scopes(scopes...)
	}
}

// ── Aggregate helpers ─────────────────────────────────────────────────────────

// groupTotals buckets q by keyExpr, counting rows and summing sumExpr.
func groupTotals(q *gorm.DB, keyExpr, sumExpr, order string, limit int) ([]domain.GroupTotal, error) {
	out := []domain.GroupTotal{}
	q = q.Select(fmt.Sprintf(
		"CAST(%s AS TEXT) AS clave, COUNT(*) AS cantidad, COALESCE(SUM(%s), 0) AS total",
		keyExpr, sumExpr,
	)).Group(keyExpr).Order(order)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// summarize computes count, sum and average of expr over q.
func summarize(q *gorm.DB, expr string) (domain.Summary, error) {
	var s domain.Summary
	err := q.Select(fmt.Sprintf(
		"COUNT(*) AS cantidad, COALESCE(SUM(%s), 0) AS total, COALESCE(AVG(%s), 0) AS promedio",
		expr, expr,
	)).Scan(&s).Error
	return s, err
}
