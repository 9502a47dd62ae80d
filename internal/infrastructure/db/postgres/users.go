package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/laritechfarms/farms-api/internal/core/domain"
)

// UserRepository implements ports.UserRepository. Users are looked up across
// tenants since login happens before a tenant is known.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindActiveByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Preload("Tenant").
		Where("LOWER(email) = ? AND activo = ?", strings.ToLower(email), true).
		First(&u).Error
	if err != nil {
		return nil, translate("usuario", err)
	}
	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).Preload("Tenant").First(&u, "id_usuario = ?", id).Error; err != nil {
		return nil, translate("usuario", err)
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	user.Email = strings.ToLower(user.Email)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error; err != nil {
		return translate("usuario", err)
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	res := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id_usuario = ?", id).
		Update("password_hash", hash)
	if res.Error != nil {
		return fmt.Errorf("update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("usuario")
	}
	return nil
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id_usuario = ?", id).
		Update("ultimo_login", at).Error
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}
