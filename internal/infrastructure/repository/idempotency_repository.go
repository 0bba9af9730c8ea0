package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/entity"
	domainRepo "github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type idempotencyRepository struct {
	db *gorm.DB
}

// NewIdempotencyRepository creates a new idempotency repository
func NewIdempotencyRepository(db *gorm.DB) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{db: db}
}

func (r *idempotencyRepository) GetByKey(ctx context.Context, key string, tenantID uuid.UUID) (*entity.IdempotencyKey, error) {
	var ikey entity.IdempotencyKey
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(tenantID)).
		Where("key = ?", key).
		First(&ikey).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ikey, err
}

func (r *idempotencyRepository) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	return translateError(r.db.WithContext(ctx).Create(ikey).Error)
}

func (r *idempotencyRepository) Save(ctx context.Context, ikey *entity.IdempotencyKey) error {
	if ikey.ID == uuid.Nil {
		return r.Create(ctx, ikey)
	}
	return translateError(r.db.WithContext(ctx).Save(ikey).Error)
}

func (r *idempotencyRepository) Delete(ctx context.Context, tenantID uuid.UUID, key string) error {
	return r.db.WithContext(ctx).
		Scopes(TenantScope(tenantID)).
		Where("key = ?", key).
		Delete(&entity.IdempotencyKey{}).Error
}

func (r *idempotencyRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&entity.IdempotencyKey{})
	return result.RowsAffected, result.Error
}
