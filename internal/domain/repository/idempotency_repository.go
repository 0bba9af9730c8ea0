package repository

import (
	"context"
	"time"

	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/entity"
	"github.com/google/uuid"
)

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	// GetByKey retrieves an idempotency key by its key string and tenant ID
	GetByKey(ctx context.Context, key string, tenantID uuid.UUID) (*entity.IdempotencyKey, error)
	// Create stores a new idempotency key. It returns ErrDuplicate when the
	// tenant already holds the key.
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	// Save inserts the key, or overwrites the stored row when ID is set
	Save(ctx context.Context, ikey *entity.IdempotencyKey) error
	// Delete removes the tenant's key
	Delete(ctx context.Context, tenantID uuid.UUID, key string) error
	// DeleteExpired removes keys that expired before now
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
