package repository

import (
	"context"

	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/entity"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/pkg/pagination"
	"github.com/google/uuid"
)

// CustomerRepository defines the interface for tenant-scoped customer data operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error)
}
