package repository

import (
	"context"

	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/entity"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/enum"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/pkg/pagination"
	"github.com/google/uuid"
)

// ProductRepository defines the interface for tenant-scoped catalog operations
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*entity.Product, error)
	// GetByIDs retrieves multiple products by their IDs in a single query (prevents N+1)
	GetByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]entity.Product, error)
	GetByCode(ctx context.Context, tenantID uuid.UUID, code string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, params *ProductFilterParams) ([]entity.Product, int64, error)
}

// ProductFilterParams contains filtering parameters for product queries
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Type       *enum.ItemType
	ActiveOnly bool
	SortBy     string
	SortOrder  string
}
