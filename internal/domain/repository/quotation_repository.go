package repository

import (
	"context"
	"time"

	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/entity"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/enum"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/pkg/pagination"
	"github.com/google/uuid"
)

// QuotationRepository defines the interface for quotation data operations.
// It also serves as the numbering store: LatestNumber and NumberExists see
// soft-deleted quotations so numbers are never handed out twice.
type QuotationRepository interface {
	// Create inserts the quotation and its items in one transaction.
	// A (tenant, number) collision returns an error wrapping ErrDuplicate.
	Create(ctx context.Context, quotation *entity.Quotation) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*entity.Quotation, error)
	GetWithItems(ctx context.Context, tenantID, id uuid.UUID) (*entity.Quotation, error)
	GetByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*entity.Quotation, error)
	// ReplaceItems saves the header fields and swaps the item set in one transaction
	ReplaceItems(ctx context.Context, quotation *entity.Quotation) error
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status enum.QuotationStatus) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, params *QuotationFilterParams) ([]entity.Quotation, int64, error)
	// ExpireOverdue marks open quotations whose validity ended before now as expired
	ExpireOverdue(ctx context.Context, tenantID uuid.UUID, now time.Time) (int64, error)

	LatestNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
	NumberExists(ctx context.Context, tenantID uuid.UUID, number string) (bool, error)
}

// QuotationFilterParams contains filtering parameters for quotation queries
type QuotationFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.QuotationStatus
	CustomerID *uuid.UUID
	SortBy     string
	SortOrder  string
}
