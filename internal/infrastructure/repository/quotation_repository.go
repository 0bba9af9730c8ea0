package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/entity"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/enum"
	domainRepo "github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/repository"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type quotationRepository struct {
	db *gorm.DB
}

// NewQuotationRepository creates a new quotation repository
func NewQuotationRepository(db *gorm.DB) domainRepo.QuotationRepository {
	return &quotationRepository{db: db}
}

func (r *quotationRepository) Create(ctx context.Context, quotation *entity.Quotation) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(quotation).Error; err != nil {
			return err
		}
		return createItems(tx, quotation)
	})
	return translateError(err)
}

func createItems(tx *gorm.DB, quotation *entity.Quotation) error {
	if len(quotation.Items) == 0 {
		return nil
	}
	for i := range quotation.Items {
		quotation.Items[i].QuotationID = quotation.ID
		quotation.Items[i].Position = i + 1
	}
	return tx.Create(&quotation.Items).Error
}

func (r *quotationRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*entity.Quotation, error) {
	var quotation entity.Quotation
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(tenantID)).
		First(&quotation, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &quotation, err
}

func (r *quotationRepository) GetWithItems(ctx context.Context, tenantID, id uuid.UUID) (*entity.Quotation, error) {
	var quotation entity.Quotation
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(tenantID)).
		Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&quotation, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &quotation, err
}

func (r *quotationRepository) GetByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*entity.Quotation, error) {
	var quotation entity.Quotation
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(tenantID)).
		First(&quotation, "quotation_number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &quotation, err
}

// ReplaceItems never touches quotation_number or sequence
func (r *quotationRepository) ReplaceItems(ctx context.Context, quotation *entity.Quotation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Quotation{}).
			Scopes(TenantScope(quotation.TenantID)).
			Where("id = ?", quotation.ID).
			Select("title", "customer_id", "customer_name", "currency", "issue_date", "valid_until",
				"notes", "terms", "subtotal", "tax_total", "discount_total", "total", "updated_at").
			Updates(quotation).Error; err != nil {
			return err
		}
		if err := tx.Where("quotation_id = ?", quotation.ID).Delete(&entity.QuotationItem{}).Error; err != nil {
			return err
		}
		for i := range quotation.Items {
			quotation.Items[i].ID = uuid.Nil
		}
		return createItems(tx, quotation)
	})
}

func (r *quotationRepository) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status enum.QuotationStatus) error {
	return r.db.WithContext(ctx).Model(&entity.Quotation{}).
		Scopes(TenantScope(tenantID)).
		Where("id = ?", id).
		Update("status", status).Error
}

// Delete soft-deletes the quotation. Its number stays reserved.
func (r *quotationRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Scopes(TenantScope(tenantID)).
		Delete(&entity.Quotation{}, "id = ?", id).Error
}

func (r *quotationRepository) List(ctx context.Context, tenantID uuid.UUID, params *domainRepo.QuotationFilterParams) ([]entity.Quotation, int64, error) {
	var quotations []entity.Quotation
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Quotation{}).
		Scopes(TenantScope(tenantID), SearchScope(params.Search, "quotation_number", "customer_name", "title"))

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Scopes(OrderScope(params.SortBy, params.SortOrder, "sequence", "sequence", "issue_date", "total", "created_at")).
		Find(&quotations).Error

	return quotations, total, err
}

func (r *quotationRepository) ExpireOverdue(ctx context.Context, tenantID uuid.UUID, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Quotation{}).
		Scopes(TenantScope(tenantID)).
		Where("status IN ?", []enum.QuotationStatus{enum.QuotationStatusDraft, enum.QuotationStatusSent}).
		Where("valid_until IS NOT NULL AND valid_until < ?", now).
		Update("status", enum.QuotationStatusExpired)
	return result.RowsAffected, result.Error
}

// LatestNumber returns the number with the highest sequence for the tenant,
// soft-deleted rows included, or "" when the tenant has none.
func (r *quotationRepository) LatestNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	var numbers []string
	err := r.db.WithContext(ctx).Unscoped().
		Model(&entity.Quotation{}).
		Scopes(TenantScope(tenantID)).
		Order("sequence DESC").
		Limit(1).
		Pluck("quotation_number", &numbers).Error
	if err != nil || len(numbers) == 0 {
		return "", err
	}
	return numbers[0], nil
}

func (r *quotationRepository) NumberExists(ctx context.Context, tenantID uuid.UUID, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().
		Model(&entity.Quotation{}).
		Scopes(TenantScope(tenantID)).
		Where("quotation_number = ?", number).
		Count(&count).Error
	return count > 0, err
}
