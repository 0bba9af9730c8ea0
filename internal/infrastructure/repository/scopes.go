package repository

import (
	"fmt"
	"strings"

	domainRepo "github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/repository"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/infrastructure/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TenantScope returns a GORM scope that filters by tenant.
// A nil tenant matches nothing so a missing tenant can never read across tenants.
func TenantScope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tenantID == uuid.Nil {
			return db.Where("1 = 0")
		}
		return db.Where("tenant_id = ?", tenantID)
	}
}

// SearchScope matches term case-insensitively against any of columns.
// LOWER/LIKE keeps the query portable between PostgreSQL and SQLite.
func SearchScope(term string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + strings.ToLower(term) + "%"
		clauses := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, col := range columns {
			clauses[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = pattern
		}
		return db.Where(strings.Join(clauses, " OR "), args...)
	}
}

// OrderScope sorts by sortBy when it is one of allowed, otherwise by fallback.
func OrderScope(sortBy, sortOrder, fallback string, allowed ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		column := fallback
		for _, a := range allowed {
			if a == sortBy {
				column = sortBy
				break
			}
		}
		direction := "DESC"
		if strings.EqualFold(sortOrder, "asc") {
			direction = "ASC"
		}
		return db.Order(column + " " + direction)
	}
}

// translateError maps unique violations onto domainRepo.ErrDuplicate
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if database.IsDuplicateKeyErr(err) {
		return fmt.Errorf("%w: %v", domainRepo.ErrDuplicate, err)
	}
	return err
}
