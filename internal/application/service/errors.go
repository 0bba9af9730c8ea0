package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/numbering"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/pricing"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/repository"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/tenantctx"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/pkg/apperror"
	"github.com/google/uuid"
)

var ErrInvalidTransition = errors.New("invalid quotation status transition")

// requireTenant extracts the tenant resolved by the HTTP layer
func requireTenant(ctx context.Context) (uuid.UUID, error) {
	tenantID, ok := tenantctx.TenantID(ctx)
	if !ok {
		return uuid.Nil, apperror.ErrTenantRequired
	}
	return tenantID, nil
}

// toAppError converts domain errors into client facing application errors.
// Errors that are already AppErrors pass through untouched.
func toAppError(err error) error {
	if err == nil || apperror.IsAppError(err) {
		return err
	}

	var lineErr *pricing.LineError
	switch {
	case errors.As(err, &lineErr):
		return apperror.NewValidationError([]apperror.FieldError{{
			Field:   fmt.Sprintf("items[%d].%s", lineErr.Index, lineErr.Field),
			Message: lineErr.Err.Error(),
		}})
	case errors.Is(err, pricing.ErrEmptyQuotation):
		return apperror.NewValidationError([]apperror.FieldError{{Field: "items", Message: err.Error()}})
	case errors.Is(err, numbering.ErrNumberAllocationFailed):
		return apperror.Wrap(http.StatusConflict, "Could not allocate a quotation number, please retry", err)
	case errors.Is(err, ErrInvalidTransition):
		return apperror.Wrap(http.StatusConflict, err.Error(), err)
	case errors.Is(err, repository.ErrDuplicate):
		return apperror.Wrap(http.StatusConflict, apperror.ErrConflict.Message, err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return apperror.Wrap(http.StatusServiceUnavailable, "Request timed out", err)
	}
	return err
}

func fieldError(field, message string) error {
	return apperror.NewValidationError([]apperror.FieldError{{Field: field, Message: message}})
}
