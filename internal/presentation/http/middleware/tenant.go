package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/entity"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/presentation/http/dto/response"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/tenantctx"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TenantHeader carries the tenant ID or slug on API requests
const TenantHeader = "X-Tenant-ID"

const (
	tenantIDKey = "tenant_id"
	tenantKey   = "tenant"
)

// TenantResolver looks a tenant up by ID or slug. A nil tenant means not found.
type TenantResolver interface {
	ResolveTenant(ctx context.Context, ref string) (*entity.Tenant, error)
}

// ExtractTenantFromHost extracts tenant slug from subdomain
// e.g., "acme.quotes.example.com" -> "acme"
func ExtractTenantFromHost(host string) (string, error) {
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		host = host[:idx]
	}

	parts := strings.Split(host, ".")
	if len(parts) < 3 || parts[0] == "" || parts[0] == "www" {
		return "", errors.New("invalid subdomain")
	}
	return parts[0], nil
}

// TenantMiddleware resolves the tenant from the X-Tenant-ID header, falling
// back to the subdomain, and places it on both the gin and request contexts.
// Requests without a resolvable tenant are rejected.
func TenantMiddleware(resolver TenantResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref := strings.TrimSpace(c.GetHeader(TenantHeader))
		if ref == "" {
			if slug, err := ExtractTenantFromHost(c.Request.Host); err == nil {
				ref = slug
			}
		}
		if ref == "" {
			response.Error(c, apperror.ErrTenantRequired)
			c.Abort()
			return
		}

		tenant, err := resolver.ResolveTenant(c.Request.Context(), ref)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if tenant == nil {
			response.NotFound(c, "Tenant not found")
			c.Abort()
			return
		}

		c.Set(tenantIDKey, tenant.ID)
		c.Set(tenantKey, tenant)

		ctx := tenantctx.WithTenantID(c.Request.Context(), tenant.ID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetTenantID retrieves the tenant ID from gin context
func GetTenantID(c *gin.Context) uuid.UUID {
	tenantID, exists := c.Get(tenantIDKey)
	if !exists {
		return uuid.Nil
	}
	id, ok := tenantID.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
