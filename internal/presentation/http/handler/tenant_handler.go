package handler

import (
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/application/service"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/presentation/http/dto/request"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// TenantHandler handles tenant-related HTTP requests
type TenantHandler struct {
	tenantService *service.TenantService
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(tenantService *service.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// Register creates a new business. It is the only route reachable without a tenant.
func (h *TenantHandler) Register(c *gin.Context) {
	var req request.RegisterTenantRequest
	if !bindJSON(c, &req) {
		return
	}

	tenant, err := h.tenantService.RegisterTenant(c.Request.Context(), &service.RegisterTenantInput{
		Name:      req.Name,
		Slug:      req.Slug,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		TaxNumber: req.TaxNumber,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Tenant registered successfully", tenant)
}

// GetCurrentTenant returns the tenant resolved for this request
func (h *TenantHandler) GetCurrentTenant(c *gin.Context) {
	tenant, err := h.tenantService.GetCurrentTenant(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tenant retrieved successfully", tenant)
}

// UpdateCurrentTenant updates the current tenant's profile and document settings
func (h *TenantHandler) UpdateCurrentTenant(c *gin.Context) {
	var req request.UpdateTenantRequest
	if !bindJSON(c, &req) {
		return
	}

	tenant, err := h.tenantService.UpdateCurrentTenant(c.Request.Context(), &service.UpdateTenantInput{
		Name:              req.Name,
		Email:             req.Email,
		Phone:             req.Phone,
		Address:           req.Address,
		TaxNumber:         req.TaxNumber,
		Currency:          req.Currency,
		QuotationPrefix:   req.QuotationPrefix,
		DefaultTaxPercent: req.DefaultTaxPercent,
		TaxLabel:          req.TaxLabel,
		ValidityDays:      req.ValidityDays,
		Terms:             req.Terms,
		FooterNote:        req.FooterNote,
		PrimaryColor:      req.PrimaryColor,
		LogoURL:           req.LogoURL,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tenant updated successfully", tenant)
}
