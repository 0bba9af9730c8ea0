package handler

import (
	"fmt"
	"net/http"

	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/application/service"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/enum"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/presentation/http/dto/request"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/presentation/http/dto/response"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/pkg/apperror"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/pkg/pagination"
	"github.com/gin-gonic/gin"
)

// QuotationHandler handles quotation-related HTTP requests
type QuotationHandler struct {
	quotationService *service.QuotationService
}

// NewQuotationHandler creates a new quotation handler
func NewQuotationHandler(quotationService *service.QuotationService) *QuotationHandler {
	return &QuotationHandler{quotationService: quotationService}
}

// List handles listing quotations
// @Summary List Quotations
// @Description Get the tenant's quotations with pagination and filtering
// @Tags quotations
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Param search query string false "Matches number, customer name or title"
// @Param status query string false "Status filter"
// @Param customer_id query string false "Customer filter"
// @Success 200 {object} response.APIResponse
// @Router /quotations [get]
func (h *QuotationHandler) List(c *gin.Context) {
	var req request.QuotationFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	input := &service.ListQuotationsInput{
		Pagination: pagination.FromQuery(req.Page, req.PerPage),
		Search:     req.Search,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	}

	if req.Status != "" {
		status, err := enum.ParseQuotationStatus(req.Status)
		if err != nil {
			response.BadRequest(c, "Invalid status filter")
			return
		}
		input.Status = &status
	}

	customerID, err := parseOptionalUUID("customer ID", req.CustomerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	input.CustomerID = customerID

	result, err := h.quotationService.ListQuotations(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Quotations retrieved successfully", result)
}

// Get handles getting a single quotation with its items
// @Summary Get Quotation
// @Tags quotations
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 200 {object} response.APIResponse
// @Router /quotations/{id} [get]
func (h *QuotationHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "quotation")
	if !ok {
		return
	}

	quotation, err := h.quotationService.GetQuotation(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quotation retrieved successfully", quotation)
}

// Create handles creating a quotation. The number is assigned by the server.
// @Summary Create Quotation
// @Tags quotations
// @Accept json
// @Produce json
// @Param request body request.QuotationRequest true "Quotation data"
// @Success 201 {object} response.APIResponse
// @Router /quotations [post]
func (h *QuotationHandler) Create(c *gin.Context) {
	var req request.QuotationRequest
	if !bindJSON(c, &req) {
		return
	}

	input, err := toQuotationInput(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	quotation, err := h.quotationService.CreateQuotation(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Quotation created successfully", quotation)
}

// Preview prices the submitted lines without saving them
func (h *QuotationHandler) Preview(c *gin.Context) {
	var req request.PreviewQuotationRequest
	if !bindJSON(c, &req) {
		return
	}

	preview, err := h.quotationService.Preview(c.Request.Context(), req.Currency, toItemInputs(req.Items))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quotation priced successfully", preview)
}

// Update replaces the editable fields and items of an open quotation
func (h *QuotationHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "quotation")
	if !ok {
		return
	}

	var req request.QuotationRequest
	if !bindJSON(c, &req) {
		return
	}

	input, err := toQuotationInput(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	quotation, err := h.quotationService.UpdateQuotation(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quotation updated successfully", quotation)
}

// UpdateStatus moves a quotation through its lifecycle
func (h *QuotationHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "quotation")
	if !ok {
		return
	}

	var req request.UpdateQuotationStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	status, err := enum.ParseQuotationStatus(req.Status)
	if err != nil {
		response.ValidationError(c, []apperror.FieldError{
			{Field: "status", Message: "must be one of draft, sent, accepted, rejected, expired"},
		})
		return
	}

	quotation, err := h.quotationService.UpdateQuotationStatus(c.Request.Context(), id, status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quotation status updated successfully", quotation)
}

// Delete handles deleting a quotation. Its number stays reserved.
func (h *QuotationHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "quotation")
	if !ok {
		return
	}

	if err := h.quotationService.DeleteQuotation(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quotation deleted successfully", nil)
}

// ExpireOverdue marks the tenant's overdue open quotations as expired
func (h *QuotationHandler) ExpireOverdue(c *gin.Context) {
	count, err := h.quotationService.ExpireOverdue(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Overdue quotations expired", gin.H{"expired": count})
}

// PDF streams the printable quotation document
// @Summary Download Quotation PDF
// @Tags quotations
// @Produce application/pdf
// @Param id path string true "Quotation ID"
// @Router /quotations/{id}/pdf [get]
func (h *QuotationHandler) PDF(c *gin.Context) {
	id, ok := parseID(c, "quotation")
	if !ok {
		return
	}

	doc, quotation, err := h.quotationService.RenderPDF(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", quotation.QuotationNumber+".pdf"))
	c.Data(http.StatusOK, "application/pdf", doc)
}

func toQuotationInput(req *request.QuotationRequest) (*service.QuotationInput, error) {
	issueDate, err := parseOptionalDate("issue_date", req.IssueDate)
	if err != nil {
		return nil, err
	}
	validUntil, err := parseOptionalDate("valid_until", req.ValidUntil)
	if err != nil {
		return nil, err
	}

	return &service.QuotationInput{
		CustomerID:   req.CustomerID,
		CustomerName: req.CustomerName,
		Title:        req.Title,
		Currency:     req.Currency,
		IssueDate:    issueDate,
		ValidUntil:   validUntil,
		Notes:        req.Notes,
		Terms:        req.Terms,
		Items:        toItemInputs(req.Items),
	}, nil
}

func toItemInputs(items []request.QuotationItemRequest) []service.QuotationItemInput {
	inputs := make([]service.QuotationItemInput, len(items))
	for i, item := range items {
		inputs[i] = service.QuotationItemInput{
			ProductID:       item.ProductID,
			Description:     item.Description,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			DiscountPercent: item.DiscountPercent,
			TaxPercent:      item.TaxPercent,
		}
	}
	return inputs
}
