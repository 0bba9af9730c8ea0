package handler

import (
	"net/http"

	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/application/service"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/enum"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/presentation/http/dto/request"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/presentation/http/dto/response"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/pkg/pagination"
	"github.com/gin-gonic/gin"
)

// ProductHandler handles catalog HTTP requests
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List handles listing products
func (h *ProductHandler) List(c *gin.Context) {
	var filter request.ProductFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	input := &service.ListProductsInput{
		Pagination: pagination.FromQuery(filter.Page, filter.PerPage),
		Search:     filter.Search,
		ActiveOnly: filter.ActiveOnly,
		SortBy:     filter.SortBy,
		SortOrder:  filter.SortOrder,
	}

	if filter.Type != "" {
		itemType, err := enum.ParseItemType(filter.Type)
		if err != nil {
			response.BadRequest(c, "Invalid type filter")
			return
		}
		input.Type = &itemType
	}

	result, err := h.productService.ListProducts(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Products retrieved successfully", result)
}

// Get handles getting a single product
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "product")
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", product)
}

// Create handles creating a product
func (h *ProductHandler) Create(c *gin.Context) {
	var req request.ProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), toProductInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Product created successfully", product)
}

// Update handles updating a product. Existing quotations keep their price snapshot.
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "product")
	if !ok {
		return
	}

	var req request.ProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), id, toProductInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product updated successfully", product)
}

// Delete handles deleting a product
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "product")
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product deleted successfully", nil)
}

func toProductInput(req *request.ProductRequest) *service.ProductInput {
	return &service.ProductInput{
		Code:        req.Code,
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		Unit:        req.Unit,
		UnitPrice:   req.UnitPrice,
		TaxPercent:  req.TaxPercent,
		IsActive:    req.IsActive,
	}
}
