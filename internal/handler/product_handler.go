package handler

import (
	"log/slog"
	"net/http"

	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/service"
)

// ProductHandler handles product HTTP requests
type ProductHandler struct {
	productService service.ProductService
	logger         *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// CreateProductResponse is the body of a successful POST /products
type CreateProductResponse struct {
	Product *service.ProductResponse `json:"product"`
}

// ProductListResponse is a page of products
type ProductListResponse struct {
	Data       []*service.ProductResponse `json:"data"`
	Pagination models.PaginationResult    `json:"pagination"`
}

// LowStockResponse is the body of a replenishment reply
type LowStockResponse struct {
	UpdatedProducts []*service.ProductResponse `json:"updated_products"`
	Message         string                     `json:"message"`
}

// CreateProduct handles POST /products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req service.CreateProductRequest

	if !decodeJSON(w, r, &req) {
		return
	}

	product, err := h.productService.Create(r.Context(), &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondCreated(w, CreateProductResponse{Product: service.NewProductResponse(product)})
}

// ListProducts handles GET /products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	priceGTE, err := parseOptionalDecimal(query, "price_gte")
	if err != nil {
		handleError(w, err, h.logger)
		return
	}
	priceLTE, err := parseOptionalDecimal(query, "price_lte")
	if err != nil {
		handleError(w, err, h.logger)
		return
	}
	stock, err := parseOptionalInt(query, "stock")
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	page, pageSize := parsePage(query)
	filter := models.ProductFilter{
		PriceGTE: priceGTE,
		PriceLTE: priceLTE,
		Stock:    stock,
		Page:     page,
		PageSize: pageSize,
	}

	result, err := h.productService.List(r.Context(), filter)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, ProductListResponse{
		Data:       service.NewProductResponses(result.Data),
		Pagination: result.Pagination,
	})
}

// ReplenishLowStock handles POST /products/low-stock/replenish
func (h *ProductHandler) ReplenishLowStock(w http.ResponseWriter, r *http.Request) {
	result, err := h.productService.UpdateLowStockProducts(r.Context())
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, LowStockResponse{
		UpdatedProducts: service.NewProductResponses(result.UpdatedProducts),
		Message:         result.Message,
	})
}
