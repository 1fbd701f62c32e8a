package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/service"
)

// CustomerHandler handles customer HTTP requests
type CustomerHandler struct {
	customerService service.CustomerService
	logger          *slog.Logger
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService service.CustomerService, logger *slog.Logger) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		logger:          logger,
	}
}

// CreateCustomerResponse is the body of a successful POST /customers
type CreateCustomerResponse struct {
	Customer *service.CustomerResponse `json:"customer"`
	Message  string                    `json:"message"`
}

// BulkCreateCustomersRequest is the body of POST /customers/bulk
type BulkCreateCustomersRequest struct {
	Customers []*service.CreateCustomerRequest `json:"customers"`
}

// BulkCreateCustomersResponse is the body of a POST /customers/bulk reply
type BulkCreateCustomersResponse struct {
	Customers []*service.CustomerResponse `json:"customers"`
	Errors    []string                    `json:"errors"`
}

// CustomerListResponse is a page of customers
type CustomerListResponse struct {
	Data       []*service.CustomerResponse `json:"data"`
	Pagination models.PaginationResult     `json:"pagination"`
}

// CreateCustomer handles POST /customers
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCustomerRequest

	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.customerService.Create(r.Context(), &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondCreated(w, CreateCustomerResponse{
		Customer: service.NewCustomerResponse(result.Customer),
		Message:  result.Message,
	})
}

// BulkCreateCustomers handles POST /customers/bulk
func (h *CustomerHandler) BulkCreateCustomers(w http.ResponseWriter, r *http.Request) {
	var req BulkCreateCustomersRequest

	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.customerService.BulkCreate(r.Context(), req.Customers)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, BulkCreateCustomersResponse{
		Customers: service.NewCustomerResponses(result.Customers),
		Errors:    result.Errors,
	})
}

// ListCustomers handles GET /customers
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	createdAfter, err := parseOptionalTime(query, "created_at_gte")
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	page, pageSize := parsePage(query)
	filter := models.CustomerFilter{
		NameContains: query.Get("name"),
		CreatedAfter: createdAfter,
		Page:         page,
		PageSize:     pageSize,
	}

	result, err := h.customerService.List(r.Context(), filter)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, CustomerListResponse{
		Data:       service.NewCustomerResponses(result.Data),
		Pagination: result.Pagination,
	})
}

// GetCustomer handles GET /customers/{id}
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeInvalidID, "Invalid customer ID")
		return
	}

	customer, err := h.customerService.GetByID(r.Context(), id)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, service.NewCustomerResponse(customer))
}
