package handler

import (
	"log/slog"
	"net/http"

	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/service"
)

// OrderHandler handles order HTTP requests
type OrderHandler struct {
	orderService service.OrderService
	logger       *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService service.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// CreateOrderResponse is the body of a successful POST /orders
type CreateOrderResponse struct {
	Order *service.OrderResponse `json:"order"`
}

// OrderListResponse is a page of orders
type OrderListResponse struct {
	Data       []*service.OrderResponse `json:"data"`
	Pagination models.PaginationResult  `json:"pagination"`
}

// CreateOrder handles POST /orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req service.CreateOrderRequest

	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := h.orderService.Create(r.Context(), &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondCreated(w, CreateOrderResponse{Order: service.NewOrderResponse(order)})
}

// ListOrders handles GET /orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	totalGTE, err := parseOptionalDecimal(query, "total_amount_gte")
	if err != nil {
		handleError(w, err, h.logger)
		return
	}
	orderDateGTE, err := parseOptionalTime(query, "order_date_gte")
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	page, pageSize := parsePage(query)
	filter := models.OrderFilter{
		CustomerName:   query.Get("customer_name"),
		ProductName:    query.Get("product_name"),
		TotalAmountGTE: totalGTE,
		OrderDateGTE:   orderDateGTE,
		Page:           page,
		PageSize:       pageSize,
	}

	result, err := h.orderService.List(r.Context(), filter)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, OrderListResponse{
		Data:       service.NewOrderResponses(result.Data),
		Pagination: result.Pagination,
	})
}
