package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/validation"
)

// Result messages
const (
	MessageCustomerCreated   = "Customer created successfully!"
	MessageLowStockUpdated   = "Low stock products updated successfully"
	MessageNoLowStockProduct = "No low stock products found"
)

// CreateCustomerRequest represents a request to create a customer
type CreateCustomerRequest struct {
	Name  string  `json:"name" validate:"required"`
	Email string  `json:"email" validate:"required"`
	Phone *string `json:"phone,omitempty"`
}

// Validate checks the request shape. Business rules run in the service.
func (r *CreateCustomerRequest) Validate() error {
	return validation.Struct(r)
}

func (r *CreateCustomerRequest) phone() string {
	if r.Phone == nil {
		return ""
	}
	return *r.Phone
}

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

// Validate checks the request shape
func (r *CreateProductRequest) Validate() error {
	return validation.Struct(r)
}

// CreateOrderRequest represents a request to place an order
type CreateOrderRequest struct {
	CustomerID int64   `json:"customer_id"`
	ProductIDs []int64 `json:"product_ids"`
}

// CreateCustomerResult is the outcome of a single customer creation
type CreateCustomerResult struct {
	Customer *models.Customer
	Message  string
}

// BulkCreateResult holds the customers created by a batch in submission
// order, and one message per rejected record.
type BulkCreateResult struct {
	Customers []*models.Customer
	Errors    []string
}

// LowStockResult is the outcome of a replenishment run
type LowStockResult struct {
	UpdatedProducts []*models.Product
	Message         string
}

// CustomerListResult represents paginated customer list results
type CustomerListResult struct {
	Data       []*models.Customer
	Pagination models.PaginationResult
}

// ProductListResult represents paginated product list results
type ProductListResult struct {
	Data       []*models.Product
	Pagination models.PaginationResult
}

// OrderListResult represents paginated order list results
type OrderListResult struct {
	Data       []*models.Order
	Pagination models.PaginationResult
}

// CustomerResponse is the public shape of a customer
type CustomerResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductResponse is the public shape of a product. Price is a fixed
// two-decimal string.
type ProductResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderResponse is the public shape of an order
type OrderResponse struct {
	ID          int64              `json:"id"`
	Customer    *CustomerResponse  `json:"customer"`
	Products    []*ProductResponse `json:"products"`
	TotalAmount string             `json:"total_amount"`
	OrderDate   time.Time          `json:"order_date"`
}

// NewCustomerResponse maps a stored customer to its public shape
func NewCustomerResponse(c *models.Customer) *CustomerResponse {
	if c == nil {
		return nil
	}
	return &CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
	}
}

// NewCustomerResponses maps a slice of customers
func NewCustomerResponses(customers []*models.Customer) []*CustomerResponse {
	out := make([]*CustomerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, NewCustomerResponse(c))
	}
	return out
}

// NewProductResponse maps a stored product to its public shape
func NewProductResponse(p *models.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	return &ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price.StringFixed(2),
		Stock:     p.Stock,
		CreatedAt: p.CreatedAt,
	}
}

// NewProductResponses maps a slice of products
func NewProductResponses(products []*models.Product) []*ProductResponse {
	out := make([]*ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, NewProductResponse(p))
	}
	return out
}

// NewOrderResponse maps a stored order and its associations
func NewOrderResponse(o *models.Order) *OrderResponse {
	if o == nil {
		return nil
	}
	return &OrderResponse{
		ID:          o.ID,
		Customer:    NewCustomerResponse(o.Customer),
		Products:    NewProductResponses(o.Products),
		TotalAmount: o.TotalAmount.StringFixed(2),
		OrderDate:   o.OrderDate,
	}
}

// NewOrderResponses maps a slice of orders
func NewOrderResponses(orders []*models.Order) []*OrderResponse {
	out := make([]*OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, NewOrderResponse(o))
	}
	return out
}
