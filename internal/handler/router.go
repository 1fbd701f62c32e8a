package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Raymond9734/crm-backend/internal/service"
)

// NewRouter registers every CRM route on a chi router
func NewRouter(services *service.Services, health *HealthHandler, logger *slog.Logger) http.Handler {
	customerHandler := NewCustomerHandler(services.Customers, logger)
	productHandler := NewProductHandler(services.Products, logger)
	orderHandler := NewOrderHandler(services.Orders, logger)

	r := chi.NewRouter()

	// Apply middleware
	r.Use(RecoveryMiddleware(logger))
	r.Use(LoggingMiddleware(logger))
	r.Use(CORSMiddleware)

	// Register routes
	r.Get("/health", health.Health)
	r.Get("/hello", health.Hello)

	r.Route("/customers", func(r chi.Router) {
		r.Post("/", customerHandler.CreateCustomer)
		r.Post("/bulk", customerHandler.BulkCreateCustomers)
		r.Get("/", customerHandler.ListCustomers)
		r.Get("/{id}", customerHandler.GetCustomer)
	})

	r.Route("/products", func(r chi.Router) {
		r.Post("/", productHandler.CreateProduct)
		r.Get("/", productHandler.ListProducts)
		r.Post("/low-stock/replenish", productHandler.ReplenishLowStock)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", orderHandler.CreateOrder)
		r.Get("/", orderHandler.ListOrders)
	})

	return r
}
