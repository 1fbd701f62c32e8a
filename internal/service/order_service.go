package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/repository"
)

// OrderService handles order business logic
type OrderService interface {
	Create(ctx context.Context, req *CreateOrderRequest) (*models.Order, error)
	List(ctx context.Context, filter models.OrderFilter) (*OrderListResult, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	txManager repository.TxManager
	now       func() time.Time
	logger    *slog.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo repository.OrderRepository,
	txManager repository.TxManager,
	logger *slog.Logger,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		txManager: txManager,
		now:       time.Now,
		logger:    logger,
	}
}

// Create checks the customer and products, totals the current prices and
// persists the order with its associations in one transaction. A repeated
// product id counts as a mismatch and fails with InvalidProductIDs.
func (s *orderService) Create(ctx context.Context, req *CreateOrderRequest) (*models.Order, error) {
	var order *models.Order

	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, tx repository.Transaction) error {
		repos := tx.Repositories()

		customer, err := repos.Customers.GetByID(ctx, req.CustomerID)
		if errors.Is(err, models.ErrNotFound) {
			return models.CustomerNotFound(req.CustomerID)
		}
		if err != nil {
			return models.StorageFailure("failed to get customer", err)
		}

		if len(req.ProductIDs) == 0 {
			return models.EmptyProductList()
		}

		products, err := repos.Products.GetByIDs(ctx, req.ProductIDs)
		if err != nil {
			return models.StorageFailure("failed to get products", err)
		}
		if len(products) != len(req.ProductIDs) {
			return models.InvalidProductIDs()
		}

		order = &models.Order{
			CustomerID:  customer.ID,
			TotalAmount: models.SumPrices(products),
			OrderDate:   s.now().UTC(),
			Customer:    customer,
			Products:    products,
		}

		if err := repos.Orders.Create(ctx, order); err != nil {
			return models.StorageFailure("failed to create order", err)
		}
		return nil
	})
	if err != nil {
		err = asAppError("failed to create order", err)
		if models.IsStorageFailure(err) {
			s.logger.Error("failed to create order",
				slog.Int64("customer_id", req.CustomerID),
				slog.String("error", err.Error()),
			)
		}
		return nil, err
	}

	s.logger.Info("order created",
		slog.Int64("order_id", order.ID),
		slog.Int64("customer_id", order.CustomerID),
		slog.String("total_amount", order.TotalAmount.StringFixed(2)),
	)

	return order, nil
}

// List retrieves orders with their customer and products
func (s *orderService) List(ctx context.Context, filter models.OrderFilter) (*OrderListResult, error) {
	models.NormalizePage(&filter.Page, &filter.PageSize)

	orders, totalCount, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, models.StorageFailure("failed to list orders", err)
	}

	return &OrderListResult{
		Data:       orders,
		Pagination: models.NewPaginationResult(filter.Page, filter.PageSize, totalCount),
	}, nil
}
