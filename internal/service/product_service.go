package service

import (
	"context"
	"log/slog"

	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/repository"
	"github.com/Raymond9734/crm-backend/internal/validation"
)

// ReplenishmentPolicy raises the stock of every product below Threshold by
// Amount.
type ReplenishmentPolicy struct {
	Threshold int
	Amount    int
}

// DefaultReplenishmentPolicy restocks products under 10 units by 10
var DefaultReplenishmentPolicy = ReplenishmentPolicy{Threshold: 10, Amount: 10}

// ProductService handles product business logic
type ProductService interface {
	Create(ctx context.Context, req *CreateProductRequest) (*models.Product, error)
	GetByName(ctx context.Context, name string) (*models.Product, error)
	List(ctx context.Context, filter models.ProductFilter) (*ProductListResult, error)
	UpdateLowStockProducts(ctx context.Context) (*LowStockResult, error)
}

type productService struct {
	productRepo repository.ProductRepository
	txManager   repository.TxManager
	policy      ReplenishmentPolicy
	logger      *slog.Logger
}

// NewProductService creates a new product service
func NewProductService(
	productRepo repository.ProductRepository,
	txManager repository.TxManager,
	policy ReplenishmentPolicy,
	logger *slog.Logger,
) ProductService {
	return &productService{
		productRepo: productRepo,
		txManager:   txManager,
		policy:      policy,
		logger:      logger,
	}
}

// Create validates and persists one product
func (s *productService) Create(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := validation.PriceValid(req.Price); err != nil {
		return nil, err
	}
	if err := validation.StockInRange(req.Stock); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:  req.Name,
		Price: req.Price,
		Stock: req.Stock,
	}

	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, tx repository.Transaction) error {
		return tx.Repositories().Products.Create(ctx, product)
	})
	if err != nil {
		s.logger.Error("failed to create product",
			slog.String("name", req.Name),
			slog.String("error", err.Error()),
		)
		return nil, models.StorageFailure("failed to create product", err)
	}

	s.logger.Info("product created",
		slog.Int64("product_id", product.ID),
		slog.String("name", product.Name),
	)

	return product, nil
}

// GetByName retrieves the first product with the exact name
func (s *productService) GetByName(ctx context.Context, name string) (*models.Product, error) {
	product, err := s.productRepo.GetByName(ctx, name)
	if err != nil {
		return nil, asAppError("failed to get product", err)
	}

	return product, nil
}

// List retrieves products with pagination
func (s *productService) List(ctx context.Context, filter models.ProductFilter) (*ProductListResult, error) {
	models.NormalizePage(&filter.Page, &filter.PageSize)

	products, totalCount, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, models.StorageFailure("failed to list products", err)
	}

	return &ProductListResult{
		Data:       products,
		Pagination: models.NewPaginationResult(filter.Page, filter.PageSize, totalCount),
	}, nil
}

// UpdateLowStockProducts applies the replenishment policy. Updates are
// independent writes; the first failure aborts the run and is returned.
func (s *productService) UpdateLowStockProducts(ctx context.Context) (*LowStockResult, error) {
	lowStock, err := s.productRepo.ListBelowStock(ctx, s.policy.Threshold)
	if err != nil {
		s.logger.Error("failed to list low stock products", slog.String("error", err.Error()))
		return nil, models.StorageFailure("failed to list low stock products", err)
	}

	updated := make([]*models.Product, 0, len(lowStock))
	for _, product := range lowStock {
		restocked, err := s.productRepo.UpdateStock(ctx, product.ID, product.Stock+s.policy.Amount)
		if err != nil {
			s.logger.Error("failed to replenish product",
				slog.Int64("product_id", product.ID),
				slog.String("error", err.Error()),
			)
			return nil, models.StorageFailure("failed to update product stock", err)
		}
		updated = append(updated, restocked)
	}

	if len(updated) == 0 {
		return &LowStockResult{UpdatedProducts: updated, Message: MessageNoLowStockProduct}, nil
	}

	s.logger.Info("low stock products replenished", slog.Int("updated", len(updated)))

	return &LowStockResult{UpdatedProducts: updated, Message: MessageLowStockUpdated}, nil
}
