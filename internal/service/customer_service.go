package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/repository"
	"github.com/Raymond9734/crm-backend/internal/validation"
)

// CustomerService handles customer business logic
type CustomerService interface {
	Create(ctx context.Context, req *CreateCustomerRequest) (*CreateCustomerResult, error)
	BulkCreate(ctx context.Context, reqs []*CreateCustomerRequest) (*BulkCreateResult, error)
	GetByID(ctx context.Context, id int64) (*models.Customer, error)
	List(ctx context.Context, filter models.CustomerFilter) (*CustomerListResult, error)
}

type customerService struct {
	customerRepo repository.CustomerRepository
	txManager    repository.TxManager
	logger       *slog.Logger
}

// NewCustomerService creates a new customer service. Reads go through
// customerRepo; writes open their own scope on txManager.
func NewCustomerService(
	customerRepo repository.CustomerRepository,
	txManager repository.TxManager,
	logger *slog.Logger,
) CustomerService {
	return &customerService{
		customerRepo: customerRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// Create validates and persists one customer
func (s *customerService) Create(ctx context.Context, req *CreateCustomerRequest) (*CreateCustomerResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var customer *models.Customer
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, tx repository.Transaction) error {
		var err error
		customer, err = createCustomer(ctx, tx.Repositories().Customers, req)
		return err
	})
	if err != nil {
		err = asAppError("failed to create customer", err)
		if models.IsStorageFailure(err) {
			s.logger.Error("failed to create customer",
				slog.String("email", req.Email),
				slog.String("error", err.Error()),
			)
		}
		return nil, err
	}

	s.logger.Info("customer created",
		slog.Int64("customer_id", customer.ID),
		slog.String("email", customer.Email),
	)

	return &CreateCustomerResult{
		Customer: customer,
		Message:  MessageCustomerCreated,
	}, nil
}

// BulkCreate persists every acceptable record of the batch inside one
// transaction. Each record runs under its own savepoint, so a rejected
// record is reported in Errors and never blocks the others. Only a failure
// of the transaction scope itself fails the call.
func (s *customerService) BulkCreate(ctx context.Context, reqs []*CreateCustomerRequest) (*BulkCreateResult, error) {
	var result *BulkCreateResult

	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, tx repository.Transaction) error {
		result = &BulkCreateResult{
			Customers: []*models.Customer{},
			Errors:    []string{},
		}
		customers := tx.Repositories().Customers

		for i, req := range reqs {
			var created *models.Customer
			err := tx.Savepoint(ctx, func(ctx context.Context) error {
				if req == nil {
					return models.ErrInvalidInput("customer record is required")
				}
				if err := req.Validate(); err != nil {
					return err
				}
				var err error
				created, err = createCustomer(ctx, customers, req)
				return err
			})

			if errors.Is(err, repository.ErrScopeBroken) {
				return err
			}
			if err != nil {
				err = asAppError("failed to create customer", err)
				s.logger.Warn("bulk customer rejected",
					slog.Int("index", i),
					slog.String("error", err.Error()),
				)
				result.Errors = append(result.Errors, err.Error())
				continue
			}

			result.Customers = append(result.Customers, created)
		}

		return nil
	})
	if err != nil {
		s.logger.Error("bulk customer creation failed",
			slog.Int("records", len(reqs)),
			slog.String("error", err.Error()),
		)
		return nil, models.StorageFailure("failed to create customers", err)
	}

	s.logger.Info("bulk customers created",
		slog.Int("created", len(result.Customers)),
		slog.Int("rejected", len(result.Errors)),
	)

	return result, nil
}

// createCustomer applies the customer rules against the current state of
// repo and persists the record. The unique constraint catches a duplicate
// that slipped past the lookup.
func createCustomer(ctx context.Context, repo repository.CustomerRepository, req *CreateCustomerRequest) (*models.Customer, error) {
	if err := validation.EmailUniqueness(ctx, req.Email, repo.ExistsByEmail); err != nil {
		return nil, asAppError("failed to check email", err)
	}

	if err := validation.PhoneFormat(req.phone()); err != nil {
		return nil, err
	}

	customer := &models.Customer{
		Name:  req.Name,
		Email: req.Email,
	}
	if phone := req.phone(); phone != "" {
		customer.Phone = &phone
	}

	if err := repo.Create(ctx, customer); err != nil {
		if errors.Is(err, models.ErrAlreadyExists) {
			return nil, models.EmailTaken(req.Email)
		}
		return nil, models.StorageFailure("failed to create customer", err)
	}

	return customer, nil
}

// GetByID retrieves a customer by ID
func (s *customerService) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, asAppError("failed to get customer", err)
	}

	return customer, nil
}

// List retrieves customers with pagination
func (s *customerService) List(ctx context.Context, filter models.CustomerFilter) (*CustomerListResult, error) {
	models.NormalizePage(&filter.Page, &filter.PageSize)

	customers, totalCount, err := s.customerRepo.List(ctx, filter)
	if err != nil {
		return nil, models.StorageFailure("failed to list customers", err)
	}

	return &CustomerListResult{
		Data:       customers,
		Pagination: models.NewPaginationResult(filter.Page, filter.PageSize, totalCount),
	}, nil
}
