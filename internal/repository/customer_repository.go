package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Raymond9734/crm-backend/internal/models"
)

// CustomerRepository defines the interface for customer data access
type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id int64) (*models.Customer, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, filter models.CustomerFilter) ([]*models.Customer, int64, error)
}

// customerRepository implements CustomerRepository over SQL
type customerRepository struct {
	db DBTX
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db DBTX) CustomerRepository {
	return &customerRepository{db: db}
}

const customerColumns = `id, name, email, phone, created_at`

func scanCustomer(row interface{ Scan(...any) error }) (*models.Customer, error) {
	customer := &models.Customer{}
	var phone sql.NullString
	if err := row.Scan(
		&customer.ID,
		&customer.Name,
		&customer.Email,
		&phone,
		&customer.CreatedAt,
	); err != nil {
		return nil, err
	}
	if phone.Valid {
		customer.Phone = &phone.String
	}
	return customer, nil
}

// Create inserts a new customer. A duplicate email surfaces as
// models.ErrAlreadyExists.
func (r *customerRepository) Create(ctx context.Context, customer *models.Customer) error {
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = time.Now().UTC()
	}

	var phone sql.NullString
	if customer.HasPhone() {
		phone = sql.NullString{String: *customer.Phone, Valid: true}
	}

	query := `
		INSERT INTO customers (name, email, phone, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.db.QueryRowContext(
		ctx,
		query,
		customer.Name,
		customer.Email,
		phone,
		customer.CreatedAt,
	).Scan(&customer.ID)

	if isUniqueViolation(err) {
		return fmt.Errorf("failed to create customer: %w", models.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

// GetByID retrieves a customer by ID
func (r *customerRepository) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	customer, err := scanCustomer(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("customer with ID %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return customer, nil
}

// ExistsByEmail reports whether a customer with the exact email exists
func (r *customerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers WHERE email = $1`, email).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check customer email: %w", err)
	}
	return count > 0, nil
}

// List retrieves customers with pagination and filtering
func (r *customerRepository) List(ctx context.Context, filter models.CustomerFilter) ([]*models.Customer, int64, error) {
	models.NormalizePage(&filter.Page, &filter.PageSize)

	where := ` WHERE 1=1`
	args := []any{}
	argPos := 1

	if filter.NameContains != "" {
		where += fmt.Sprintf(" AND LOWER(name) LIKE $%d", argPos)
		args = append(args, likePattern(filter.NameContains))
		argPos++
	}

	if filter.CreatedAfter != nil {
		where += fmt.Sprintf(" AND created_at >= $%d", argPos)
		args = append(args, filter.CreatedAfter.UTC())
		argPos++
	}

	var totalCount int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`+where, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	offset := models.CalculateOffset(filter.Page, filter.PageSize)
	query := `SELECT ` + customerColumns + ` FROM customers` + where +
		fmt.Sprintf(" ORDER BY id DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	customers := []*models.Customer{}
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, customer)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating customers: %w", err)
	}

	return customers, totalCount, nil
}
