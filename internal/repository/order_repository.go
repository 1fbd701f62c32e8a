package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Raymond9734/crm-backend/internal/models"
)

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	List(ctx context.Context, filter models.OrderFilter) ([]*models.Order, int64, error)
}

// orderRepository implements OrderRepository over SQL
type orderRepository struct {
	db DBTX
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db DBTX) OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts the order row and one association row per product. It
// should run inside a transaction so both writes land together.
func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	if len(order.Products) == 0 {
		return fmt.Errorf("failed to create order: %w", models.ErrEmptyProductList)
	}
	if order.OrderDate.IsZero() {
		order.OrderDate = time.Now().UTC()
	}

	query := `
		INSERT INTO orders (customer_id, total_amount, order_date)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := r.db.QueryRowContext(
		ctx,
		query,
		order.CustomerID,
		order.TotalAmount,
		order.OrderDate,
	).Scan(&order.ID)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	values := make([]string, 0, len(order.Products))
	args := make([]any, 0, 2*len(order.Products))
	for i, product := range order.Products {
		values = append(values, fmt.Sprintf("($%d, $%d)", 2*i+1, 2*i+2))
		args = append(args, order.ID, product.ID)
	}

	linkQuery := `INSERT INTO order_products (order_id, product_id) VALUES ` + strings.Join(values, ", ")
	if _, err := r.db.ExecContext(ctx, linkQuery, args...); err != nil {
		return fmt.Errorf("failed to link order products: %w", err)
	}

	return nil
}

// List retrieves orders with their customer and products loaded
func (r *orderRepository) List(ctx context.Context, filter models.OrderFilter) ([]*models.Order, int64, error) {
	models.NormalizePage(&filter.Page, &filter.PageSize)

	where := ` WHERE 1=1`
	args := []any{}
	argPos := 1

	if filter.CustomerName != "" {
		where += fmt.Sprintf(" AND LOWER(c.name) LIKE $%d", argPos)
		args = append(args, likePattern(filter.CustomerName))
		argPos++
	}

	if filter.ProductName != "" {
		where += fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM order_products op
			JOIN products p ON p.id = op.product_id
			WHERE op.order_id = o.id AND LOWER(p.name) LIKE $%d)`, argPos)
		args = append(args, likePattern(filter.ProductName))
		argPos++
	}

	if filter.TotalAmountGTE != nil {
		where += fmt.Sprintf(" AND o.total_amount >= $%d", argPos)
		args = append(args, *filter.TotalAmountGTE)
		argPos++
	}

	if filter.OrderDateGTE != nil {
		where += fmt.Sprintf(" AND o.order_date >= $%d", argPos)
		args = append(args, filter.OrderDateGTE.UTC())
		argPos++
	}

	from := ` FROM orders o JOIN customers c ON c.id = o.customer_id`

	var totalCount int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*)`+from+where, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := models.CalculateOffset(filter.Page, filter.PageSize)
	query := `
		SELECT o.id, o.customer_id, o.total_amount, o.order_date,
			c.id, c.name, c.email, c.phone, c.created_at` + from + where +
		fmt.Sprintf(" ORDER BY o.id DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*models.Order{}
	byID := make(map[int64]*models.Order)
	for rows.Next() {
		order := &models.Order{Customer: &models.Customer{}, Products: []*models.Product{}}
		var phone sql.NullString
		err := rows.Scan(
			&order.ID,
			&order.CustomerID,
			&order.TotalAmount,
			&order.OrderDate,
			&order.Customer.ID,
			&order.Customer.Name,
			&order.Customer.Email,
			&phone,
			&order.Customer.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}
		if phone.Valid {
			order.Customer.Phone = &phone.String
		}
		orders = append(orders, order)
		byID[order.ID] = order
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating orders: %w", err)
	}
	rows.Close()

	if err := r.loadProducts(ctx, byID); err != nil {
		return nil, 0, err
	}

	return orders, totalCount, nil
}

// loadProducts attaches associated products to the given orders in one query
func (r *orderRepository) loadProducts(ctx context.Context, byID map[int64]*models.Order) error {
	if len(byID) == 0 {
		return nil
	}

	args := make([]any, 0, len(byID))
	for id := range byID {
		args = append(args, id)
	}

	query := `
		SELECT op.order_id, p.id, p.name, p.price, p.stock, p.created_at
		FROM order_products op
		JOIN products p ON p.id = op.product_id
		WHERE op.order_id IN (` + placeholders(1, len(args)) + `)
		ORDER BY op.order_id, p.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to load order products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID int64
		product := &models.Product{}
		err := rows.Scan(
			&orderID,
			&product.ID,
			&product.Name,
			&product.Price,
			&product.Stock,
			&product.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to scan order product: %w", err)
		}
		if order, ok := byID[orderID]; ok {
			order.Products = append(order.Products, product)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating order products: %w", err)
	}

	return nil
}
