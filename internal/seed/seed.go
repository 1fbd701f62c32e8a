// Package seed loads demo data through the validated services.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"

	"github.com/shopspring/decimal"

	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/service"
)

// Summary counts what a seed run did
type Summary struct {
	CustomersCreated int
	CustomersExisted int
	ProductsCreated  int
	ProductsExisted  int
	OrdersCreated    int
}

// Seeder writes fixtures through the services and reports progress to out
type Seeder struct {
	services *service.Services
	out      io.Writer
	rng      *rand.Rand
	logger   *slog.Logger
}

// NewSeeder creates a seeder. seed makes the random orders reproducible.
func NewSeeder(services *service.Services, out io.Writer, seed uint64, logger *slog.Logger) *Seeder {
	return &Seeder{
		services: services,
		out:      out,
		rng:      rand.New(rand.NewPCG(seed, seed)),
		logger:   logger,
	}
}

// Run gets or creates every fixture, then places orders random orders
func (s *Seeder) Run(ctx context.Context, fixtures *Fixtures, orders int) (*Summary, error) {
	summary := &Summary{}

	if err := s.seedCustomers(ctx, fixtures.Customers, summary); err != nil {
		return summary, err
	}
	if err := s.seedProducts(ctx, fixtures.Products, summary); err != nil {
		return summary, err
	}
	if err := s.seedOrders(ctx, orders, summary); err != nil {
		return summary, err
	}

	s.logger.Info("seed complete",
		slog.Int("customers_created", summary.CustomersCreated),
		slog.Int("products_created", summary.ProductsCreated),
		slog.Int("orders_created", summary.OrdersCreated),
	)
	return summary, nil
}

func (s *Seeder) seedCustomers(ctx context.Context, customers []CustomerFixture, summary *Summary) error {
	for _, c := range customers {
		req := &service.CreateCustomerRequest{Name: c.Name, Email: c.Email}
		if c.Phone != "" {
			phone := c.Phone
			req.Phone = &phone
		}

		_, err := s.services.Customers.Create(ctx, req)
		switch {
		case errors.Is(err, models.ErrEmailTaken):
			summary.CustomersExisted++
			fmt.Fprintf(s.out, "Customer already exists: %s\n", c.Name)
		case err != nil:
			return fmt.Errorf("customer %s: %w", c.Email, err)
		default:
			summary.CustomersCreated++
			fmt.Fprintf(s.out, "Created customer: %s\n", c.Name)
		}
	}
	return nil
}

func (s *Seeder) seedProducts(ctx context.Context, products []ProductFixture, summary *Summary) error {
	for _, p := range products {
		_, err := s.services.Products.GetByName(ctx, p.Name)
		if err == nil {
			summary.ProductsExisted++
			fmt.Fprintf(s.out, "Product already exists: %s\n", p.Name)
			continue
		}
		if !errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("product %s: %w", p.Name, err)
		}

		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return fmt.Errorf("product %s: invalid price %q", p.Name, p.Price)
		}

		if _, err := s.services.Products.Create(ctx, &service.CreateProductRequest{
			Name:  p.Name,
			Price: price,
			Stock: p.Stock,
		}); err != nil {
			return fmt.Errorf("product %s: %w", p.Name, err)
		}
		summary.ProductsCreated++
		fmt.Fprintf(s.out, "Created product: %s\n", p.Name)
	}
	return nil
}

func (s *Seeder) seedOrders(ctx context.Context, count int, summary *Summary) error {
	if count <= 0 {
		return nil
	}

	customers, err := s.services.Customers.List(ctx, models.CustomerFilter{PageSize: models.MaxPageSize})
	if err != nil {
		return err
	}
	products, err := s.services.Products.List(ctx, models.ProductFilter{PageSize: models.MaxPageSize})
	if err != nil {
		return err
	}

	if len(customers.Data) == 0 || len(products.Data) == 0 {
		fmt.Fprintln(s.out, "Seed customers and products before creating orders.")
		return nil
	}

	for i := 0; i < count; i++ {
		customer := customers.Data[s.rng.IntN(len(customers.Data))]

		perm := s.rng.Perm(len(products.Data))
		picked := perm[:1+s.rng.IntN(len(products.Data))]
		ids := make([]int64, 0, len(picked))
		for _, idx := range picked {
			ids = append(ids, products.Data[idx].ID)
		}

		order, err := s.services.Orders.Create(ctx, &service.CreateOrderRequest{
			CustomerID: customer.ID,
			ProductIDs: ids,
		})
		if err != nil {
			return fmt.Errorf("order for %s: %w", customer.Email, err)
		}
		summary.OrdersCreated++
		fmt.Fprintf(s.out, "Created order #%d for %s ($%s)\n", order.ID, customer.Name, order.TotalAmount.StringFixed(2))
	}
	return nil
}
