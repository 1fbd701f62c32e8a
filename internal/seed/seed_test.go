package seed

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/Raymond9734/crm-backend/internal/db"
	"github.com/Raymond9734/crm-backend/internal/service"
	"github.com/Raymond9734/crm-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeeder(t *testing.T, out *bytes.Buffer) (*Seeder, *db.DB) {
	t.Helper()
	database := testutil.DB(t)
	logger := testutil.Logger(t)
	return NewSeeder(service.New(database, logger), out, 42, logger), database
}

func TestDefaultFixtures(t *testing.T) {
	fixtures, err := DefaultFixtures()
	require.NoError(t, err)
	require.Len(t, fixtures.Customers, 4)
	require.Len(t, fixtures.Products, 4)
	assert.Equal(t, "Alice", fixtures.Customers[0].Name)
	assert.Equal(t, "+1234567890", fixtures.Customers[0].Phone)
	assert.Equal(t, "999.99", fixtures.Products[0].Price)
}

func TestLoadFixtures_Rejects(t *testing.T) {
	_, err := LoadFixtures(strings.NewReader("customers:\n  - name: A\n    mail: a@example.com\n"))
	assert.Error(t, err)

	_, err = LoadFixtures(strings.NewReader("products:\n  - name: A\n    price: cheap\n"))
	assert.Error(t, err)

	fixtures, err := LoadFixtures(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, fixtures.Customers)
}

func TestSeeder_RunIsIdempotentForFixtures(t *testing.T) {
	ctx := context.Background()
	fixtures, err := DefaultFixtures()
	require.NoError(t, err)

	var out bytes.Buffer
	seeder, database := newSeeder(t, &out)

	summary, err := seeder.Run(ctx, fixtures, 5)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.CustomersCreated)
	assert.Equal(t, 4, summary.ProductsCreated)
	assert.Equal(t, 5, summary.OrdersCreated)
	assert.Contains(t, out.String(), "Created customer: Alice\n")
	assert.Contains(t, out.String(), "Created product: Monitor\n")
	assert.Contains(t, out.String(), "Created order #1 for ")

	out.Reset()
	summary, err = seeder.Run(ctx, fixtures, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.CustomersExisted)
	assert.Equal(t, 4, summary.ProductsExisted)
	assert.Equal(t, 0, summary.CustomersCreated)
	assert.Contains(t, out.String(), "Customer already exists: Bob\n")
	assert.Contains(t, out.String(), "Product already exists: Laptop\n")

	assert.Equal(t, int64(4), testutil.Count(t, database, "customers"))
	assert.Equal(t, int64(4), testutil.Count(t, database, "products"))
	assert.Equal(t, int64(5), testutil.Count(t, database, "orders"))
}

func TestSeeder_OrderTotalsMatchProducts(t *testing.T) {
	ctx := context.Background()
	fixtures, err := DefaultFixtures()
	require.NoError(t, err)

	var out bytes.Buffer
	seeder, database := newSeeder(t, &out)
	_, err = seeder.Run(ctx, fixtures, 3)
	require.NoError(t, err)

	var mismatches int
	err = database.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM orders o
		WHERE ABS(o.total_amount - (
			SELECT SUM(p.price) FROM order_products op
			JOIN products p ON p.id = op.product_id
			WHERE op.order_id = o.id)) > 0.001`).Scan(&mismatches)
	require.NoError(t, err)
	assert.Zero(t, mismatches)
}

func TestSeeder_OrdersNeedData(t *testing.T) {
	var out bytes.Buffer
	seeder, _ := newSeeder(t, &out)

	summary, err := seeder.Run(context.Background(), &Fixtures{}, 3)
	require.NoError(t, err)
	assert.Zero(t, summary.OrdersCreated)
	assert.Equal(t, "Seed customers and products before creating orders.\n", out.String())
}
