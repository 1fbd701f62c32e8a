package repository

import (
	"context"
	"testing"

	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRepository_CreateAndGetByIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(testutil.DB(t))

	laptop := &models.Product{Name: "Laptop", Price: decimal.RequireFromString("999.99"), Stock: 10}
	phone := &models.Product{Name: "Phone", Price: decimal.RequireFromString("499.99"), Stock: 25}
	require.NoError(t, repo.Create(ctx, laptop))
	require.NoError(t, repo.Create(ctx, phone))

	products, err := repo.GetByIDs(ctx, []int64{phone.ID, laptop.ID, 9999})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, laptop.ID, products[0].ID)
	assert.True(t, products[0].Price.Equal(decimal.RequireFromString("999.99")))
	assert.Equal(t, 10, products[0].Stock)

	products, err = repo.GetByIDs(ctx, []int64{laptop.ID, laptop.ID})
	require.NoError(t, err)
	assert.Len(t, products, 1)

	products, err = repo.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestProductRepository_GetByName(t *testing.T) {
	ctx := context.Background()
	database := testutil.DB(t)
	repo := NewProductRepository(database)
	id := testutil.InsertProduct(t, database, "Monitor", "299.99", 15)

	product, err := repo.GetByName(ctx, "Monitor")
	require.NoError(t, err)
	assert.Equal(t, id, product.ID)

	_, err = repo.GetByName(ctx, "Toaster")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestProductRepository_List(t *testing.T) {
	ctx := context.Background()
	database := testutil.DB(t)
	repo := NewProductRepository(database)
	testutil.InsertProduct(t, database, "Laptop", "999.99", 10)
	testutil.InsertProduct(t, database, "Phone", "499.99", 25)
	testutil.InsertProduct(t, database, "Headphones", "199.99", 50)
	testutil.InsertProduct(t, database, "Monitor", "299.99", 10)

	gte := decimal.RequireFromString("250")
	lte := decimal.RequireFromString("500")
	stock := 10

	tests := []struct {
		name   string
		filter models.ProductFilter
		want   []string
	}{
		{"all newest first", models.ProductFilter{}, []string{"Monitor", "Headphones", "Phone", "Laptop"}},
		{"price range", models.ProductFilter{PriceGTE: &gte, PriceLTE: &lte}, []string{"Monitor", "Phone"}},
		{"exact stock", models.ProductFilter{Stock: &stock}, []string{"Monitor", "Laptop"}},
		{"price and stock", models.ProductFilter{PriceGTE: &gte, Stock: &stock}, []string{"Monitor", "Laptop"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, total, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.want)), total)

			names := make([]string, 0, len(products))
			for _, p := range products {
				names = append(names, p.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestProductRepository_LowStockAndUpdate(t *testing.T) {
	ctx := context.Background()
	database := testutil.DB(t)
	repo := NewProductRepository(database)
	a := testutil.InsertProduct(t, database, "A", "1.00", 3)
	testutil.InsertProduct(t, database, "B", "1.00", 15)
	c := testutil.InsertProduct(t, database, "C", "1.00", 9)
	testutil.InsertProduct(t, database, "D", "1.00", 10)

	low, err := repo.ListBelowStock(ctx, 10)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, a, low[0].ID)
	assert.Equal(t, c, low[1].ID)

	updated, err := repo.UpdateStock(ctx, a, 13)
	require.NoError(t, err)
	assert.Equal(t, 13, updated.Stock)
	assert.Equal(t, "A", updated.Name)
	assert.Equal(t, 13, testutil.StockOf(t, database, a))

	_, err = repo.UpdateStock(ctx, 9999, 1)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestProductRepository_CheckConstraints(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(testutil.DB(t))

	err := repo.Create(ctx, &models.Product{Name: "Free", Price: decimal.Zero})
	assert.Error(t, err)

	err = repo.Create(ctx, &models.Product{Name: "Negative", Price: decimal.NewFromInt(1), Stock: -1})
	assert.Error(t, err)
}
