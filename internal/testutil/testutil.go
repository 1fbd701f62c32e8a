package testutil

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/Raymond9734/crm-backend/internal/db"
	"github.com/shopspring/decimal"
)

// Logger returns a logger that discards everything
func Logger(tb testing.TB) *slog.Logger {
	tb.Helper()
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// DB opens a migrated SQLite database in a per-test temp directory. It is
// closed automatically when the test ends.
func DB(tb testing.TB) *db.DB {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "crm_test.db")
	database, err := db.New(db.Config{Driver: db.DriverSQLite, Path: path})
	if err != nil {
		tb.Fatalf("failed to open test db: %v", err)
	}
	tb.Cleanup(func() { _ = database.Close() })

	if err := database.Migrate(context.Background()); err != nil {
		tb.Fatalf("failed to migrate test db: %v", err)
	}
	return database
}

// InsertCustomer writes a customer row directly and returns its id
func InsertCustomer(tb testing.TB, database *db.DB, name, email string) int64 {
	tb.Helper()

	var id int64
	err := database.QueryRowContext(context.Background(),
		`INSERT INTO customers (name, email, created_at) VALUES ($1, $2, $3) RETURNING id`,
		name, email, time.Now().UTC(),
	).Scan(&id)
	if err != nil {
		tb.Fatalf("failed to insert customer %s: %v", email, err)
	}
	return id
}

// InsertProduct writes a product row directly and returns its id
func InsertProduct(tb testing.TB, database *db.DB, name, price string, stock int) int64 {
	tb.Helper()

	var id int64
	err := database.QueryRowContext(context.Background(),
		`INSERT INTO products (name, price, stock, created_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		name, decimal.RequireFromString(price), stock, time.Now().UTC(),
	).Scan(&id)
	if err != nil {
		tb.Fatalf("failed to insert product %s: %v", name, err)
	}
	return id
}

// Count returns the number of rows in table
func Count(tb testing.TB, database *db.DB, table string) int64 {
	tb.Helper()

	var n int64
	if err := database.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		tb.Fatalf("failed to count %s: %v", table, err)
	}
	return n
}

// StockOf returns the current stock of a product
func StockOf(tb testing.TB, database *db.DB, productID int64) int {
	tb.Helper()

	var stock int
	err := database.QueryRowContext(context.Background(),
		`SELECT stock FROM products WHERE id = $1`, productID,
	).Scan(&stock)
	if err != nil {
		tb.Fatalf("failed to read stock of product %d: %v", productID, err)
	}
	return stock
}
