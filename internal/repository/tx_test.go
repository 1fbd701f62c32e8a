package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxManager_CommitAndRollback(t *testing.T) {
	ctx := context.Background()
	database := testutil.DB(t)
	txm := NewTxManager(database.DB, database.TxOptions())

	err := txm.WithTransaction(ctx, func(ctx context.Context, tx Transaction) error {
		return tx.Repositories().Customers.Create(ctx, &models.Customer{Name: "Alice", Email: "alice@example.com"})
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), testutil.Count(t, database, "customers"))

	boom := errors.New("boom")
	err = txm.WithTransaction(ctx, func(ctx context.Context, tx Transaction) error {
		if err := tx.Repositories().Customers.Create(ctx, &models.Customer{Name: "Bob", Email: "bob@example.com"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(1), testutil.Count(t, database, "customers"))
}

func TestTxManager_RollbackOnPanic(t *testing.T) {
	ctx := context.Background()
	database := testutil.DB(t)
	txm := NewTxManager(database.DB, database.TxOptions())

	assert.Panics(t, func() {
		_ = txm.WithTransaction(ctx, func(ctx context.Context, tx Transaction) error {
			_ = tx.Repositories().Customers.Create(ctx, &models.Customer{Name: "Bob", Email: "bob@example.com"})
			panic("kaboom")
		})
	})
	assert.Equal(t, int64(0), testutil.Count(t, database, "customers"))
}

func TestTransaction_SavepointIsolatesFailure(t *testing.T) {
	ctx := context.Background()
	database := testutil.DB(t)
	txm := NewTxManager(database.DB, database.TxOptions())
	rejected := errors.New("rejected")

	err := txm.WithTransaction(ctx, func(ctx context.Context, tx Transaction) error {
		customers := tx.Repositories().Customers

		require.NoError(t, tx.Savepoint(ctx, func(ctx context.Context) error {
			return customers.Create(ctx, &models.Customer{Name: "Alice", Email: "alice@example.com"})
		}))

		err := tx.Savepoint(ctx, func(ctx context.Context) error {
			if err := customers.Create(ctx, &models.Customer{Name: "Ghost", Email: "ghost@example.com"}); err != nil {
				return err
			}
			return rejected
		})
		require.ErrorIs(t, err, rejected)
		require.NotErrorIs(t, err, ErrScopeBroken)

		err = tx.Savepoint(ctx, func(ctx context.Context) error {
			return customers.Create(ctx, &models.Customer{Name: "Alice again", Email: "alice@example.com"})
		})
		require.ErrorIs(t, err, models.ErrAlreadyExists)

		return tx.Savepoint(ctx, func(ctx context.Context) error {
			return customers.Create(ctx, &models.Customer{Name: "Bob", Email: "bob@example.com"})
		})
	})
	require.NoError(t, err)

	repo := NewCustomerRepository(database)
	customers, total, err := repo.List(ctx, models.CustomerFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "bob@example.com", customers[0].Email)
	assert.Equal(t, "alice@example.com", customers[1].Email)
}
