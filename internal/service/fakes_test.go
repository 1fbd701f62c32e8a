package service

import (
	"context"
	"errors"

	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/repository"
)

var errDiskFull = errors.New("disk full")

// faultyTxManager rebinds the repositories of every scope through wrap
type faultyTxManager struct {
	inner     repository.TxManager
	wrap      func(repository.Repositories) repository.Repositories
	savepoint func(ctx context.Context, fn func(ctx context.Context) error) error
	beginErr  error
}

func (m *faultyTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.Transaction) error) error {
	if m.beginErr != nil {
		return m.beginErr
	}
	return m.inner.WithTransaction(ctx, func(ctx context.Context, tx repository.Transaction) error {
		return fn(ctx, &faultyTx{Transaction: tx, manager: m})
	})
}

type faultyTx struct {
	repository.Transaction
	manager *faultyTxManager
}

func (t *faultyTx) Repositories() repository.Repositories {
	repos := t.Transaction.Repositories()
	if t.manager.wrap != nil {
		repos = t.manager.wrap(repos)
	}
	return repos
}

func (t *faultyTx) Savepoint(ctx context.Context, fn func(ctx context.Context) error) error {
	if t.manager.savepoint != nil {
		return t.manager.savepoint(ctx, fn)
	}
	return t.Transaction.Savepoint(ctx, fn)
}

// failingCustomerRepo fails Create for one email
type failingCustomerRepo struct {
	repository.CustomerRepository
	failEmail string
}

func (r *failingCustomerRepo) Create(ctx context.Context, customer *models.Customer) error {
	if customer.Email == r.failEmail {
		return errDiskFull
	}
	return r.CustomerRepository.Create(ctx, customer)
}

// blindCustomerRepo never sees existing emails, leaving the unique
// constraint as the only guard
type blindCustomerRepo struct {
	repository.CustomerRepository
}

func (r *blindCustomerRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return false, nil
}

// failingProductRepo fails UpdateStock for one product
type failingProductRepo struct {
	repository.ProductRepository
	failID int64
}

func (r *failingProductRepo) UpdateStock(ctx context.Context, id int64, stock int) (*models.Product, error) {
	if id == r.failID {
		return nil, errDiskFull
	}
	return r.ProductRepository.UpdateStock(ctx, id, stock)
}

// failingOrderRepo fails every order insert after the order row is written
type failingOrderRepo struct {
	repository.OrderRepository
}

func (r *failingOrderRepo) Create(ctx context.Context, order *models.Order) error {
	if err := r.OrderRepository.Create(ctx, order); err != nil {
		return err
	}
	return errDiskFull
}
