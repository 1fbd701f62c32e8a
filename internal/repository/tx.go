package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrScopeBroken is returned when a transaction scope can no longer be used,
// for example because rolling back to a savepoint failed.
var ErrScopeBroken = errors.New("transaction scope broken")

// Transaction is an open write scope
type Transaction interface {
	// Repositories returns repositories bound to this scope
	Repositories() Repositories

	// Savepoint runs fn as an isolated sub-operation. When fn fails its writes
	// are rolled back and the scope stays usable; fn's error is returned.
	Savepoint(ctx context.Context, fn func(ctx context.Context) error) error
}

// TxManager opens transaction scopes
type TxManager interface {
	// WithTransaction runs fn inside a transaction. The transaction is
	// committed when fn returns nil and rolled back on error or panic.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

type sqlTxManager struct {
	db   *sql.DB
	opts *sql.TxOptions
}

// NewTxManager creates a TxManager over db. opts may be nil.
func NewTxManager(db *sql.DB, opts *sql.TxOptions) TxManager {
	return &sqlTxManager{db: db, opts: opts}
}

func (m *sqlTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error {
	sqlTx, err := m.db.BeginTx(ctx, m.opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = sqlTx.Rollback() // Rollback is safe to call even after Commit
	}()

	tx := &sqlTransaction{tx: sqlTx, repos: NewRepositories(sqlTx)}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

type sqlTransaction struct {
	tx    *sql.Tx
	repos Repositories
	seq   int
}

func (t *sqlTransaction) Repositories() Repositories {
	return t.repos
}

func (t *sqlTransaction) Savepoint(ctx context.Context, fn func(ctx context.Context) error) error {
	t.seq++
	name := fmt.Sprintf("sp_%d", t.seq)

	if _, err := t.tx.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return fmt.Errorf("%w: create savepoint: %v", ErrScopeBroken, err)
	}

	if fnErr := fn(ctx); fnErr != nil {
		if _, err := t.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name); err != nil {
			return errors.Join(fnErr, fmt.Errorf("%w: rollback to savepoint: %v", ErrScopeBroken, err))
		}
		if _, err := t.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+name); err != nil {
			return errors.Join(fnErr, fmt.Errorf("%w: release savepoint: %v", ErrScopeBroken, err))
		}
		return fnErr
	}

	if _, err := t.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+name); err != nil {
		return fmt.Errorf("%w: release savepoint: %v", ErrScopeBroken, err)
	}

	return nil
}
