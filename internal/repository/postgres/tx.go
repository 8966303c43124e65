package postgres

import (
	"context"
	"database/sql"

	"inride/internal/repository"
)

// Transactor runs service operations inside a single database transaction,
// handing the callback transaction-scoped repositories.
type Transactor struct {
	db *sql.DB
}

// NewTransactor creates a new Transactor.
func NewTransactor(db *sql.DB) *Transactor {
	return &Transactor{db: db}
}

// Ensure the interface is satisfied.
var _ repository.Transactor = (*Transactor)(nil)

// WithinTx begins a transaction, runs fn with transaction-scoped
// repositories, and commits. Any error from fn rolls everything back.
func (t *Transactor) WithinTx(ctx context.Context, fn func(repository.TxRepos) error) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	repos := repository.TxRepos{
		Customers: NewCustomerRepositoryWithTx(tx),
		Drivers:   NewDriverRepositoryWithTx(tx),
		Bookings:  NewBookingRepositoryWithTx(tx),
		Platform:  NewPlatformRepositoryWithTx(tx),
	}

	if err := fn(repos); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
