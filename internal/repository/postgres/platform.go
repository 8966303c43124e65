package postgres

import (
	"context"
	"database/sql"
	"errors"

	"inride/internal/repository"
)

// PlatformRepository is a PostgreSQL implementation of repository.PlatformRepository.
// The platform account is a single seeded row.
type PlatformRepository struct {
	q Querier
}

// NewPlatformRepository creates a new PostgreSQL platform repository.
func NewPlatformRepository(db *sql.DB) *PlatformRepository {
	return &PlatformRepository{q: db}
}

// NewPlatformRepositoryWithTx creates a platform repository using a transaction.
func NewPlatformRepositoryWithTx(tx *sql.Tx) *PlatformRepository {
	return &PlatformRepository{q: tx}
}

// GetBalance returns the current platform balance.
func (r *PlatformRepository) GetBalance(ctx context.Context) (float64, error) {
	var balance float64
	err := r.q.QueryRowContext(ctx, `SELECT balance FROM platform_account WHERE id = 1`).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, repository.ErrNotFound
		}
		return 0, err
	}
	return balance, nil
}

// Credit applies a delta to the platform balance. No floor.
func (r *PlatformRepository) Credit(ctx context.Context, delta float64) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE platform_account SET balance = balance + $1 WHERE id = 1`, delta)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
