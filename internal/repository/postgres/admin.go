package postgres

import (
	"context"
	"database/sql"
	"errors"

	"inride/internal/domain"
	"inride/internal/repository"
)

// AdminRepository is a PostgreSQL implementation of repository.AdminRepository.
type AdminRepository struct {
	q Querier
}

// NewAdminRepository creates a new PostgreSQL admin repository.
func NewAdminRepository(db *sql.DB) *AdminRepository {
	return &AdminRepository{q: db}
}

// NewAdminRepositoryWithTx creates an admin repository using a transaction.
func NewAdminRepositoryWithTx(tx *sql.Tx) *AdminRepository {
	return &AdminRepository{q: tx}
}

// Create adds a new admin.
func (r *AdminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	query := `
		INSERT INTO admins (id, name, email, phone, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.q.ExecContext(ctx, query,
		admin.ID, admin.Name, admin.Email, admin.Phone, admin.PasswordHash, admin.CreatedAt)
	return err
}

// GetByID retrieves an admin by ID.
func (r *AdminRepository) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	query := `SELECT id, name, email, phone, password_hash, created_at FROM admins WHERE id = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// FindByIdentifier retrieves an admin by email, phone, or name.
// No match is not an error; it returns (nil, nil).
func (r *AdminRepository) FindByIdentifier(ctx context.Context, identifier string) (*domain.Admin, error) {
	query := `
		SELECT id, name, email, phone, password_hash, created_at FROM admins
		WHERE lower(email) = lower($1) OR phone = $1 OR lower(name) = lower($1)
		LIMIT 1
	`
	admin, err := r.scanOne(r.q.QueryRowContext(ctx, query, identifier))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return admin, err
}

// GetAll retrieves all admins.
func (r *AdminRepository) GetAll(ctx context.Context) ([]*domain.Admin, error) {
	query := `SELECT id, name, email, phone, password_hash, created_at FROM admins ORDER BY created_at`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var admins []*domain.Admin
	for rows.Next() {
		var admin domain.Admin
		if err := rows.Scan(&admin.ID, &admin.Name, &admin.Email, &admin.Phone,
			&admin.PasswordHash, &admin.CreatedAt); err != nil {
			return nil, err
		}
		admins = append(admins, &admin)
	}
	return admins, rows.Err()
}

func (r *AdminRepository) scanOne(row *sql.Row) (*domain.Admin, error) {
	var admin domain.Admin
	err := row.Scan(&admin.ID, &admin.Name, &admin.Email, &admin.Phone,
		&admin.PasswordHash, &admin.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &admin, nil
}
