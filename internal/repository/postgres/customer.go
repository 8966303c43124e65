package postgres

import (
	"context"
	"database/sql"
	"errors"

	"inride/internal/domain"
	"inride/internal/repository"
)

// CustomerRepository is a PostgreSQL implementation of repository.CustomerRepository.
type CustomerRepository struct {
	q Querier
}

// NewCustomerRepository creates a new PostgreSQL customer repository.
func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{q: db}
}

// NewCustomerRepositoryWithTx creates a customer repository using a transaction.
func NewCustomerRepositoryWithTx(tx *sql.Tx) *CustomerRepository {
	return &CustomerRepository{q: tx}
}

const customerColumns = `id, name, email, phone, password_hash, balance, lat, lng, created_at`

// Create adds a new customer.
func (r *CustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	query := `
		INSERT INTO customers (id, name, email, phone, password_hash, balance, lat, lng, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	lat, lng := nullLocation(customer.Location)
	_, err := r.q.ExecContext(ctx, query,
		customer.ID,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.PasswordHash,
		customer.Balance,
		lat,
		lng,
		customer.CreatedAt,
	)
	return err
}

// GetByID retrieves a customer by ID.
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// FindByIdentifier retrieves a customer by email, phone, or name.
// No match is not an error; it returns (nil, nil).
func (r *CustomerRepository) FindByIdentifier(ctx context.Context, identifier string) (*domain.Customer, error) {
	query := `
		SELECT ` + customerColumns + ` FROM customers
		WHERE lower(email) = lower($1) OR phone = $1 OR lower(name) = lower($1)
		LIMIT 1
	`
	customer, err := r.scanOne(r.q.QueryRowContext(ctx, query, identifier))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return customer, err
}

// GetAll retrieves all customers.
func (r *CustomerRepository) GetAll(ctx context.Context) ([]*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY created_at`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []*domain.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}
	return customers, rows.Err()
}

// AdjustBalance applies a delta to the wallet. The WHERE guard keeps the
// balance from going negative even under concurrent debits.
func (r *CustomerRepository) AdjustBalance(ctx context.Context, id string, delta float64) error {
	query := `UPDATE customers SET balance = balance + $1 WHERE id = $2 AND balance + $1 >= 0`

	result, err := r.q.ExecContext(ctx, query, delta, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return repository.ErrInsufficientFunds
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *CustomerRepository) scanOne(row *sql.Row) (*domain.Customer, error) {
	customer, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return customer, nil
}

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	var customer domain.Customer
	var lat, lng sql.NullFloat64

	if err := row.Scan(
		&customer.ID,
		&customer.Name,
		&customer.Email,
		&customer.Phone,
		&customer.PasswordHash,
		&customer.Balance,
		&lat,
		&lng,
		&customer.CreatedAt,
	); err != nil {
		return nil, err
	}

	if lat.Valid && lng.Valid {
		customer.Location = &domain.Location{Lat: lat.Float64, Lng: lng.Float64}
	}
	return &customer, nil
}

func nullLocation(loc *domain.Location) (sql.NullFloat64, sql.NullFloat64) {
	if loc == nil {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: loc.Lat, Valid: true},
		sql.NullFloat64{Float64: loc.Lng, Valid: true}
}
