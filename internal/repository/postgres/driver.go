package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"inride/internal/domain"
	"inride/internal/repository"
)

// DriverRepository is a PostgreSQL implementation of repository.DriverRepository.
type DriverRepository struct {
	q Querier
}

// NewDriverRepository creates a new PostgreSQL driver repository.
func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{q: db}
}

// NewDriverRepositoryWithTx creates a driver repository using a transaction.
func NewDriverRepositoryWithTx(tx *sql.Tx) *DriverRepository {
	return &DriverRepository{q: tx}
}

const driverColumns = `id, name, email, phone, password_hash, license_number, vehicle_info,
		status, documents, verification_note, rating, total_ratings, lat, lng, balance, created_at`

// Create adds a new driver.
func (r *DriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	query := `
		INSERT INTO drivers (id, name, email, phone, password_hash, license_number, vehicle_info,
			status, documents, verification_note, rating, total_ratings, lat, lng, balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	docs, err := json.Marshal(driver.Documents)
	if err != nil {
		return err
	}
	if driver.Documents == nil {
		docs = []byte(`{}`)
	}

	lat, lng := nullLocation(driver.Location)
	_, err = r.q.ExecContext(ctx, query,
		driver.ID,
		driver.Name,
		driver.Email,
		driver.Phone,
		driver.PasswordHash,
		driver.LicenseNumber,
		driver.VehicleInfo,
		driver.Status,
		docs,
		driver.VerificationNote,
		driver.Rating,
		driver.TotalRatings,
		lat,
		lng,
		driver.Balance,
		driver.CreatedAt,
	)
	return err
}

// GetByID retrieves a driver by ID.
func (r *DriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE id = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// FindByIdentifier retrieves a driver by email, phone, or name.
// No match is not an error; it returns (nil, nil).
func (r *DriverRepository) FindByIdentifier(ctx context.Context, identifier string) (*domain.Driver, error) {
	query := `
		SELECT ` + driverColumns + ` FROM drivers
		WHERE lower(email) = lower($1) OR phone = $1 OR lower(name) = lower($1)
		LIMIT 1
	`
	driver, err := r.scanOne(r.q.QueryRowContext(ctx, query, identifier))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return driver, err
}

// GetAll retrieves all drivers.
func (r *DriverRepository) GetAll(ctx context.Context) ([]*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers ORDER BY created_at`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []*domain.Driver
	for rows.Next() {
		driver, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, driver)
	}
	return drivers, rows.Err()
}

// UpdateStatus updates the verification status and moderation note.
func (r *DriverRepository) UpdateStatus(ctx context.Context, id string, status domain.DriverStatus, note string) error {
	query := `UPDATE drivers SET status = $1, verification_note = $2 WHERE id = $3`
	return r.exec(ctx, query, status, note, id)
}

// UpdateRating replaces the driver's aggregate rating.
func (r *DriverRepository) UpdateRating(ctx context.Context, id string, rating float64, totalRatings int) error {
	query := `UPDATE drivers SET rating = $1, total_ratings = $2 WHERE id = $3`
	return r.exec(ctx, query, rating, totalRatings, id)
}

// UpdateLocation updates the driver's last reported position.
func (r *DriverRepository) UpdateLocation(ctx context.Context, id string, lat, lng float64) error {
	query := `UPDATE drivers SET lat = $1, lng = $2 WHERE id = $3`
	return r.exec(ctx, query, lat, lng, id)
}

// AdjustBalance applies a delta to the wallet. Unlike customer wallets the
// balance has no floor: commission debits on externally paid fares are
// collected even when they overdraw, and the negative balance is the debt.
func (r *DriverRepository) AdjustBalance(ctx context.Context, id string, delta float64) error {
	return r.exec(ctx, `UPDATE drivers SET balance = balance + $1 WHERE id = $2`, delta, id)
}

// Delete removes the driver permanently.
func (r *DriverRepository) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, `DELETE FROM drivers WHERE id = $1`, id)
}

func (r *DriverRepository) exec(ctx context.Context, query string, args ...any) error {
	result, err := r.q.ExecContext(ctx, query, args...)
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

func (r *DriverRepository) scanOne(row *sql.Row) (*domain.Driver, error) {
	driver, err := scanDriver(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return driver, nil
}

func scanDriver(row rowScanner) (*domain.Driver, error) {
	var driver domain.Driver
	var docs []byte
	var lat, lng sql.NullFloat64

	if err := row.Scan(
		&driver.ID,
		&driver.Name,
		&driver.Email,
		&driver.Phone,
		&driver.PasswordHash,
		&driver.LicenseNumber,
		&driver.VehicleInfo,
		&driver.Status,
		&docs,
		&driver.VerificationNote,
		&driver.Rating,
		&driver.TotalRatings,
		&lat,
		&lng,
		&driver.Balance,
		&driver.CreatedAt,
	); err != nil {
		return nil, err
	}

	if len(docs) > 0 {
		if err := json.Unmarshal(docs, &driver.Documents); err != nil {
			return nil, err
		}
	}
	if lat.Valid && lng.Valid {
		driver.Location = &domain.Location{Lat: lat.Float64, Lng: lng.Float64}
	}
	return &driver, nil
}
