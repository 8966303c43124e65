package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"inride/internal/domain"
	"inride/internal/repository"
)

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

const bookingColumns = `id, customer_id, driver_id, pickup, pickup_lat, pickup_lng,
		destination, dest_lat, dest_lng, fare, status, payment_method,
		driver_reached_pickup, rating, offers, cancelled_at, cancel_reason, created_at`

// offerRecord is the JSONB wire form of an offer. Offers persist as an
// ordered array so submission order survives the round trip.
type offerRecord struct {
	DriverID             string  `json:"driver_id"`
	Fare                 float64 `json:"fare"`
	EstimatedArrivalMins int     `json:"estimated_arrival_mins"`
}

func encodeOffers(offers []domain.Offer) ([]byte, error) {
	records := make([]offerRecord, len(offers))
	for i, o := range offers {
		records[i] = offerRecord{
			DriverID:             o.DriverID,
			Fare:                 o.Fare,
			EstimatedArrivalMins: o.EstimatedArrivalMins,
		}
	}
	return json.Marshal(records)
}

func decodeOffers(data []byte) ([]domain.Offer, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var records []offerRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}

	offers := make([]domain.Offer, len(records))
	for i, rec := range records {
		offers[i] = domain.Offer{
			DriverID:             rec.DriverID,
			Fare:                 rec.Fare,
			EstimatedArrivalMins: rec.EstimatedArrivalMins,
		}
	}
	return offers, nil
}

// Create persists a new booking.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (id, customer_id, driver_id, pickup, pickup_lat, pickup_lng,
			destination, dest_lat, dest_lng, fare, status, payment_method,
			driver_reached_pickup, rating, offers, cancelled_at, cancel_reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	offers, err := encodeOffers(booking.Offers)
	if err != nil {
		return err
	}

	_, err = r.q.ExecContext(ctx, query,
		booking.ID,
		booking.CustomerID,
		nullString(booking.DriverID),
		booking.Pickup,
		booking.PickupCoords.Lat,
		booking.PickupCoords.Lng,
		booking.Destination,
		booking.DestCoords.Lat,
		booking.DestCoords.Lng,
		booking.Fare,
		booking.Status,
		booking.PaymentMethod,
		booking.DriverReachedPickup,
		nullInt(booking.Rating),
		offers,
		nullTime(booking.CancelledAt),
		nullString(booking.CancelReason),
		booking.CreatedAt,
	)
	return err
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return booking, nil
}

// GetAll retrieves all bookings, newest first.
func (r *BookingRepository) GetAll(ctx context.Context) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC`
	return r.queryMany(ctx, query)
}

// GetByCustomerID retrieves all bookings for a customer, newest first.
func (r *BookingRepository) GetByCustomerID(ctx context.Context, customerID string) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE customer_id = $1 ORDER BY created_at DESC`
	return r.queryMany(ctx, query, customerID)
}

// GetSearching retrieves all bookings still collecting offers.
func (r *BookingRepository) GetSearching(ctx context.Context) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = $1 ORDER BY created_at DESC`
	return r.queryMany(ctx, query, domain.BookingStatusSearching)
}

// GetActiveByCustomerID retrieves the customer's active booking, or nil.
func (r *BookingRepository) GetActiveByCustomerID(ctx context.Context, customerID string) (*domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + ` FROM bookings
		WHERE customer_id = $1 AND status IN ($2, $3)
		LIMIT 1
	`
	return r.queryActive(ctx, query, customerID)
}

// GetActiveByDriverID retrieves the driver's active booking, or nil.
func (r *BookingRepository) GetActiveByDriverID(ctx context.Context, driverID string) (*domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + ` FROM bookings
		WHERE driver_id = $1 AND status IN ($2, $3)
		LIMIT 1
	`
	return r.queryActive(ctx, query, driverID)
}

// Update updates an existing booking.
func (r *BookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	query := `
		UPDATE bookings
		SET driver_id = $1, fare = $2, status = $3, payment_method = $4,
			driver_reached_pickup = $5, rating = $6, offers = $7,
			cancelled_at = $8, cancel_reason = $9
		WHERE id = $10
	`

	offers, err := encodeOffers(booking.Offers)
	if err != nil {
		return err
	}

	result, err := r.q.ExecContext(ctx, query,
		nullString(booking.DriverID),
		booking.Fare,
		booking.Status,
		booking.PaymentMethod,
		booking.DriverReachedPickup,
		nullInt(booking.Rating),
		offers,
		nullTime(booking.CancelledAt),
		nullString(booking.CancelReason),
		booking.ID,
	)
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

func (r *BookingRepository) queryActive(ctx context.Context, query, id string) (*domain.Booking, error) {
	booking, err := scanBooking(r.q.QueryRowContext(ctx, query, id,
		domain.BookingStatusAssigned, domain.BookingStatusInProgress))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return booking, nil
}

func (r *BookingRepository) queryMany(ctx context.Context, query string, args ...any) ([]*domain.Booking, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var driverID, cancelReason sql.NullString
	var rating sql.NullInt64
	var offers []byte
	var cancelledAt sql.NullTime

	if err := row.Scan(
		&booking.ID,
		&booking.CustomerID,
		&driverID,
		&booking.Pickup,
		&booking.PickupCoords.Lat,
		&booking.PickupCoords.Lng,
		&booking.Destination,
		&booking.DestCoords.Lat,
		&booking.DestCoords.Lng,
		&booking.Fare,
		&booking.Status,
		&booking.PaymentMethod,
		&booking.DriverReachedPickup,
		&rating,
		&offers,
		&cancelledAt,
		&cancelReason,
		&booking.CreatedAt,
	); err != nil {
		return nil, err
	}

	decoded, err := decodeOffers(offers)
	if err != nil {
		return nil, err
	}
	booking.Offers = decoded

	if driverID.Valid {
		booking.DriverID = driverID.String
	}
	if rating.Valid {
		booking.Rating = int(rating.Int64)
	}
	if cancelledAt.Valid {
		booking.CancelledAt = cancelledAt.Time
	}
	if cancelReason.Valid {
		booking.CancelReason = cancelReason.String
	}
	return &booking, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt(i int) sql.NullInt64 {
	if i == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(i), Valid: true}
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
