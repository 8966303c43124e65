package repository

import (
	"context"

	"inride/internal/domain"
)

// BookingRepository defines the persistence operations for bookings.
type BookingRepository interface {
	// Create persists a new booking.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by ID.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// GetAll retrieves all bookings, newest first.
	GetAll(ctx context.Context) ([]*domain.Booking, error)

	// GetByCustomerID retrieves all bookings for a customer, newest first.
	GetByCustomerID(ctx context.Context, customerID string) ([]*domain.Booking, error)

	// GetSearching retrieves all bookings still collecting offers.
	GetSearching(ctx context.Context) ([]*domain.Booking, error)

	// GetActiveByCustomerID retrieves the customer's booking in
	// ASSIGNED or IN_PROGRESS, or nil if there is none.
	GetActiveByCustomerID(ctx context.Context, customerID string) (*domain.Booking, error)

	// GetActiveByDriverID retrieves the driver's booking in
	// ASSIGNED or IN_PROGRESS, or nil if there is none.
	GetActiveByDriverID(ctx context.Context, driverID string) (*domain.Booking, error)

	// Update updates an existing booking.
	Update(ctx context.Context, booking *domain.Booking) error
}
