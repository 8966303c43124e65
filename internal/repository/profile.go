package repository

import (
	"context"

	"inride/internal/domain"
)

// CustomerRepository defines the persistence operations for customers.
type CustomerRepository interface {
	// Create adds a new customer.
	Create(ctx context.Context, customer *domain.Customer) error

	// GetByID retrieves a customer by ID.
	GetByID(ctx context.Context, id string) (*domain.Customer, error)

	// FindByIdentifier retrieves a customer whose email, phone, or name
	// matches the identifier. Email and name match case-insensitively.
	// Returns (nil, nil) when no customer matches.
	FindByIdentifier(ctx context.Context, identifier string) (*domain.Customer, error)

	// GetAll retrieves all customers.
	GetAll(ctx context.Context) ([]*domain.Customer, error)

	// AdjustBalance applies a delta to the customer's wallet atomically.
	// Returns ErrInsufficientFunds if the resulting balance would be negative.
	AdjustBalance(ctx context.Context, id string, delta float64) error
}

// DriverRepository defines the persistence operations for drivers.
type DriverRepository interface {
	// Create adds a new driver.
	Create(ctx context.Context, driver *domain.Driver) error

	// GetByID retrieves a driver by ID.
	GetByID(ctx context.Context, id string) (*domain.Driver, error)

	// FindByIdentifier retrieves a driver whose email, phone, or name
	// matches the identifier. Email and name match case-insensitively.
	// Returns (nil, nil) when no driver matches.
	FindByIdentifier(ctx context.Context, identifier string) (*domain.Driver, error)

	// GetAll retrieves all drivers.
	GetAll(ctx context.Context) ([]*domain.Driver, error)

	// UpdateStatus updates the verification status and moderation note.
	UpdateStatus(ctx context.Context, id string, status domain.DriverStatus, note string) error

	// UpdateRating replaces the driver's aggregate rating.
	UpdateRating(ctx context.Context, id string, rating float64, totalRatings int) error

	// UpdateLocation updates the driver's last reported position.
	UpdateLocation(ctx context.Context, id string, lat, lng float64) error

	// AdjustBalance applies a delta to the driver's wallet atomically.
	// The balance has no floor; a commission debit may leave it negative,
	// recording the debt the driver owes the platform.
	AdjustBalance(ctx context.Context, id string, delta float64) error

	// Delete removes the driver permanently.
	Delete(ctx context.Context, id string) error
}

// AdminRepository defines the persistence operations for admin accounts.
type AdminRepository interface {
	// Create adds a new admin.
	Create(ctx context.Context, admin *domain.Admin) error

	// GetByID retrieves an admin by ID.
	GetByID(ctx context.Context, id string) (*domain.Admin, error)

	// FindByIdentifier retrieves an admin whose email, phone, or name
	// matches the identifier. Email and name match case-insensitively.
	// Returns (nil, nil) when no admin matches.
	FindByIdentifier(ctx context.Context, identifier string) (*domain.Admin, error)

	// GetAll retrieves all admins.
	GetAll(ctx context.Context) ([]*domain.Admin, error)
}

// PlatformRepository holds the platform's own commission account.
type PlatformRepository interface {
	// GetBalance returns the current platform balance.
	GetBalance(ctx context.Context) (float64, error)

	// Credit applies a delta to the platform balance. The platform
	// account has no floor; the delta may be negative (payouts).
	Credit(ctx context.Context, delta float64) error
}
