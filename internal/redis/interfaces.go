package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for per-booking serialization.
type LockStoreInterface interface {
	AcquireBookingLock(ctx context.Context, bookingID string, ttl time.Duration) (bool, error)
	ReleaseBookingLock(ctx context.Context, bookingID string) error
}

// LocationStoreInterface defines the interface for live driver positions.
type LocationStoreInterface interface {
	UpdateLocation(ctx context.Context, driverID string, lat, lng float64) error
	GetLocation(ctx context.Context, driverID string) (lat, lng float64, ok bool, err error)
	RemoveLocation(ctx context.Context, driverID string) error
}

// OTPStoreInterface defines the interface for short-lived verification codes.
type OTPStoreInterface interface {
	SaveCode(ctx context.Context, target, code string, ttl time.Duration) error
	GetCode(ctx context.Context, target string) (string, error)
	DeleteCode(ctx context.Context, target string) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface     = (*LockStore)(nil)
	_ LocationStoreInterface = (*LocationStore)(nil)
	_ OTPStoreInterface      = (*OTPStore)(nil)
)
