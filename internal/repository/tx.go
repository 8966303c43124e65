package repository

import "context"

// TxRepos bundles transaction-scoped repositories. Everything done through
// a TxRepos within a single WithinTx call commits or rolls back as one unit.
type TxRepos struct {
	Customers CustomerRepository
	Drivers   DriverRepository
	Bookings  BookingRepository
	Platform  PlatformRepository
}

// Transactor runs a function inside a single atomic transaction.
// If fn returns an error the transaction is rolled back and the error
// is returned unchanged.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(TxRepos) error) error
}
