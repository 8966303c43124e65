package domain

import "time"

// Role identifies which partition a profile belongs to.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleDriver   Role = "DRIVER"
	RoleCustomer Role = "CUSTOMER"
)

// DriverStatus represents a driver's onboarding/verification state.
type DriverStatus string

const (
	DriverStatusPending    DriverStatus = "PENDING"
	DriverStatusModeration DriverStatus = "MODERATION"
	DriverStatusApproved   DriverStatus = "APPROVED"
	DriverStatusRejected   DriverStatus = "REJECTED"
)

// Location is a geographic coordinate pair.
type Location struct {
	Lat float64
	Lng float64
}

// Customer represents a riding customer with a wallet.
type Customer struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Balance      float64
	Location     *Location
	CreatedAt    time.Time
}

// Driver represents a driver in the system.
type Driver struct {
	ID               string
	Name             string
	Email            string
	Phone            string
	PasswordHash     string
	LicenseNumber    string
	VehicleInfo      string
	Status           DriverStatus
	Documents        map[string]string
	VerificationNote string
	Rating           float64
	TotalRatings     int
	Location         *Location
	Balance          float64
	CreatedAt        time.Time
}

// Admin represents a platform staff account.
type Admin struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	CreatedAt    time.Time
}
