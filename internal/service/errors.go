package service

import "errors"

// Validation errors.
var (
	ErrInvalidID            = errors.New("id must not be empty")
	ErrInvalidName          = errors.New("name must not be empty")
	ErrInvalidEmail         = errors.New("a valid email is required")
	ErrInvalidPhone         = errors.New("a valid phone number is required")
	ErrInvalidPassword      = errors.New("password must be at least 8 characters")
	ErrInvalidCoordinates   = errors.New("latitude must be in [-90, 90] and longitude in [-180, 180]")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrInvalidFare          = errors.New("fare must be positive")
	ErrInvalidArrival       = errors.New("estimated arrival must be positive")
	ErrInvalidRating        = errors.New("rating must be between 1 and 5")
	ErrInvalidPaymentMethod = errors.New("payment method must be one of WALLET, UPI, CARD, CASH")
	ErrInvalidDriverStatus  = errors.New("driver status must be one of PENDING, MODERATION, APPROVED, REJECTED")
	ErrSamePickupAndDest    = errors.New("pickup and destination must differ")
)

// Uniqueness violations during registration. Uniqueness holds across
// customers, drivers, and admins together, not per role.
var (
	ErrEmailTaken = errors.New("email is already registered")
	ErrPhoneTaken = errors.New("phone number is already registered")
	ErrNameTaken  = errors.New("name is already registered")
)

// Authentication.
var (
	ErrAuth = errors.New("invalid credentials")
)

// Booking lifecycle errors.
var (
	ErrInvalidTransition       = errors.New("operation not allowed in the booking's current status")
	ErrActiveBookingExists     = errors.New("customer already has an active booking")
	ErrDriverHasActiveBooking  = errors.New("driver already has an active booking")
	ErrDuplicateOffer          = errors.New("driver has already submitted an offer for this booking")
	ErrOfferNotFound           = errors.New("no offer from this driver on this booking")
	ErrOfferFareMismatch       = errors.New("accepted fare does not match the driver's offer")
	ErrBookingAlreadyCancelled = errors.New("booking is already cancelled")
	ErrAlreadyRated            = errors.New("booking has already been rated")
	ErrNotBookingOwner         = errors.New("booking belongs to a different customer")
	ErrNotAssignedDriver       = errors.New("booking is assigned to a different driver")
)

// Marketplace eligibility.
var (
	ErrDriverNotApproved = errors.New("driver is not approved to take bookings")
	ErrDriverBalanceLow  = errors.New("driver balance is below the minimum required to bid")
)

// Wallet errors.
var (
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
	ErrCardDeclined      = errors.New("card payment was declined")
)

// OTP errors.
var (
	ErrOTPMismatch = errors.New("verification code is incorrect or expired")
)
