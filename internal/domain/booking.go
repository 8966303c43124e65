package domain

import "time"

// BookingStatus represents the current status of a booking.
//
// Transitions: SEARCHING -> ASSIGNED -> IN_PROGRESS -> COMPLETED,
// with CANCELLED reachable from SEARCHING and ASSIGNED only.
type BookingStatus string

const (
	BookingStatusSearching  BookingStatus = "SEARCHING"
	BookingStatusAssigned   BookingStatus = "ASSIGNED"
	BookingStatusInProgress BookingStatus = "IN_PROGRESS"
	BookingStatusCompleted  BookingStatus = "COMPLETED"
	BookingStatusCancelled  BookingStatus = "CANCELLED"
)

// Active reports whether the status counts against the one-active-ride
// invariant for the customer and the assigned driver.
func (s BookingStatus) Active() bool {
	return s == BookingStatusAssigned || s == BookingStatusInProgress
}

// Terminal reports whether the status admits no further transitions.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// PaymentMethod represents the payment method for a booking.
type PaymentMethod string

const (
	PaymentMethodWallet PaymentMethod = "WALLET"
	PaymentMethodUPI    PaymentMethod = "UPI"
	PaymentMethodCard   PaymentMethod = "CARD"
	PaymentMethodCash   PaymentMethod = "CASH"
)

// Offer is a driver's bid against an open booking.
type Offer struct {
	DriverID             string
	Fare                 float64
	EstimatedArrivalMins int
}

// Booking represents a ride request and its lifecycle.
// Offers accumulate in submission order while the booking is SEARCHING
// and are frozen history afterwards.
type Booking struct {
	ID                  string
	CustomerID          string
	DriverID            string
	Pickup              string
	PickupCoords        Location
	Destination         string
	DestCoords          Location
	Fare                float64
	Status              BookingStatus
	PaymentMethod       PaymentMethod
	DriverReachedPickup bool
	Rating              int
	Offers              []Offer
	CreatedAt           time.Time
	CancelledAt         time.Time
	CancelReason        string
}

// OfferFrom returns the offer submitted by the given driver, if any.
func (b *Booking) OfferFrom(driverID string) *Offer {
	for i := range b.Offers {
		if b.Offers[i].DriverID == driverID {
			return &b.Offers[i]
		}
	}
	return nil
}
