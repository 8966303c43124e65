package service

import (
	"math"

	"inride/internal/domain"
)

const (
	// CommissionRate is the platform's cut of every completed fare.
	CommissionRate = 0.07

	// MinDriverBalance is the wallet floor a driver must hold to bid
	// on bookings. Covers the commission the driver owes at completion.
	MinDriverBalance = 100.0
)

// Settlement describes the money movements for a completed booking.
type Settlement struct {
	Commission    float64
	DriverDelta   float64
	PlatformDelta float64
}

// Settle computes the settlement for a completed fare. For WALLET the fare
// was escrowed from the customer at acceptance, so the driver receives the
// fare net of commission. For every other method the driver collected the
// fare outside the platform and only owes the commission.
func Settle(fare float64, method domain.PaymentMethod) Settlement {
	commission := round2(fare * CommissionRate)

	s := Settlement{
		Commission:    commission,
		PlatformDelta: commission,
	}

	if method == domain.PaymentMethodWallet {
		s.DriverDelta = round2(fare - commission)
	} else {
		s.DriverDelta = -commission
	}

	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
