package service

import (
	"math"

	"inride/internal/domain"
)

const (
	baseFare  = 50.0
	perKmRate = 12.0
	minFare   = 60.0
	earthKm   = 6371.0
	degToRad  = math.Pi / 180
)

// EstimateFare prices a trip from its coordinates. Drivers bid their own
// fares against the booking; this estimate is the placeholder shown while
// the booking is still collecting offers.
func EstimateFare(pickup, dest domain.Location) float64 {
	distance := haversineKm(pickup, dest)

	fare := baseFare + distance*perKmRate
	if fare < minFare {
		fare = minFare
	}

	return round2(fare)
}

func haversineKm(a, b domain.Location) float64 {
	dLat := (b.Lat - a.Lat) * degToRad
	dLng := (b.Lng - a.Lng) * degToRad

	lat1 := a.Lat * degToRad
	lat2 := b.Lat * degToRad

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthKm * math.Asin(math.Sqrt(h))
}
