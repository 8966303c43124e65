package oracle

import (
	"context"
	"fmt"
	"hash/fnv"
)

// Fallback is a deterministic Oracle used when the real one is down or not
// configured. Same inputs always produce the same outputs, so every flow
// that consults the oracle still completes.
type Fallback struct{}

// NewFallback creates a new Fallback.
func NewFallback() *Fallback {
	return &Fallback{}
}

// Ensure the interface is satisfied.
var _ Oracle = (*Fallback)(nil)

// ScoreDriverDocuments defers the decision to a human reviewer.
func (f *Fallback) ScoreDriverDocuments(ctx context.Context, name, licenseNumber, vehicleInfo string, documents map[string]string) (DocumentScore, error) {
	return DocumentScore{
		Rating:         5,
		Recommendation: RecommendationManualReview,
		Summary:        "Automatic verification unavailable, documents queued for manual review.",
	}, nil
}

// OTPMessage returns the standard verification text.
func (f *Fallback) OTPMessage(ctx context.Context, name, target, code, channel string) (string, error) {
	return fmt.Sprintf("Your InRide verification code is %s. Do not share this with anyone.", code), nil
}

// Geocode maps the query onto a stable point inside the service area. The
// hash keeps repeated lookups of the same query consistent.
func (f *Fallback) Geocode(ctx context.Context, query string) (Place, error) {
	h := fnv.New32a()
	h.Write([]byte(query))
	n := h.Sum32()

	lat := 40.7 + float64(n%1000)/10000.0
	lng := -74.0 + float64((n/1000)%1000)/10000.0

	return Place{
		Address: query,
		City:    "Unknown",
		Country: "Unknown",
		Lat:     lat,
		Lng:     lng,
	}, nil
}

// ReverseGeocode labels the coordinates without resolving them.
func (f *Fallback) ReverseGeocode(ctx context.Context, lat, lng float64) (Place, error) {
	return Place{
		Address: fmt.Sprintf("Location at %.4f, %.4f", lat, lng),
		City:    "Unknown",
		Country: "Unknown",
		Lat:     lat,
		Lng:     lng,
	}, nil
}

// SearchLocations returns no suggestions.
func (f *Fallback) SearchLocations(ctx context.Context, query string) ([]Suggestion, error) {
	return []Suggestion{}, nil
}
