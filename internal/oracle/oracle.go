package oracle

import "context"

// Recommendation is the oracle's verdict on a driver's documents.
type Recommendation string

const (
	RecommendationApprove      Recommendation = "APPROVE"
	RecommendationReject       Recommendation = "REJECT"
	RecommendationManualReview Recommendation = "MANUAL_REVIEW"
)

// DocumentScore is the oracle's assessment of a driver's submitted documents.
type DocumentScore struct {
	Rating         int            `json:"rating"`
	Recommendation Recommendation `json:"recommendation"`
	Summary        string         `json:"summary"`
}

// Place is a resolved location.
type Place struct {
	Address string  `json:"address"`
	City    string  `json:"city"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// Suggestion is a location search result.
type Suggestion struct {
	Title    string  `json:"title"`
	Subtitle string  `json:"subtitle"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

// Oracle answers questions the platform cannot answer from its own data:
// document verification, message wording, and location resolution. Callers
// must tolerate arbitrary latency and failure; the Resilient wrapper folds
// failures into deterministic fallbacks.
type Oracle interface {
	ScoreDriverDocuments(ctx context.Context, name, licenseNumber, vehicleInfo string, documents map[string]string) (DocumentScore, error)
	OTPMessage(ctx context.Context, name, target, code, channel string) (string, error)
	Geocode(ctx context.Context, query string) (Place, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) (Place, error)
	SearchLocations(ctx context.Context, query string) ([]Suggestion, error)
}
