package oracle

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Resilient wraps a primary Oracle with a deterministic fallback. Each call
// gets one retry against the primary; after a second failure the fallback
// answers, so callers never see an oracle error.
type Resilient struct {
	primary   Oracle
	fallback  Oracle
	logger    *zap.Logger
	fallbacks prometheus.Counter
}

// NewResilient creates a new Resilient oracle. fallbacks may be nil when
// metrics are not wired.
func NewResilient(primary Oracle, logger *zap.Logger, fallbacks prometheus.Counter) *Resilient {
	return &Resilient{
		primary:   primary,
		fallback:  NewFallback(),
		logger:    logger,
		fallbacks: fallbacks,
	}
}

// Ensure the interface is satisfied.
var _ Oracle = (*Resilient)(nil)

func (r *Resilient) noteFallback(op string, err error) {
	r.logger.Warn("oracle call failed, using fallback",
		zap.String("operation", op),
		zap.Error(err),
	)
	if r.fallbacks != nil {
		r.fallbacks.Inc()
	}
}

func (r *Resilient) ScoreDriverDocuments(ctx context.Context, name, licenseNumber, vehicleInfo string, documents map[string]string) (DocumentScore, error) {
	score, err := r.primary.ScoreDriverDocuments(ctx, name, licenseNumber, vehicleInfo, documents)
	if err != nil {
		score, err = r.primary.ScoreDriverDocuments(ctx, name, licenseNumber, vehicleInfo, documents)
	}
	if err != nil {
		r.noteFallback("score_driver_documents", err)
		return r.fallback.ScoreDriverDocuments(ctx, name, licenseNumber, vehicleInfo, documents)
	}
	return score, nil
}

func (r *Resilient) OTPMessage(ctx context.Context, name, target, code, channel string) (string, error) {
	msg, err := r.primary.OTPMessage(ctx, name, target, code, channel)
	if err != nil {
		msg, err = r.primary.OTPMessage(ctx, name, target, code, channel)
	}
	if err != nil {
		r.noteFallback("otp_message", err)
		return r.fallback.OTPMessage(ctx, name, target, code, channel)
	}
	return msg, nil
}

func (r *Resilient) Geocode(ctx context.Context, query string) (Place, error) {
	place, err := r.primary.Geocode(ctx, query)
	if err != nil {
		place, err = r.primary.Geocode(ctx, query)
	}
	if err != nil {
		r.noteFallback("geocode", err)
		return r.fallback.Geocode(ctx, query)
	}
	return place, nil
}

func (r *Resilient) ReverseGeocode(ctx context.Context, lat, lng float64) (Place, error) {
	place, err := r.primary.ReverseGeocode(ctx, lat, lng)
	if err != nil {
		place, err = r.primary.ReverseGeocode(ctx, lat, lng)
	}
	if err != nil {
		r.noteFallback("reverse_geocode", err)
		return r.fallback.ReverseGeocode(ctx, lat, lng)
	}
	return place, nil
}

func (r *Resilient) SearchLocations(ctx context.Context, query string) ([]Suggestion, error) {
	suggestions, err := r.primary.SearchLocations(ctx, query)
	if err != nil {
		suggestions, err = r.primary.SearchLocations(ctx, query)
	}
	if err != nil {
		r.noteFallback("search_locations", err)
		return r.fallback.SearchLocations(ctx, query)
	}
	return suggestions, nil
}
