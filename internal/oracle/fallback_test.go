package oracle

import (
	"context"
	"strings"
	"testing"
)

func TestFallback_GeocodeIsDeterministic(t *testing.T) {
	t.Parallel()

	f := NewFallback()
	ctx := context.Background()

	a, err := f.Geocode(ctx, "Central Station")
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}
	b, err := f.Geocode(ctx, "Central Station")
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}

	if a != b {
		t.Errorf("expected identical results for same query, got %+v and %+v", a, b)
	}
	if a.Lat < 40.7 || a.Lat > 40.8 {
		t.Errorf("latitude %f outside service area", a.Lat)
	}
	if a.Lng < -74.0 || a.Lng > -73.9 {
		t.Errorf("longitude %f outside service area", a.Lng)
	}
}

func TestFallback_OTPMessageContainsCode(t *testing.T) {
	t.Parallel()

	f := NewFallback()

	msg, err := f.OTPMessage(context.Background(), "Asha", "asha@example.com", "482913", "email")
	if err != nil {
		t.Fatalf("otp message: %v", err)
	}
	if !strings.Contains(msg, "482913") {
		t.Errorf("message %q does not contain the code", msg)
	}
}

func TestFallback_ScoreDefersToManualReview(t *testing.T) {
	t.Parallel()

	f := NewFallback()

	score, err := f.ScoreDriverDocuments(context.Background(), "Ravi", "DL-001", "Toyota Etios", nil)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if score.Recommendation != RecommendationManualReview {
		t.Errorf("expected MANUAL_REVIEW, got %s", score.Recommendation)
	}
}
