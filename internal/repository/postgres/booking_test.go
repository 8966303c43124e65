package postgres

import (
	"testing"

	"inride/internal/domain"
)

func TestOffersCodec_RoundTripPreservesOrder(t *testing.T) {
	t.Parallel()

	offers := []domain.Offer{
		{DriverID: "d-3", Fare: 250, EstimatedArrivalMins: 5},
		{DriverID: "d-1", Fare: 310.50, EstimatedArrivalMins: 12},
		{DriverID: "d-2", Fare: 250, EstimatedArrivalMins: 3},
	}

	data, err := encodeOffers(offers)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := decodeOffers(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(decoded) != len(offers) {
		t.Fatalf("expected %d offers, got %d", len(offers), len(decoded))
	}

	for i := range offers {
		if decoded[i] != offers[i] {
			t.Errorf("offer %d: expected %+v, got %+v", i, offers[i], decoded[i])
		}
	}
}

func TestOffersCodec_EmptyAndNil(t *testing.T) {
	t.Parallel()

	data, err := encodeOffers(nil)
	if err != nil {
		t.Fatalf("encode nil: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("expected empty array, got %s", data)
	}

	decoded, err := decodeOffers(nil)
	if err != nil {
		t.Fatalf("decode nil: %v", err)
	}
	if decoded != nil {
		t.Errorf("expected nil offers, got %v", decoded)
	}
}
