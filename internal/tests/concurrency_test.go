package tests

import (
	"context"
	"sync"
	"testing"

	"inride/internal/domain"
)

func TestAcceptOffer_ConcurrentAcceptsResolveToOneWinner(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.addCustomer("c1", 1000)
	f.addApprovedDriver("d1", 200)
	f.addApprovedDriver("d2", 200)

	booking := f.createBooking(t, "c1", domain.PaymentMethodWallet)
	f.submitOffer(t, booking.ID, "d1", 250)
	f.submitOffer(t, booking.ID, "d2", 300)

	offers := []struct {
		driverID string
		fare     float64
	}{
		{"d1", 250},
		{"d2", 300},
	}

	var wg sync.WaitGroup
	results := make([]error, len(offers))
	for i, offer := range offers {
		wg.Add(1)
		go func(i int, driverID string, fare float64) {
			defer wg.Done()
			_, err := f.svc.AcceptOffer(context.Background(), booking.ID, "c1", driverID, fare)
			results[i] = err
		}(i, offer.driverID, offer.fare)
	}
	wg.Wait()

	var successes int
	for _, err := range results {
		if err == nil {
			successes++
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly one accept to win, got %d (results: %v)", successes, results)
	}

	stored := f.bookings.Booking(booking.ID)
	if stored.Status != domain.BookingStatusAssigned {
		t.Errorf("expected ASSIGNED, got %s", stored.Status)
	}

	// Escrow deducted exactly once, matching the winning fare.
	want := 1000 - stored.Fare
	if got := f.customers.Balance("c1"); got != want {
		t.Errorf("expected customer balance %f, got %f", want, got)
	}
}

func TestSubmitOffer_ConcurrentSubmissionsAllLand(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.addCustomer("c1", 1000)

	driverIDs := []string{"d1", "d2", "d3", "d4"}
	for _, id := range driverIDs {
		f.addApprovedDriver(id, 200)
	}

	booking := f.createBooking(t, "c1", domain.PaymentMethodWallet)

	// Concurrent submissions may collide on the booking lock; retry
	// until each driver's offer lands.
	var wg sync.WaitGroup
	for i, id := range driverIDs {
		wg.Add(1)
		go func(driverID string, fare float64) {
			defer wg.Done()
			for {
				_, err := f.svc.SubmitOffer(context.Background(), booking.ID, driverID, fare, 5)
				if err == nil {
					return
				}
			}
		}(id, float64(200+10*i))
	}
	wg.Wait()

	stored := f.bookings.Booking(booking.ID)
	if len(stored.Offers) != len(driverIDs) {
		t.Fatalf("expected %d offers, got %d", len(driverIDs), len(stored.Offers))
	}

	seen := make(map[string]bool)
	for _, offer := range stored.Offers {
		if seen[offer.DriverID] {
			t.Errorf("duplicate offer from %s", offer.DriverID)
		}
		seen[offer.DriverID] = true
	}
}
