package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"inride/internal/domain"
	"inride/internal/observability"
	"inride/internal/repository"
	"inride/internal/service"
)

// ──────────────────────────────────────────────
// FIXTURE
// ──────────────────────────────────────────────

type bookingFixture struct {
	customers *MockCustomerRepository
	drivers   *MockDriverRepository
	bookings  *MockBookingRepository
	platform  *MockPlatformRepository
	locks     *MockLockStore
	svc       *service.BookingService
}

func newBookingFixture() *bookingFixture {
	customers := NewMockCustomerRepository()
	drivers := NewMockDriverRepository()
	bookings := NewMockBookingRepository()
	platform := NewMockPlatformRepository(2500.00)
	locks := NewMockLockStore()

	tx := NewMockTransactor(repository.TxRepos{
		Customers: customers,
		Drivers:   drivers,
		Bookings:  bookings,
		Platform:  platform,
	})

	logger := zap.NewNop()
	metrics := observability.New(prometheus.NewRegistry())

	svc := service.NewBookingService(
		tx, bookings, customers, drivers, locks,
		service.NewLogNotifier(logger), nil, logger, metrics,
	)

	return &bookingFixture{
		customers: customers,
		drivers:   drivers,
		bookings:  bookings,
		platform:  platform,
		locks:     locks,
		svc:       svc,
	}
}

func (f *bookingFixture) addCustomer(id string, balance float64) {
	f.customers.AddCustomer(&domain.Customer{
		ID:      id,
		Name:    "Customer " + id,
		Email:   id + "@example.com",
		Phone:   "+1000" + id,
		Balance: balance,
	})
}

func (f *bookingFixture) addApprovedDriver(id string, balance float64) {
	f.drivers.AddDriver(&domain.Driver{
		ID:      id,
		Name:    "Driver " + id,
		Email:   id + "@example.com",
		Phone:   "+2000" + id,
		Status:  domain.DriverStatusApproved,
		Rating:  4.5,
		Balance: balance,
	})
}

var (
	pickupCoords = domain.Location{Lat: 40.7128, Lng: -74.0060}
	destCoords   = domain.Location{Lat: 40.7580, Lng: -73.9855}
)

func (f *bookingFixture) createBooking(t *testing.T, customerID string, method domain.PaymentMethod) *domain.Booking {
	t.Helper()
	booking, err := f.svc.CreateBooking(context.Background(), customerID,
		"Downtown", pickupCoords, "Midtown", destCoords, method)
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	return booking
}

func (f *bookingFixture) submitOffer(t *testing.T, bookingID, driverID string, fare float64) {
	t.Helper()
	if _, err := f.svc.SubmitOffer(context.Background(), bookingID, driverID, fare, 5); err != nil {
		t.Fatalf("submit offer: %v", err)
	}
}

func (f *bookingFixture) acceptOffer(t *testing.T, bookingID, customerID, driverID string, fare float64) {
	t.Helper()
	if _, err := f.svc.AcceptOffer(context.Background(), bookingID, customerID, driverID, fare); err != nil {
		t.Fatalf("accept offer: %v", err)
	}
}

func (f *bookingFixture) startTrip(t *testing.T, bookingID, driverID string) {
	t.Helper()
	if _, err := f.svc.StartTrip(context.Background(), bookingID, driverID); err != nil {
		t.Fatalf("start trip: %v", err)
	}
}

// ──────────────────────────────────────────────
// CREATION
// ──────────────────────────────────────────────

func TestCreateBooking_StartsSearchingWithEstimate(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.addCustomer("c1", 1000)

	booking := f.createBooking(t, "c1", domain.PaymentMethodWallet)

	if booking.Status != domain.BookingStatusSearching {
		t.Errorf("expected SEARCHING, got %s", booking.Status)
	}
	if booking.Fare <= 0 {
		t.Errorf("expected positive fare estimate, got %f", booking.Fare)
	}
	if booking.DriverID != "" {
		t.Errorf("expected no driver, got %s", booking.DriverID)
	}
}

func TestCreateBooking_RejectsSecondActiveBooking(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.addCustomer("c1", 1000)
	f.addApprovedDriver("d1", 200)

	booking := f.createBooking(t, "c1", domain.PaymentMethodCash)
	f.submitOffer(t, booking.ID, "d1", 250)
	f.acceptOffer(t, booking.ID, "c1", "d1", 250)

	_, err := f.svc.CreateBooking(context.Background(), "c1",
		"Downtown", pickupCoords, "Midtown", destCoords, domain.PaymentMethodCash)
	if !errors.Is(err, service.ErrActiveBookingExists) {
		t.Errorf("expected ErrActiveBookingExists, got %v", err)
	}
}

func TestCreateBooking_SearchingDoesNotBlockNew(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.addCustomer("c1", 1000)

	// Only ASSIGNED and IN_PROGRESS count as active.
	f.createBooking(t, "c1", domain.PaymentMethodCash)
	f.createBooking(t, "c1", domain.PaymentMethodCash)
}

// ──────────────────────────────────────────────
// OFFERS
// ──────────────────────────────────────────────

func TestSubmitOffer_RequiresApprovedDriver(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.addCustomer("c1", 1000)
	f.drivers.AddDriver(&domain.Driver{ID: "d1", Status: domain.DriverStatusPending, Balance: 200})

	booking := f.createBooking(t, "c1", domain.PaymentMethodWallet)

	_, err := f.svc.SubmitOffer(context.Background(), booking.ID, "d1", 250, 5)
	if !errors.Is(err, service.ErrDriverNotApproved) {
		t.Errorf("expected ErrDriverNotApproved, got %v", err)
	}
}

func TestSubmitOffer_RequiresMinimumBalance(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.addCustomer("c1", 1000)
	f.addApprovedDriver("d1", 50)

	booking := f.createBooking(t, "c1", domain.PaymentMethodWallet)

	_, err := f.svc.SubmitOffer(context.Background(), booking.ID, "d1", 250, 5)
	if !errors.Is(err, service.ErrDriverBalanceLow) {
		t.Errorf("expected ErrDriverBalanceLow, got %v", err)
	}
}

func TestSubmitOffer_RejectsDuplicate(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.addCustomer("c1", 1000)
	f.addApprovedDriver("d1", 200)

	booking := f.createBooking(t, "c1", domain.PaymentMethodWallet)
	f.submitOffer(t, booking.ID, "d1", 250)

	_, err := f.svc.SubmitOffer(context.Background(), booking.ID, "d1", 300, 3)
	if !errors.Is(err, service.ErrDuplicateOffer) {
		t.Errorf("expected ErrDuplicateOffer, got %v", err)
	}
}

func TestSubmitOffer_PreservesSubmissionOrder(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.addCustomer("c1", 1000)
	f.addApprovedDriver("d1", 200)
	f.addApprovedDriver("d2", 200)
	f.addApprovedDriver("d3", 200)

	booking := f.createBooking(t, "c1", domain.PaymentMethodWallet)
	f.submitOffer(t, booking.ID, "d2", 310)
	f.submitOffer(t, booking.ID, "d1", 250)
	f.submitOffer(t, booking.ID, "d3", 275)

	stored := f.bookings.Booking(booking.ID)
	want := []string{"d2", "d1", "d3"}
	if len(stored.Offers) != len(want) {
		t.Fatalf("expected %d offers, got %d", len(want), len(stored.Offers))
	}
	for i, driverID := range want {
		if stored.Offers[i].DriverID != driverID {
			t.Errorf("offer %d: expected %s, got %s", i, driverID, stored.Offers[i].DriverID)
		}
	}
}

func TestSubmitOffer_FrozenAfterAssignment(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.addCustomer("c1", 1000)
	f.addApprovedDriver("d1", 200)
	f.addApprovedDriver("d2", 200)

	booking := f.createBooking(t, "c1", domain.PaymentMethodCash)
	f.submitOffer(t, booking.ID, "d1", 250)
	f.acceptOffer(t, booking.ID, "c1", "d1", 250)

	_, err := f.svc.SubmitOffer(context.Background(), booking.ID, "d2", 200, 2)
	if !errors.Is(err, service.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}

	stored := f.bookings.Booking(booking.ID)
	if len(stored.Offers) != 1 {
		t.Errorf("expected offers frozen at 1, got %d", len(stored.Offers))
	}
}

func TestListOpenBookings_ExcludesAlreadyBid(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.addCustomer("c1", 1000)
	f.addCustomer("c2", 1000)
	f.addApprovedDriver("d1", 200)

	first := f.createBooking(t, "c1", domain.PaymentMethodWallet)
	second := f.createBooking(t, "c2", domain.PaymentMethodCash)
	f.submitOffer(t, first.ID, "d1", 250)

	open, err := f.svc.ListOpenBookings(context.Background(), "d1")
	if err != nil {
		t.Fatalf("list open bookings: %v", err)
	}
	if len(open) != 1 || open[0].ID != second.ID {
		t.Errorf("expected only booking %s, got %+v", second.ID, open)
	}
}

// ──────────────────────────────────────────────
// ACCEPTANCE AND ESCROW
// ──────────────────────────────────────────────

func TestAcceptOffer_WalletEscrowsFare(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.addCustomer("c1", 1000)
	f.addApprovedDriver("d1", 200)

	booking := f.createBooking(t, "c1", domain.PaymentMethodWallet)
	f.submitOffer(t, booking.ID, "d1", 250)
	f.acceptOffer(t, booking.ID, "c1", "d1", 250)

	if got := f.customers.Balance("c1"); got != 750 {
		t.Errorf("expected customer balance 750, got %f", got)
	}

	stored := f.bookings.Booking(booking.ID)
	if stored.Status != domain.BookingStatusAssigned {
		t.Errorf("expected ASSIGNED, got %s", stored.Status)
	}
	if stored.DriverID != "d1" || stored.Fare != 250 {
		t.Errorf("expected d1 at fare 250, got %s at %f", stored.DriverID, stored.Fare)
	}
}

func TestAcceptOffer_RejectsFareMismatch(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.addCustomer("c1", 1000)
	f.addApprovedDriver("d1", 200)

	booking := f.createBooking(t, "c1", domain.PaymentMethodWallet)
	f.submitOffer(t, booking.ID, "d1", 250)

	_, err := f.svc.AcceptOffer(context.Background(), booking.ID, "c1", "d1", 200)
	if !errors.Is(err, service.ErrOfferFareMismatch) {
		t.Errorf("expected ErrOfferFareMismatch, got %v", err)
	}
	if got := f.customers.Balance("c1"); got != 1000 {
		t.Errorf("expected balance untouched at 1000, got %f", got)
	}
}

func TestAcceptOffer_InsufficientFundsLeavesNoTrace(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.addCustomer("c1", 100)
	f.addApprovedDriver("d1", 200)

	booking := f.createBooking(t, "c1", domain.PaymentMethodWallet)
	f.submitOffer(t, booking.ID, "d1", 250)

	_, err := f.svc.AcceptOffer(context.Background(), booking.ID, "c1", "d1", 250)
	if !errors.Is(err, service.ErrInsufficientFunds) {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}

	stored := f.bookings.Booking(booking.ID)
	if stored.Status != domain.BookingStatusSearching {
		t.Errorf("expected booking still SEARCHING, got %s", stored.Status)
	}
	if stored.DriverID != "" {
		t.Errorf("expected no driver assigned, got %s", stored.DriverID)
	}
	if got := f.customers.Balance("c1"); got != 100 {
		t.Errorf("expected balance untouched at 100, got %f", got)
	}
}

func TestAcceptOffer_RejectsWrongCustomer(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.addCustomer("c1", 1000)
	f.addCustomer("c2", 1000)
	f.addApprovedDriver("d1", 200)

	booking := f.createBooking(t, "c1", domain.PaymentMethodWallet)
	f.submitOffer(t, booking.ID, "d1", 250)

	_, err := f.svc.AcceptOffer(context.Background(), booking.ID, "c2", "d1", 250)
	if !errors.Is(err, service.ErrNotBookingOwner) {
		t.Errorf("expected ErrNotBookingOwner, got %v", err)
	}
}

func TestAcceptOffer_RejectsBusyDriver(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.addCustomer("c1", 1000)
	f.addCustomer("c2", 1000)
	f.addApprovedDriver("d1", 200)

	first := f.createBooking(t, "c1", domain.PaymentMethodCash)
	f.submitOffer(t, first.ID, "d1", 250)

	second := f.createBooking(t, "c2", domain.PaymentMethodCash)
	f.submitOffer(t, second.ID, "d1", 300)

	f.acceptOffer(t, first.ID, "c1", "d1", 250)

	_, err := f.svc.AcceptOffer(context.Background(), second.ID, "c2", "d1", 300)
	if !errors.Is(err, service.ErrDriverHasActiveBooking) {
		t.Errorf("expected ErrDriverHasActiveBooking, got %v", err)
	}
}

func TestAcceptOffer_RejectsCustomerWithActiveBooking(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.addCustomer("c1", 1000)
	f.addApprovedDriver("d1", 200)
	f.addApprovedDriver("d2", 200)

	// Two SEARCHING bookings may coexist, but only one can be accepted.
	first := f.createBooking(t, "c1", domain.PaymentMethodCash)
	second := f.createBooking(t, "c1", domain.PaymentMethodCash)
	f.submitOffer(t, first.ID, "d1", 250)
	f.submitOffer(t, second.ID, "d2", 300)

	f.acceptOffer(t, first.ID, "c1", "d1", 250)

	_, err := f.svc.AcceptOffer(context.Background(), second.ID, "c1", "d2", 300)
	if !errors.Is(err, service.ErrActiveBookingExists) {
		t.Errorf("expected ErrActiveBookingExists, got %v", err)
	}

	if status := f.bookings.Booking(second.ID).Status; status != domain.BookingStatusSearching {
		t.Errorf("expected second booking still SEARCHING, got %s", status)
	}
}

// ──────────────────────────────────────────────
// TRIP PROGRESSION AND SETTLEMENT
// ──────────────────────────────────────────────

func TestCompleteTrip_WalletSettlement(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.addCustomer("c1", 1000)
	f.addApprovedDriver("d1", 200)

	booking := f.createBooking(t, "c1", domain.PaymentMethodWallet)
	f.submitOffer(t, booking.ID, "d1", 250)
	f.acceptOffer(t, booking.ID, "c1", "d1", 250)
	f.startTrip(t, booking.ID, "d1")

	if _, err := f.svc.CompleteTrip(context.Background(), booking.ID, "d1"); err != nil {
		t.Fatalf("complete trip: %v", err)
	}

	// Commission 7% of 250 = 17.50. Driver gets 250 - 17.50.
	if got := f.drivers.Driver("d1").Balance; got != 432.50 {
		t.Errorf("expected driver balance 432.50, got %f", got)
	}
	if got, _ := f.platform.GetBalance(context.Background()); got != 2517.50 {
		t.Errorf("expected platform balance 2517.50, got %f", got)
	}
	if got := f.customers.Balance("c1"); got != 750 {
		t.Errorf("expected customer balance 750, got %f", got)
	}
	if status := f.bookings.Booking(booking.ID).Status; status != domain.BookingStatusCompleted {
		t.Errorf("expected COMPLETED, got %s", status)
	}
}

func TestCompleteTrip_CashSettlement(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.addCustomer("c1", 1000)
	f.addApprovedDriver("d1", 200)

	booking := f.createBooking(t, "c1", domain.PaymentMethodCash)
	f.submitOffer(t, booking.ID, "d1", 250)
	f.acceptOffer(t, booking.ID, "c1", "d1", 250)
	f.startTrip(t, booking.ID, "d1")

	if _, err := f.svc.CompleteTrip(context.Background(), booking.ID, "d1"); err != nil {
		t.Fatalf("complete trip: %v", err)
	}

	// Cash fare settles outside; driver only owes the commission.
	if got := f.drivers.Driver("d1").Balance; got != 182.50 {
		t.Errorf("expected driver balance 182.50, got %f", got)
	}
	if got := f.customers.Balance("c1"); got != 1000 {
		t.Errorf("expected customer balance untouched at 1000, got %f", got)
	}
	if got, _ := f.platform.GetBalance(context.Background()); got != 2517.50 {
		t.Errorf("expected platform balance 2517.50, got %f", got)
	}
}

func TestCompleteTrip_CommissionDebtOverdrawsDriver(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.addCustomer("c1", 1000)
	f.addCustomer("c2", 1000)
	f.addApprovedDriver("d1", 120)

	// A large cash fare: 7% of 10000 = 700, more than the driver holds.
	booking := f.createBooking(t, "c1", domain.PaymentMethodCash)
	f.submitOffer(t, booking.ID, "d1", 10000)
	f.acceptOffer(t, booking.ID, "c1", "d1", 10000)
	f.startTrip(t, booking.ID, "d1")

	if _, err := f.svc.CompleteTrip(context.Background(), booking.ID, "d1"); err != nil {
		t.Fatalf("complete trip: %v", err)
	}

	// The trip completes and the wallet carries the debt.
	if status := f.bookings.Booking(booking.ID).Status; status != domain.BookingStatusCompleted {
		t.Errorf("expected COMPLETED, got %s", status)
	}
	if got := f.drivers.Driver("d1").Balance; got != -580 {
		t.Errorf("expected driver balance -580, got %f", got)
	}
	if got, _ := f.platform.GetBalance(context.Background()); got != 3200 {
		t.Errorf("expected platform balance 3200, got %f", got)
	}

	// An indebted driver is below the bidding floor until topped up.
	next := f.createBooking(t, "c2", domain.PaymentMethodCash)
	_, err := f.svc.SubmitOffer(context.Background(), next.ID, "d1", 250, 5)
	if !errors.Is(err, service.ErrDriverBalanceLow) {
		t.Errorf("expected ErrDriverBalanceLow, got %v", err)
	}
}

func TestCompleteTrip_SettlesExactlyOnce(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.addCustomer("c1", 1000)
	f.addApprovedDriver("d1", 200)

	booking := f.createBooking(t, "c1", domain.PaymentMethodWallet)
	f.submitOffer(t, booking.ID, "d1", 250)
	f.acceptOffer(t, booking.ID, "c1", "d1", 250)
	f.startTrip(t, booking.ID, "d1")

	if _, err := f.svc.CompleteTrip(context.Background(), booking.ID, "d1"); err != nil {
		t.Fatalf("first complete: %v", err)
	}

	_, err := f.svc.CompleteTrip(context.Background(), booking.ID, "d1")
	if !errors.Is(err, service.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition on second complete, got %v", err)
	}

	if got := f.drivers.Driver("d1").Balance; got != 432.50 {
		t.Errorf("expected single settlement, driver balance %f", got)
	}
	if got, _ := f.platform.GetBalance(context.Background()); got != 2517.50 {
		t.Errorf("expected single commission credit, platform balance %f", got)
	}
}

func TestStartTrip_OnlyAssignedDriver(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.addCustomer("c1", 1000)
	f.addApprovedDriver("d1", 200)
	f.addApprovedDriver("d2", 200)

	booking := f.createBooking(t, "c1", domain.PaymentMethodCash)
	f.submitOffer(t, booking.ID, "d1", 250)
	f.acceptOffer(t, booking.ID, "c1", "d1", 250)

	_, err := f.svc.StartTrip(context.Background(), booking.ID, "d2")
	if !errors.Is(err, service.ErrNotAssignedDriver) {
		t.Errorf("expected ErrNotAssignedDriver, got %v", err)
	}
}

func TestMarkReachedPickup_Idempotent(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.addCustomer("c1", 1000)
	f.addApprovedDriver("d1", 200)

	booking := f.createBooking(t, "c1", domain.PaymentMethodCash)
	f.submitOffer(t, booking.ID, "d1", 250)
	f.acceptOffer(t, booking.ID, "c1", "d1", 250)

	for i := 0; i < 2; i++ {
		b, err := f.svc.MarkReachedPickup(context.Background(), booking.ID, "d1")
		if err != nil {
			t.Fatalf("mark reached pickup (call %d): %v", i+1, err)
		}
		if !b.DriverReachedPickup {
			t.Errorf("call %d: expected DriverReachedPickup set", i+1)
		}
	}
}

// ──────────────────────────────────────────────
// CANCELLATION
// ──────────────────────────────────────────────

func TestCancelBooking_FromAssignedRefundsEscrow(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.addCustomer("c1", 1000)
	f.addApprovedDriver("d1", 200)

	booking := f.createBooking(t, "c1", domain.PaymentMethodWallet)
	f.submitOffer(t, booking.ID, "d1", 250)
	f.acceptOffer(t, booking.ID, "c1", "d1", 250)

	cancelled, err := f.svc.CancelBooking(context.Background(), booking.ID, "c1", "driver too far")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if got := f.customers.Balance("c1"); got != 1000 {
		t.Errorf("expected escrow refunded to 1000, got %f", got)
	}
	if cancelled.Status != domain.BookingStatusCancelled {
		t.Errorf("expected CANCELLED, got %s", cancelled.Status)
	}
	if cancelled.CancelledAt.IsZero() {
		t.Error("expected CancelledAt set")
	}
	if cancelled.CancelReason != "driver too far" {
		t.Errorf("expected reason recorded, got %q", cancelled.CancelReason)
	}
}

func TestCancelBooking_RejectedInProgress(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.addCustomer("c1", 1000)
	f.addApprovedDriver("d1", 200)

	booking := f.createBooking(t, "c1", domain.PaymentMethodWallet)
	f.submitOffer(t, booking.ID, "d1", 250)
	f.acceptOffer(t, booking.ID, "c1", "d1", 250)
	f.startTrip(t, booking.ID, "d1")

	_, err := f.svc.CancelBooking(context.Background(), booking.ID, "c1", "")
	if !errors.Is(err, service.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestCancelBooking_TwiceRejected(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.addCustomer("c1", 1000)

	booking := f.createBooking(t, "c1", domain.PaymentMethodWallet)

	if _, err := f.svc.CancelBooking(context.Background(), booking.ID, "c1", ""); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	_, err := f.svc.CancelBooking(context.Background(), booking.ID, "c1", "")
	if !errors.Is(err, service.ErrBookingAlreadyCancelled) {
		t.Errorf("expected ErrBookingAlreadyCancelled, got %v", err)
	}
}

// ──────────────────────────────────────────────
// RATING
// ──────────────────────────────────────────────

func TestRateBooking_UpdatesDriverAverage(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.addCustomer("c1", 1000)
	f.addApprovedDriver("d1", 200)

	booking := f.createBooking(t, "c1", domain.PaymentMethodCash)
	f.submitOffer(t, booking.ID, "d1", 250)
	f.acceptOffer(t, booking.ID, "c1", "d1", 250)
	f.startTrip(t, booking.ID, "d1")
	if _, err := f.svc.CompleteTrip(context.Background(), booking.ID, "d1"); err != nil {
		t.Fatalf("complete: %v", err)
	}

	if _, err := f.svc.RateBooking(context.Background(), booking.ID, "c1", 5); err != nil {
		t.Fatalf("rate: %v", err)
	}

	driver := f.drivers.Driver("d1")
	if driver.TotalRatings != 1 {
		t.Errorf("expected 1 total rating, got %d", driver.TotalRatings)
	}
	if driver.Rating != 5.0 {
		t.Errorf("expected rating 5.0 after first review, got %f", driver.Rating)
	}

	_, err := f.svc.RateBooking(context.Background(), booking.ID, "c1", 1)
	if !errors.Is(err, service.ErrAlreadyRated) {
		t.Errorf("expected ErrAlreadyRated, got %v", err)
	}
}

func TestRateBooking_RejectedBeforeCompletion(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.addCustomer("c1", 1000)
	f.addApprovedDriver("d1", 200)

	booking := f.createBooking(t, "c1", domain.PaymentMethodCash)
	f.submitOffer(t, booking.ID, "d1", 250)
	f.acceptOffer(t, booking.ID, "c1", "d1", 250)

	_, err := f.svc.RateBooking(context.Background(), booking.ID, "c1", 5)
	if !errors.Is(err, service.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}
