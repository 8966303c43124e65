package tests

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"inride/internal/domain"
	"inride/internal/service"
)

type walletFixture struct {
	customers *MockCustomerRepository
	drivers   *MockDriverRepository
	platform  *MockPlatformRepository
	psp       *MockPSP
	svc       *service.WalletService
}

func newWalletFixture() *walletFixture {
	customers := NewMockCustomerRepository()
	drivers := NewMockDriverRepository()
	platform := NewMockPlatformRepository(2500.00)
	psp := NewMockPSP()
	logger := zap.NewNop()

	svc := service.NewWalletService(customers, drivers, platform, psp, service.NewLogNotifier(logger), logger)

	return &walletFixture{
		customers: customers,
		drivers:   drivers,
		platform:  platform,
		psp:       psp,
		svc:       svc,
	}
}

func TestTopUpCustomer_CreditsWallet(t *testing.T) {
	t.Parallel()

	f := newWalletFixture()
	f.customers.AddCustomer(&domain.Customer{ID: "c1", Balance: 100})

	balance, err := f.svc.TopUpCustomer(context.Background(), "c1", 400, domain.PaymentMethodUPI)
	if err != nil {
		t.Fatalf("top up: %v", err)
	}
	if balance != 500 {
		t.Errorf("expected balance 500, got %f", balance)
	}
}

func TestTopUpCustomer_RejectsNonPositiveAmount(t *testing.T) {
	t.Parallel()

	f := newWalletFixture()
	f.customers.AddCustomer(&domain.Customer{ID: "c1", Balance: 100})

	for _, amount := range []float64{0, -50} {
		_, err := f.svc.TopUpCustomer(context.Background(), "c1", amount, domain.PaymentMethodUPI)
		if !errors.Is(err, service.ErrInvalidAmount) {
			t.Errorf("amount %f: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
}

func TestTopUpCustomer_CardChargesThroughPSP(t *testing.T) {
	t.Parallel()

	f := newWalletFixture()
	f.customers.AddCustomer(&domain.Customer{ID: "c1", Balance: 0})

	balance, err := f.svc.TopUpCustomer(context.Background(), "c1", 300, domain.PaymentMethodCard)
	if err != nil {
		t.Fatalf("top up: %v", err)
	}
	if balance != 300 {
		t.Errorf("expected balance 300, got %f", balance)
	}
	if f.psp.HoldCallCount != 1 || f.psp.CaptureCallCount != 1 {
		t.Errorf("expected one hold and one capture, got %d/%d", f.psp.HoldCallCount, f.psp.CaptureCallCount)
	}
	if f.psp.OpenHolds() != 0 {
		t.Errorf("expected no open holds, got %d", f.psp.OpenHolds())
	}
}

func TestTopUpCustomer_CaptureFailureReleasesHold(t *testing.T) {
	t.Parallel()

	f := newWalletFixture()
	f.customers.AddCustomer(&domain.Customer{ID: "c1", Balance: 100})
	f.psp.CaptureError = errors.New("card network timeout")

	_, err := f.svc.TopUpCustomer(context.Background(), "c1", 300, domain.PaymentMethodCard)
	if !errors.Is(err, service.ErrCardDeclined) {
		t.Errorf("expected ErrCardDeclined, got %v", err)
	}
	if f.psp.CancelCallCount != 1 {
		t.Errorf("expected the hold to be released, cancel count %d", f.psp.CancelCallCount)
	}
	if got := f.customers.Balance("c1"); got != 100 {
		t.Errorf("expected wallet untouched at 100, got %f", got)
	}
}

func TestTopUpDriver_CreditsWallet(t *testing.T) {
	t.Parallel()

	f := newWalletFixture()
	f.drivers.AddDriver(&domain.Driver{ID: "d1", Balance: 50})

	balance, err := f.svc.TopUpDriver(context.Background(), "d1", 100, domain.PaymentMethodUPI)
	if err != nil {
		t.Fatalf("top up: %v", err)
	}
	if balance != 150 {
		t.Errorf("expected balance 150, got %f", balance)
	}
}
