package tests

import (
	"testing"

	"inride/internal/domain"
	"inride/internal/service"
)

func TestSettle_Wallet(t *testing.T) {
	t.Parallel()

	s := service.Settle(250, domain.PaymentMethodWallet)

	if s.Commission != 17.50 {
		t.Errorf("expected commission 17.50, got %f", s.Commission)
	}
	if s.DriverDelta != 232.50 {
		t.Errorf("expected driver delta 232.50, got %f", s.DriverDelta)
	}
	if s.PlatformDelta != 17.50 {
		t.Errorf("expected platform delta 17.50, got %f", s.PlatformDelta)
	}
}

func TestSettle_ExternalMethods(t *testing.T) {
	t.Parallel()

	for _, method := range []domain.PaymentMethod{
		domain.PaymentMethodCash,
		domain.PaymentMethodCard,
		domain.PaymentMethodUPI,
	} {
		s := service.Settle(250, method)

		if s.Commission != 17.50 {
			t.Errorf("%s: expected commission 17.50, got %f", method, s.Commission)
		}
		if s.DriverDelta != -17.50 {
			t.Errorf("%s: expected driver delta -17.50, got %f", method, s.DriverDelta)
		}
		if s.PlatformDelta != 17.50 {
			t.Errorf("%s: expected platform delta 17.50, got %f", method, s.PlatformDelta)
		}
	}
}

func TestSettle_RoundsToCents(t *testing.T) {
	t.Parallel()

	// 7% of 99.99 is 6.9993; the ledger works in cents.
	s := service.Settle(99.99, domain.PaymentMethodWallet)

	if s.Commission != 7.00 {
		t.Errorf("expected commission 7.00, got %f", s.Commission)
	}
	if s.DriverDelta != 92.99 {
		t.Errorf("expected driver delta 92.99, got %f", s.DriverDelta)
	}
}
