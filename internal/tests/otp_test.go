package tests

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"inride/internal/oracle"
	"inride/internal/service"
)

func newOTPService(store *MockOTPStore) *service.OTPService {
	logger := zap.NewNop()
	return service.NewOTPService(store, oracle.NewFallback(), service.NewLogNotifier(logger), logger)
}

func TestOTP_SendAndVerify(t *testing.T) {
	t.Parallel()

	store := NewMockOTPStore()
	svc := newOTPService(store)
	ctx := context.Background()

	if err := svc.SendCode(ctx, "Alice", "alice@example.com", "email"); err != nil {
		t.Fatalf("send: %v", err)
	}

	code := store.Code("alice@example.com")
	if len(code) != 6 {
		t.Fatalf("expected 6-digit code, got %q", code)
	}

	if err := svc.VerifyCode(ctx, "alice@example.com", code); err != nil {
		t.Errorf("verify: %v", err)
	}

	// Codes are single use.
	err := svc.VerifyCode(ctx, "alice@example.com", code)
	if !errors.Is(err, service.ErrOTPMismatch) {
		t.Errorf("expected ErrOTPMismatch on reuse, got %v", err)
	}
}

func TestOTP_WrongCodeRejected(t *testing.T) {
	t.Parallel()

	store := NewMockOTPStore()
	svc := newOTPService(store)
	ctx := context.Background()

	if err := svc.SendCode(ctx, "Alice", "alice@example.com", "email"); err != nil {
		t.Fatalf("send: %v", err)
	}

	err := svc.VerifyCode(ctx, "alice@example.com", "000000")
	if err == nil && store.Code("alice@example.com") == "000000" {
		// One-in-a-million collision with the real code; nothing to assert.
		return
	}
	if !errors.Is(err, service.ErrOTPMismatch) {
		t.Errorf("expected ErrOTPMismatch, got %v", err)
	}
}

func TestOTP_ResendReplacesCode(t *testing.T) {
	t.Parallel()

	store := NewMockOTPStore()
	svc := newOTPService(store)
	ctx := context.Background()

	if err := svc.SendCode(ctx, "Alice", "alice@example.com", "email"); err != nil {
		t.Fatalf("send: %v", err)
	}
	first := store.Code("alice@example.com")

	if err := svc.SendCode(ctx, "Alice", "alice@example.com", "email"); err != nil {
		t.Fatalf("resend: %v", err)
	}
	second := store.Code("alice@example.com")

	if first != second {
		if err := svc.VerifyCode(ctx, "alice@example.com", first); !errors.Is(err, service.ErrOTPMismatch) {
			t.Errorf("expected stale code rejected, got %v", err)
		}
	}
	if err := svc.VerifyCode(ctx, "alice@example.com", second); err != nil {
		t.Errorf("verify latest code: %v", err)
	}
}
