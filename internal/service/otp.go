package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"

	"inride/internal/oracle"
	redisstore "inride/internal/redis"
)

const otpTTL = 5 * time.Minute

// OTPService issues and verifies one-time verification codes. The oracle
// words the message; the code itself is generated locally so delivery and
// verification never depend on the oracle.
type OTPService struct {
	store    redisstore.OTPStoreInterface
	verifier oracle.Oracle
	notifier Notifier
	logger   *zap.Logger
}

// NewOTPService creates a new OTPService.
func NewOTPService(store redisstore.OTPStoreInterface, verifier oracle.Oracle, notifier Notifier, logger *zap.Logger) *OTPService {
	return &OTPService{
		store:    store,
		verifier: verifier,
		notifier: notifier,
		logger:   logger,
	}
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// SendCode issues a fresh code for the target and dispatches it. A new
// code replaces any outstanding one.
func (s *OTPService) SendCode(ctx context.Context, name, target, channel string) error {
	if target == "" {
		return ErrInvalidID
	}

	code, err := generateCode()
	if err != nil {
		return err
	}

	if err := s.store.SaveCode(ctx, target, code, otpTTL); err != nil {
		return err
	}

	message, err := s.verifier.OTPMessage(ctx, name, target, code, channel)
	if err != nil {
		s.logger.Warn("otp message generation failed", zap.String("target", target), zap.Error(err))
		message = fmt.Sprintf("Your InRide verification code is %s. Do not share this with anyone.", code)
	}

	s.notifier.Notify(ctx, Notification{
		RecipientID: target,
		Type:        NotificationVerificationOTP,
		Message:     message,
	})

	return nil
}

// VerifyCode checks the code against the outstanding one for the target
// and consumes it on success.
func (s *OTPService) VerifyCode(ctx context.Context, target, code string) error {
	if target == "" || code == "" {
		return ErrOTPMismatch
	}

	stored, err := s.store.GetCode(ctx, target)
	if err != nil {
		if errors.Is(err, redisstore.ErrCodeNotFound) {
			return ErrOTPMismatch
		}
		return err
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return ErrOTPMismatch
	}

	if err := s.store.DeleteCode(ctx, target); err != nil {
		s.logger.Warn("delete verified code", zap.String("target", target), zap.Error(err))
	}

	return nil
}
