package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"inride/internal/domain"
	"inride/internal/payments"
	"inride/internal/repository"
)

// WalletService handles wallet top-ups and balance reads. Fare escrow and
// settlement live in BookingService; this service only moves money in.
type WalletService struct {
	customers repository.CustomerRepository
	drivers   repository.DriverRepository
	platform  repository.PlatformRepository
	psp       payments.PSP
	notifier  Notifier
	logger    *zap.Logger
}

// NewWalletService creates a new WalletService. psp may be nil when card
// top-ups are disabled.
func NewWalletService(
	customers repository.CustomerRepository,
	drivers repository.DriverRepository,
	platform repository.PlatformRepository,
	psp payments.PSP,
	notifier Notifier,
	logger *zap.Logger,
) *WalletService {
	return &WalletService{
		customers: customers,
		drivers:   drivers,
		platform:  platform,
		psp:       psp,
		notifier:  notifier,
		logger:    logger,
	}
}

// chargeCard places and captures a hold for the amount. The hold is
// released if the capture fails, so a declined top-up leaves no dangling
// authorization.
func (s *WalletService) chargeCard(accountID string, amount float64) error {
	if s.psp == nil {
		return ErrCardDeclined
	}

	holdID, err := s.psp.Hold(accountID, amount)
	if err != nil {
		s.logger.Warn("card hold failed", zap.String("account_id", accountID), zap.Error(err))
		return ErrCardDeclined
	}

	if err := s.psp.Capture(holdID); err != nil {
		s.logger.Warn("card capture failed", zap.String("hold_id", holdID), zap.Error(err))
		if cancelErr := s.psp.Cancel(holdID); cancelErr != nil {
			s.logger.Error("card hold release failed", zap.String("hold_id", holdID), zap.Error(cancelErr))
		}
		return ErrCardDeclined
	}

	return nil
}

// TopUpCustomer credits a customer's wallet. CARD top-ups are charged
// through the PSP before the wallet is credited.
func (s *WalletService) TopUpCustomer(ctx context.Context, customerID string, amount float64, method domain.PaymentMethod) (float64, error) {
	if customerID == "" {
		return 0, ErrInvalidID
	}
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	if method == domain.PaymentMethodCard {
		if err := s.chargeCard(customerID, amount); err != nil {
			return 0, err
		}
	}

	if err := s.customers.AdjustBalance(ctx, customerID, amount); err != nil {
		return 0, err
	}

	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return 0, err
	}

	s.notifier.Notify(ctx, Notification{
		RecipientID: customerID,
		Role:        domain.RoleCustomer,
		Type:        NotificationWalletTopUp,
		Message:     fmt.Sprintf("Wallet topped up by %.2f. New balance: %.2f.", amount, customer.Balance),
	})

	return customer.Balance, nil
}

// TopUpDriver credits a driver's wallet. Drivers top up to stay above the
// bidding floor after commissions.
func (s *WalletService) TopUpDriver(ctx context.Context, driverID string, amount float64, method domain.PaymentMethod) (float64, error) {
	if driverID == "" {
		return 0, ErrInvalidID
	}
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	if method == domain.PaymentMethodCard {
		if err := s.chargeCard(driverID, amount); err != nil {
			return 0, err
		}
	}

	if err := s.drivers.AdjustBalance(ctx, driverID, amount); err != nil {
		return 0, err
	}

	driver, err := s.drivers.GetByID(ctx, driverID)
	if err != nil {
		return 0, err
	}

	s.notifier.Notify(ctx, Notification{
		RecipientID: driverID,
		Role:        domain.RoleDriver,
		Type:        NotificationWalletTopUp,
		Message:     fmt.Sprintf("Wallet topped up by %.2f. New balance: %.2f.", amount, driver.Balance),
	})

	return driver.Balance, nil
}

// CustomerBalance returns the customer's wallet balance.
func (s *WalletService) CustomerBalance(ctx context.Context, customerID string) (float64, error) {
	if customerID == "" {
		return 0, ErrInvalidID
	}
	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return 0, err
	}
	return customer.Balance, nil
}

// DriverBalance returns the driver's wallet balance.
func (s *WalletService) DriverBalance(ctx context.Context, driverID string) (float64, error) {
	if driverID == "" {
		return 0, ErrInvalidID
	}
	driver, err := s.drivers.GetByID(ctx, driverID)
	if err != nil {
		return 0, err
	}
	return driver.Balance, nil
}

// PlatformBalance returns the platform commission account balance.
func (s *WalletService) PlatformBalance(ctx context.Context) (float64, error) {
	return s.platform.GetBalance(ctx)
}
