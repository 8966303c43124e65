package service

import (
	"context"

	"go.uber.org/zap"

	"inride/internal/domain"
)

// Notification types.
const (
	NotificationOfferReceived   = "OFFER_RECEIVED"
	NotificationOfferAccepted   = "OFFER_ACCEPTED"
	NotificationDriverReached   = "DRIVER_REACHED"
	NotificationTripStarted     = "TRIP_STARTED"
	NotificationTripCompleted   = "TRIP_COMPLETED"
	NotificationBookingCancel   = "BOOKING_CANCELLED"
	NotificationDriverVerdict   = "DRIVER_VERIFICATION"
	NotificationWalletTopUp     = "WALLET_TOPUP"
	NotificationVerificationOTP = "VERIFICATION_CODE"
)

// Notification is a message for a single recipient.
type Notification struct {
	RecipientID string
	Role        domain.Role
	Type        string
	Message     string
}

// Notifier delivers notifications. Delivery is best-effort; failures must
// never fail the operation that triggered them.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// LogNotifier records notifications in the service log. Stands in for a
// push/SMS gateway; the structured fields carry everything a real gateway
// consumer needs.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a new LogNotifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Ensure the interface is satisfied.
var _ Notifier = (*LogNotifier)(nil)

// Notify logs the notification.
func (n *LogNotifier) Notify(ctx context.Context, notification Notification) {
	n.logger.Info("notification",
		zap.String("recipient_id", notification.RecipientID),
		zap.String("role", string(notification.Role)),
		zap.String("type", notification.Type),
		zap.String("message", notification.Message),
	)
}
