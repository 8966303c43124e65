package payments

import (
	"fmt"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
)

// PSP places, captures, and releases holds on a customer's card. Amounts
// are in the platform currency's main unit.
type PSP interface {
	Hold(customerID string, amount float64) (string, error)
	Capture(holdID string) error
	Cancel(holdID string) error
}

// StripeClient is a PSP backed by Stripe payment intents with manual capture.
type StripeClient struct {
	currency string
}

// NewStripeClient configures the Stripe SDK with the given secret key.
func NewStripeClient(secretKey, currency string) *StripeClient {
	stripe.Key = secretKey
	return &StripeClient{currency: currency}
}

// Ensure the interface is satisfied.
var _ PSP = (*StripeClient)(nil)

// Hold authorizes the amount without capturing it and returns the intent ID.
func (c *StripeClient) Hold(customerID string, amount float64) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(int64(amount * 100)),
		Currency:      stripe.String(c.currency),
		Customer:      stripe.String(customerID),
		CaptureMethod: stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
		Confirm:       stripe.Bool(true),
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}

	return intent.ID, nil
}

// Capture settles a previously placed hold.
func (c *StripeClient) Capture(holdID string) error {
	_, err := paymentintent.Capture(holdID, &stripe.PaymentIntentCaptureParams{})
	if err != nil {
		return fmt.Errorf("capture payment intent %s: %w", holdID, err)
	}
	return nil
}

// Cancel releases a previously placed hold.
func (c *StripeClient) Cancel(holdID string) error {
	_, err := paymentintent.Cancel(holdID, &stripe.PaymentIntentCancelParams{})
	if err != nil {
		return fmt.Errorf("cancel payment intent %s: %w", holdID, err)
	}
	return nil
}
