package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"

	"github.com/JonasWeidner/CoachDesk/internal/pkg/env"
)

// ErrStripeNotConfigured means STRIPE_SECRET_KEY is missing or still a
// placeholder; no API call is attempted in that state.
var ErrStripeNotConfigured = errors.New("stripe secret key is not configured")

var stripeSetupOnce sync.Once

// EnsureStripeClient configures the process-wide Stripe client once. Safe to
// call from every request; only the first call does work.
func EnsureStripeClient() error {
	key := env.GetSecret("STRIPE_SECRET_KEY")
	if key == "" {
		return ErrStripeNotConfigured
	}
	stripeSetupOnce.Do(func() {
		stripe.Key = key
	})
	return nil
}

// CheckoutSessionInput describes a checkout session for one pending payment.
type CheckoutSessionInput struct {
	PendingPaymentID string
	Description      string
	AmountCents      int64
	ClientEmail      string
	SuccessURL       string
	CancelURL        string
}

// CreateCheckoutSession opens a Stripe Checkout session that carries the
// pending payment id as metadata. The webhook pipeline later correlates the
// completion event back to the local record through exactly this metadata.
func CreateCheckoutSession(ctx context.Context, in CheckoutSessionInput) (*stripe.CheckoutSession, error) {
	if err := EnsureStripeClient(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.PendingPaymentID) == "" {
		return nil, errors.New("pending payment id is required")
	}
	if in.AmountCents <= 0 {
		return nil, errors.New("amount must be positive")
	}

	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail: stripe.String(in.ClientEmail),
		SuccessURL:    stripe.String(in.SuccessURL),
		CancelURL:     stripe.String(in.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyUSD)),
					UnitAmount: stripe.Int64(in.AmountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(in.Description),
					},
				},
			},
		},
	}
	params.Context = ctx
	params.AddMetadata(MetadataPendingPaymentID, in.PendingPaymentID)

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return sess, nil
}
