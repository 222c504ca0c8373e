package payments

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/webhook"

	"github.com/JonasWeidner/CoachDesk/internal/pkg/env"
)

// ErrNotConfigured means the webhook signing secret is missing or still the
// placeholder value. Callers must map this to a 500, not a 400: the request
// may well be authentic, we just cannot check it.
var ErrNotConfigured = errors.New("stripe webhook signing secret is not configured")

// Verifier checks that a webhook body+signature pair was produced by Stripe
// and returns the decoded event envelope. Verification always runs against
// the raw request bytes; a re-serialized body would not match the signature.
type Verifier interface {
	Verify(payload []byte, sigHeader string) (*stripe.Event, error)
}

type stripeVerifier struct {
	secret string
}

// NewVerifier creates a verifier with an explicit signing secret.
func NewVerifier(secret string) Verifier {
	return &stripeVerifier{secret: strings.TrimSpace(secret)}
}

// NewVerifierFromEnv creates a verifier from STRIPE_WEBHOOK_SECRET.
// Placeholder values are treated as "not configured".
func NewVerifierFromEnv() Verifier {
	return &stripeVerifier{secret: env.GetSecret("STRIPE_WEBHOOK_SECRET")}
}

func (v *stripeVerifier) Verify(payload []byte, sigHeader string) (*stripe.Event, error) {
	if v.secret == "" {
		return nil, ErrNotConfigured
	}

	// Stripe pins the API version per webhook endpoint; ignore mismatches so
	// an SDK upgrade does not start bouncing authentic events.
	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, v.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}
	return &event, nil
}
