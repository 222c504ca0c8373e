package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"

	"github.com/JonasWeidner/CoachDesk/internal/pkg/payments"
)

const webhookTimeout = 25 * time.Second

// WebhookController handles inbound payment provider webhooks. Dependencies
// are constructor-injected so tests can substitute fakes.
type WebhookController struct {
	verifier payments.Verifier
	service  *payments.Service
}

// NewWebhookController creates the webhook controller.
func NewWebhookController(verifier payments.Verifier, service *payments.Service) *WebhookController {
	return &WebhookController{verifier: verifier, service: service}
}

// HandleStripeWebhook is the pipeline entry point. Only configuration and
// authenticity failures produce a non-200; everything past the signature
// gate acknowledges success so the provider never retries events we chose
// not to act on.
func (ctl *WebhookController) HandleStripeWebhook(c *fiber.Ctx) error {
	start := time.Now()
	requestID := uuid.NewString()

	// The raw bytes, untouched. Signature verification over a re-serialized
	// body would break on whitespace and key ordering.
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := strings.TrimSpace(c.Get("Stripe-Signature"))

	event, err := ctl.verifier.Verify(rawBody, signature)
	if err != nil {
		if errors.Is(err, payments.ErrNotConfigured) {
			log.Errorf("webhook %s rejected, signing secret not configured", requestID)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":     "webhook_not_configured",
				"requestId": requestID,
			})
		}
		log.Warnf("webhook %s rejected, invalid signature: %v", requestID, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":     "invalid_signature",
			"requestId": requestID,
		})
	}

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			// Fail closed: an acted-on event type with an unreadable payload
			// must not continue with zero values deep in the amount math.
			log.Warnf("webhook %s: malformed checkout.session.completed payload: %v", requestID, err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":     "invalid_payload",
				"requestId": requestID,
			})
		}

		ctx, cancel := context.WithTimeout(context.Background(), webhookTimeout)
		defer cancel()

		result := ctl.service.CompleteCheckout(ctx, checkoutCompletedFromSession(event, &session, rawBody))

		resp := fiber.Map{
			"received":  true,
			"requestId": requestID,
			"duration":  time.Since(start).String(),
		}
		switch result.Outcome {
		case payments.OutcomeDuplicate:
			resp["duplicate"] = true
		case payments.OutcomeIgnored:
			resp["ignored"] = true
		}
		return c.Status(fiber.StatusOK).JSON(resp)

	default:
		// Unknown event types are acknowledged and otherwise ignored.
		log.Infof("webhook %s: ignoring event type %s", requestID, event.Type)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"received":  true,
			"ignored":   true,
			"requestId": requestID,
			"duration":  time.Since(start).String(),
		})
	}
}

func checkoutCompletedFromSession(event *stripe.Event, session *stripe.CheckoutSession, rawBody []byte) payments.CheckoutCompleted {
	payerEmail := session.CustomerEmail
	payerName := ""
	if session.CustomerDetails != nil {
		if session.CustomerDetails.Email != "" {
			payerEmail = session.CustomerDetails.Email
		}
		payerName = session.CustomerDetails.Name
	}

	return payments.CheckoutCompleted{
		EventID:          event.ID,
		EventType:        event.Type,
		SessionID:        session.ID,
		PayerEmail:       payerEmail,
		PayerName:        payerName,
		AmountTotalCents: session.AmountTotal,
		Currency:         string(session.Currency),
		PendingPaymentID: session.Metadata[payments.MetadataPendingPaymentID],
		RawPayload:       rawBody,
	}
}
