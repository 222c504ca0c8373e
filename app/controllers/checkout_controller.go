package controllers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"

	"github.com/JonasWeidner/CoachDesk/app/models"
	"github.com/JonasWeidner/CoachDesk/app/repository"
	"github.com/JonasWeidner/CoachDesk/internal/pkg/env"
	"github.com/JonasWeidner/CoachDesk/internal/pkg/payments"
)

// SessionCreator opens a provider checkout session. Injected so handler
// tests run without a Stripe account.
type SessionCreator func(ctx context.Context, in payments.CheckoutSessionInput) (*stripe.CheckoutSession, error)

// CheckoutController creates pending payments and their provider checkout
// sessions. The invoice number is assigned here and stays stable for the
// payment's lifetime.
type CheckoutController struct {
	payments      repository.PendingPaymentRepository
	createSession SessionCreator
	validate      *validator.Validate
}

// NewCheckoutController creates the checkout controller. A nil creator
// defaults to the Stripe implementation.
func NewCheckoutController(repo repository.PendingPaymentRepository, creator SessionCreator) *CheckoutController {
	if creator == nil {
		creator = payments.CreateCheckoutSession
	}
	return &CheckoutController{
		payments:      repo,
		createSession: creator,
		validate:      validator.New(),
	}
}

type createCheckoutRequest struct {
	ClientName      string `json:"client_name" validate:"required,max=200"`
	ClientEmail     string `json:"client_email" validate:"required,email,max=200"`
	Description     string `json:"description" validate:"required,max=255"`
	BaseAmountCents int64  `json:"base_amount_cents" validate:"required,gt=0"`
	Notes           string `json:"notes" validate:"max=2000"`
}

// HandleCreateCheckoutSession creates the pending payment record and the
// Stripe Checkout session carrying its id as correlation metadata.
func (ctl *CheckoutController) HandleCreateCheckoutSession(c *fiber.Ctx) error {
	var req createCheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_request_body"})
	}
	if err := ctl.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "details": err.Error()})
	}
	if err := payments.EnsureStripeClient(); err != nil {
		if errors.Is(err, payments.ErrStripeNotConfigured) {
			log.Errorf("checkout session rejected, stripe key not configured")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "stripe_not_configured"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_error"})
	}

	invoiceNumber, err := ctl.nextInvoiceNumber()
	if err != nil {
		log.Errorf("could not derive invoice number: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "invoice_number_failed"})
	}

	payment := &models.PendingPayment{
		ID:            uuid.NewString(),
		ClientName:    req.ClientName,
		ClientEmail:   req.ClientEmail,
		Description:   req.Description,
		Notes:         req.Notes,
		BaseAmount:    payments.FromCents(req.BaseAmountCents),
		InvoiceNumber: invoiceNumber,
		Status:        models.PaymentStatusPending,
	}
	if err := ctl.payments.Create(payment); err != nil {
		log.Errorf("could not create pending payment: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "payment_create_failed"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	base := env.GetEnv("PUBLIC_DOMAIN", "http://localhost:4000")
	sess, err := ctl.createSession(ctx, payments.CheckoutSessionInput{
		PendingPaymentID: payment.ID,
		Description:      payment.Description,
		AmountCents:      req.BaseAmountCents,
		ClientEmail:      payment.ClientEmail,
		SuccessURL:       base + "/payment/success",
		CancelURL:        base + "/payment/cancelled",
	})
	if err != nil {
		log.Errorf("could not create checkout session for payment %s: %v", payment.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "checkout_session_failed"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":             payment.ID,
		"invoice_number": payment.InvoiceNumber,
		"checkout_url":   sess.URL,
	})
}

// nextInvoiceNumber derives a yearly sequential invoice number from the
// record count. Good enough for a single-instance deployment; collisions
// surface through the unique index on invoice_number.
func (ctl *CheckoutController) nextInvoiceNumber() (string, error) {
	count, err := ctl.payments.Count()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%d-%04d", time.Now().Year(), count+1), nil
}
