package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v74"

	"github.com/JonasWeidner/CoachDesk/app/models"
	"github.com/JonasWeidner/CoachDesk/internal/pkg/payments"
)

type capturingCreator struct {
	input  payments.CheckoutSessionInput
	called int
	err    error
}

func (c *capturingCreator) create(ctx context.Context, in payments.CheckoutSessionInput) (*stripe.CheckoutSession, error) {
	c.called++
	c.input = in
	if c.err != nil {
		return nil, c.err
	}
	return &stripe.CheckoutSession{
		ID:  "cs_new",
		URL: "https://checkout.stripe.com/c/pay/cs_new",
	}, nil
}

func checkoutTestApp(repo *memPaymentRepo, creator *capturingCreator) *fiber.App {
	ctl := NewCheckoutController(repo, creator.create)
	app := fiber.New()
	app.Post("/api/v1/checkout-sessions", ctl.HandleCreateCheckoutSession)
	return app
}

func postCheckout(t *testing.T, app *fiber.App, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout-sessions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &parsed))
	return resp, parsed
}

const validCheckoutBody = `{
	"client_name": "Dana Miles",
	"client_email": "dana@example.com",
	"description": "1:1 Coaching Package",
	"base_amount_cents": 150000,
	"notes": "6 sessions, paid upfront"
}`

func TestHandleCreateCheckoutSession_HappyPath(t *testing.T) {
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_4eC39HqLyjWDarjtT1zdp7dc")

	repo := newMemPaymentRepo()
	creator := &capturingCreator{}
	app := checkoutTestApp(repo, creator)

	resp, body := postCheckout(t, app, validCheckoutBody)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_new", body["checkout_url"])
	assert.Equal(t, fmt.Sprintf("INV-%d-0001", time.Now().Year()), body["invoice_number"])

	id, _ := body["id"].(string)
	require.NotEmpty(t, id)

	p := repo.records[id]
	require.NotNil(t, p)
	assert.Equal(t, models.PaymentStatusPending, p.Status)
	assert.Equal(t, "1500.00", p.BaseAmount.StringFixed(2))
	assert.Equal(t, "Dana Miles", p.ClientName)

	// The session must carry the correlation id the webhook comes back with.
	assert.Equal(t, 1, creator.called)
	assert.Equal(t, id, creator.input.PendingPaymentID)
	assert.Equal(t, int64(150000), creator.input.AmountCents)
	assert.Equal(t, "dana@example.com", creator.input.ClientEmail)
}

func TestHandleCreateCheckoutSession_ValidationFailure(t *testing.T) {
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_4eC39HqLyjWDarjtT1zdp7dc")

	repo := newMemPaymentRepo()
	creator := &capturingCreator{}
	app := checkoutTestApp(repo, creator)

	resp, body := postCheckout(t, app, `{"client_name": "Dana Miles", "base_amount_cents": 0}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation_failed", body["error"])
	assert.Empty(t, repo.records)
	assert.Equal(t, 0, creator.called)
}

func TestHandleCreateCheckoutSession_InvalidBody(t *testing.T) {
	app := checkoutTestApp(newMemPaymentRepo(), &capturingCreator{})

	resp, body := postCheckout(t, app, `{not json`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_request_body", body["error"])
}

func TestHandleCreateCheckoutSession_StripeNotConfigured(t *testing.T) {
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_changeme")

	app := checkoutTestApp(newMemPaymentRepo(), &capturingCreator{})

	resp, body := postCheckout(t, app, validCheckoutBody)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "stripe_not_configured", body["error"])
}

func TestHandleCreateCheckoutSession_SessionFailure(t *testing.T) {
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_4eC39HqLyjWDarjtT1zdp7dc")

	repo := newMemPaymentRepo()
	creator := &capturingCreator{err: errors.New("stripe 502")}
	app := checkoutTestApp(repo, creator)

	resp, body := postCheckout(t, app, validCheckoutBody)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "checkout_session_failed", body["error"])
	// The pending record is created before the provider call; a failed
	// session leaves it pending, never completed.
	assert.Len(t, repo.records, 1)
}
