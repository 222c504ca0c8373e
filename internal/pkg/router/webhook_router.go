package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/JonasWeidner/CoachDesk/app/controllers"
)

// WebhookRouter exposes the provider webhook endpoints. No rate limiting
// here: throttling the provider only provokes retries.
type WebhookRouter struct {
	webhook *controllers.WebhookController
}

func NewWebhookRouter(webhook *controllers.WebhookController) *WebhookRouter {
	return &WebhookRouter{webhook: webhook}
}

func (h *WebhookRouter) InstallRouter(app *fiber.App) {
	app.Post("/webhook/stripe", h.webhook.HandleStripeWebhook)
}
