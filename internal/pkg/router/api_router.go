package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/JonasWeidner/CoachDesk/app/controllers"
)

type ApiRouter struct {
	checkout *controllers.CheckoutController
}

func NewApiRouter(checkout *controllers.CheckoutController) *ApiRouter {
	return &ApiRouter{checkout: checkout}
}

func (h *ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())

	v1 := api.Group("/v1")
	v1.Post("/checkout-sessions", h.checkout.HandleCreateCheckoutSession)
}
