package router

import (
	"github.com/gofiber/fiber/v2"
)

// Router installs a group of routes into the app.
type Router interface {
	InstallRouter(app *fiber.App)
}

// InstallRouter wires all route groups into the app.
func InstallRouter(app *fiber.App, routers ...Router) {
	for _, r := range routers {
		r.InstallRouter(app)
	}
}
