package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/JonasWeidner/CoachDesk/app/controllers"
	"github.com/JonasWeidner/CoachDesk/app/repository"
	"github.com/JonasWeidner/CoachDesk/internal/pkg/audit"
	"github.com/JonasWeidner/CoachDesk/internal/pkg/cache"
	"github.com/JonasWeidner/CoachDesk/internal/pkg/database"
	"github.com/JonasWeidner/CoachDesk/internal/pkg/env"
	"github.com/JonasWeidner/CoachDesk/internal/pkg/invoice"
	"github.com/JonasWeidner/CoachDesk/internal/pkg/mail"
	"github.com/JonasWeidner/CoachDesk/internal/pkg/payments"
	"github.com/JonasWeidner/CoachDesk/internal/pkg/router"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	repository.InitializeFactory(database.GetDB())
	repos := repository.GetGlobalRepositories()

	service := payments.NewService(payments.ServiceConfig{
		Payments: repos.PendingPayment,
		Events:   repos.WebhookEvent,
		Auditor:  audit.NewRecorder(repos.AuditLog),
		Renderer: invoice.NewPDFRendererFromEnv(),
		Mailer:   mail.GetMailer(),
		Dedup:    payments.NewCacheDeduper(72 * time.Hour),
	})

	webhookController := controllers.NewWebhookController(payments.NewVerifierFromEnv(), service)
	checkoutController := controllers.NewCheckoutController(repos.PendingPayment, nil)

	app := fiber.New(fiber.Config{
		AppName: "CoachDesk",
	})
	app.Use(recover.New(), logger.New())
	app.Get("/metrics", monitor.New())

	// ROUTER
	router.InstallRouter(app,
		router.NewWebhookRouter(webhookController),
		router.NewApiRouter(checkoutController),
	)

	return app
}
