package api

import (
	"granabox/docs"
	"granabox/internal/api/handlers"
	"granabox/pkg/config"
	"granabox/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

type Handlers struct {
	Category    *handlers.CategoryHandler
	Transaction *handlers.TransactionHandler
	Recurrence  *handlers.RecurrenceHandler
	Health      *handlers.HealthHandler
}

func SetupRouter(cfg *config.ServerConfig, h Handlers, appLogger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "granabox",
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: handlers.ErrorHandler(appLogger),
	})

	// Middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger(appLogger))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,X-Request-ID," + handlers.HeaderTimeZone,
	}))

	// Swagger: importing docs registers the API document through its init()
	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/swagger/index.html", fiber.StatusFound)
	})
	app.Get("/health", h.Health.Check)

	api := app.Group("/api/v1")

	categories := api.Group("/categories")
	categories.Post("", h.Category.Create)
	categories.Get("", h.Category.List)
	categories.Get("/:id", h.Category.Get)
	categories.Put("/:id", h.Category.Update)
	categories.Patch("/:id", h.Category.Update)
	categories.Delete("/:id", h.Category.Delete)

	// static segments are registered before /:id
	transactions := api.Group("/transactions")
	transactions.Post("", h.Transaction.Create)
	transactions.Get("", h.Transaction.List)
	transactions.Get("/years", h.Transaction.Years)
	transactions.Get("/overview", h.Transaction.Overview)
	transactions.Get("/:id", h.Transaction.Get)
	transactions.Put("/:id", h.Transaction.Update)
	transactions.Patch("/:id", h.Transaction.Update)
	transactions.Delete("/:id", h.Transaction.Delete)
	transactions.Patch("/:id/status", h.Transaction.Status)
	transactions.Put("/:id/series", h.Recurrence.UpdateFrom)
	transactions.Delete("/:id/series", h.Recurrence.DeleteFrom)

	recurrences := api.Group("/recurrences")
	recurrences.Post("", h.Recurrence.Create)
	recurrences.Get("/:recurrenceId", h.Recurrence.List)

	return app
}
