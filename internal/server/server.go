// Package server assembles the fiber application.
package server

import (
	"time"

	"catalog/internal/config"
	"catalog/internal/handlers"
	"catalog/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// HealthCheck reports whether a dependency is usable.
type HealthCheck func() error

// Deps are the collaborators the app routes to.
type Deps struct {
	Products *handlers.ProductHandler
	Verifier middleware.TokenVerifier
	Metrics  *middleware.Metrics
	Tracer   trace.Tracer
	Logger   *zap.Logger
	// Checks are reported by /health, keyed by dependency name.
	Checks map[string]HealthCheck
}

// New builds the fiber app with middleware, API routes, /health and
// /metrics.
func New(cfg *config.Config, deps Deps) *fiber.App {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = middleware.NewMetrics()
	}

	app := fiber.New(fiber.Config{
		AppName:               "catalog",
		DisableStartupMessage: true,
		UnescapePath:          true,
		ErrorHandler:          handlers.ErrorHandler(logger),
	})

	app.Use(requestid.New())
	app.Use(middleware.Tracing(deps.Tracer))
	app.Use(middleware.RequestLogger(logger))
	// Inside the logger so recovered panics still get a request log line.
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(metrics.Middleware())

	app.Get("/health", healthHandler(deps.Checks))
	app.Get("/metrics", metrics.Handler())

	var gate []fiber.Handler
	if cfg.Auth.Enabled && deps.Verifier != nil {
		gate = append(gate, middleware.AuthRequired(deps.Verifier, logger))
	}

	api := app.Group(cfg.APIPrefix)
	if deps.Products != nil {
		deps.Products.RegisterRoutes(api, gate...)
	}
	return app
}

func healthHandler(checks map[string]HealthCheck) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := "healthy"
		code := fiber.StatusOK
		components := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(); err != nil {
				components[name] = err.Error()
				status = "unhealthy"
				code = fiber.StatusServiceUnavailable
				continue
			}
			components[name] = "ok"
		}
		return c.Status(code).JSON(fiber.Map{
			"status":     status,
			"time":       time.Now().Format(time.RFC3339),
			"components": components,
		})
	}
}
