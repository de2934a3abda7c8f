package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalog/internal/config"
	"catalog/internal/database"
	"catalog/internal/handlers"
	"catalog/internal/middleware"
	"catalog/internal/repositories"
	"catalog/internal/server"
	"catalog/internal/services"
	"catalog/internal/telemetry"
	"catalog/internal/validators"
	"catalog/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	if err := newCLI().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCLI() *cli.App {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "path to a config file; environment variables override it",
		EnvVars: []string{"CATALOG_CONFIG"},
	}

	return &cli.App{
		Name:  "catalog",
		Usage: "product catalog service",
		// Running with no command starts the API.
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Flags:  []cli.Flag{configFlag},
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "create or update the products table and exit",
				Flags:  []cli.Flag{configFlag},
				Action: migrate,
			},
		},
	}
}

func serve(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	logger, err := telemetry.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.Tracing, logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("Error shutting down tracing", zap.Error(err))
		}
	}()

	app, cleanup, err := buildApp(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", zap.String("addr", cfg.AppPort))
		serveErr <- app.Listen(cfg.AppPort)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	}

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("Error during Fiber shutdown", zap.Error(err))
	}
	logger.Info("Server gracefully stopped")
	return nil
}

func migrate(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if cfg.Database.Driver == config.DriverMemory {
		return errors.New("nothing to migrate for the memory driver")
	}
	logger, err := telemetry.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	dbCfg := cfg.Database
	dbCfg.AutoMigrate = true
	db, err := database.Open(dbCfg, logger)
	if err != nil {
		return err
	}
	logger.Info("Migration complete")
	return database.Close(db)
}

// buildApp wires storage, events, the product service and the HTTP app.
// cleanup releases everything buildApp opened.
func buildApp(cfg *config.Config, logger *zap.Logger) (*fiber.App, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	checks := map[string]server.HealthCheck{}

	var repo repositories.ProductRepository
	if cfg.Database.Driver == config.DriverMemory {
		repo = repositories.NewInMemoryProductRepository()
	} else {
		db, err := database.Open(cfg.Database, logger)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() {
			if err := database.Close(db); err != nil {
				logger.Warn("Error closing database", zap.Error(err))
			}
		})
		checks["database"] = func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Ping()
		}
		repo = repositories.NewGORMProductRepository(db)
	}

	opts := []services.Option{services.WithLogger(logger)}
	if cfg.RabbitMQ.URL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL, Queue: cfg.RabbitMQ.Queue}, logger)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, func() {
			if err := mqClient.Close(); err != nil {
				logger.Warn("Error closing RabbitMQ client", zap.Error(err))
			}
		})
		opts = append(opts, services.WithEventPublisher(mqClient))
	}

	service := services.NewProductService(
		repo,
		validators.NewProductAddRequestValidator(),
		validators.NewProductUpdateRequestValidator(),
		opts...,
	)

	deps := server.Deps{
		Products: handlers.NewProductHandler(service, logger),
		Logger:   logger,
		Checks:   checks,
	}
	if cfg.Auth.Enabled {
		deps.Verifier = middleware.NewJWTVerifier(cfg.Auth.JWTSecret)
	}

	return server.New(cfg, deps), cleanup, nil
}
