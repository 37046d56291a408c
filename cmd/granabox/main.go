package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"granabox/internal/api"
	"granabox/internal/api/handlers"
	"granabox/internal/repository"
	"granabox/internal/service"
	"granabox/pkg/config"
	"granabox/pkg/logger"
	"granabox/pkg/postgres"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// @title Granabox API
// @version 1.0
// @description Personal finance backend: income and expense transactions grouped by category.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "granabox: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level, cfg.Logger.Format); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting granabox")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Database.Migrate {
		if err := postgres.Migrate(cfg.Database.DSN()); err != nil {
			return err
		}
		appLogger.Info("Database schema is up to date")
	}

	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		return err
	}
	defer db.Close()

	txManager, err := postgres.NewTxManager(db, cfg.Database.IsolationLevel)
	if err != nil {
		return err
	}

	// Initialize repositories
	categoryRepo := repository.NewCategoryRepository(db, appLogger)
	txRepo := repository.NewTransactionRepository(db, appLogger)

	// Initialize services
	categoryService := service.NewCategoryService(categoryRepo, txRepo, txManager, appLogger)
	txService := service.NewTransactionService(txRepo, categoryRepo, txManager, appLogger)
	recurrenceService := service.NewRecurrenceService(txRepo, categoryRepo, txManager, appLogger)

	// Setup router
	app := api.SetupRouter(&cfg.Server, api.Handlers{
		Category:    handlers.NewCategoryHandler(categoryService, appLogger),
		Transaction: handlers.NewTransactionHandler(txService, appLogger),
		Recurrence:  handlers.NewRecurrenceHandler(recurrenceService, appLogger),
		Health:      handlers.NewHealthHandler(db, appLogger),
	}, appLogger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		return app.Listen(addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down server")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	appLogger.Info("Server stopped")
	return nil
}
