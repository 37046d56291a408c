package main

import (
	"context"
	"log"

	"granabox/internal/models"
	"granabox/internal/repository"
	"granabox/pkg/config"
	"granabox/pkg/logger"
	"granabox/pkg/postgres"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// defaultCategories are created on an empty database and skipped when a
// category with the same name already exists.
var defaultCategories = []string{
	"Housing",
	"Health",
	"Groceries",
	"Transport",
	"Education",
	"Leisure",
	"Salary",
	"Other",
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logger.Level, cfg.Logger.Format); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	if err := postgres.Migrate(cfg.Database.DSN()); err != nil {
		appLogger.Fatal("Failed to migrate database", zap.Error(err))
	}

	// Connect to database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	txManager, err := postgres.NewTxManager(db, cfg.Database.IsolationLevel)
	if err != nil {
		appLogger.Fatal("Failed to create transaction manager", zap.Error(err))
	}
	categoryRepo := repository.NewCategoryRepository(db, appLogger)

	appLogger.Info("Starting database seeding...")

	created := 0
	err = txManager.InTx(ctx, func(tx pgx.Tx) error {
		repo := categoryRepo.WithTx(tx)
		for _, name := range defaultCategories {
			inserted, err := repo.CreateIfMissing(ctx, &models.Category{Name: name, IsDefault: true})
			if err != nil {
				return err
			}
			if inserted {
				created++
				appLogger.Info("Default category created", zap.String("name", name))
			}
		}
		return nil
	})
	if err != nil {
		appLogger.Fatal("Failed to seed default categories", zap.Error(err))
	}

	appLogger.Info("Database seeding completed successfully!",
		zap.Int("created", created),
		zap.Int("skipped", len(defaultCategories)-created),
	)
}
