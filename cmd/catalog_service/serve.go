package main

import (
	"context"
	"database/sql"

	"catalog_admin/internal/delivery"
	"catalog_admin/internal/domain"
	"catalog_admin/internal/repository"
	"catalog_admin/internal/usecase"
	"catalog_admin/pkg/db"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the REST API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&port, "port", ":3001", "Listen address (overrides CATALOG_SERVICE_PORT)")
	serveCmd.Flags().BoolVar(&seedData, "seed", false, "Seed demo data into an empty catalog (overrides SEED_DATA)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = port
	}
	if cmd.Flags().Changed("seed") {
		cfg.SeedData = seedData
	}
	logger.Info("Starting Catalog Service...")

	var (
		categoryRepo domain.CategoryRepository
		productRepo  domain.ProductRepository
	)
	if cfg.InMemory() {
		store := repository.NewMemoryStore()
		categoryRepo = repository.NewMemoryCategoryRepository(store, logger)
		productRepo = repository.NewMemoryProductRepository(store, logger)
		logger.Info("In-memory repositories initialized.")
	} else {
		database, err := openDatabase(cmd.Context(), cfg.DatabaseURL, logger)
		if err != nil {
			return err
		}
		defer database.Close()
		categoryRepo = repository.NewPostgresCategoryRepository(database, logger)
		productRepo = repository.NewPostgresProductRepository(database, logger)
		logger.Info("Postgres repositories initialized.")
	}

	categoryUseCase := usecase.NewCategoryUseCase(categoryRepo, logger)
	productUseCase := usecase.NewProductUseCase(productRepo, categoryRepo, logger)
	logger.Info("Use cases initialized.")

	if cfg.SeedData {
		if err := usecase.SeedCatalog(cmd.Context(), categoryUseCase, productUseCase); err != nil {
			return err
		}
		logger.Info("Demo catalog seeded.")
	}

	if logger.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := delivery.NewRouter(
		delivery.NewCategoryHandler(categoryUseCase, logger),
		delivery.NewProductHandler(productUseCase, logger),
		logger,
	)
	logger.Info("API Routes registered.")

	logger.Infof("Starting server on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		logger.Errorf("Failed to start server: %v", err)
		return err
	}
	return nil
}

func openDatabase(ctx context.Context, databaseURL string, logger *logrus.Logger) (*sql.DB, error) {
	database, err := db.Connect(databaseURL)
	if err != nil {
		logger.Errorf("Failed to connect to database: %v", err)
		return nil, err
	}
	logger.Info("Database connection established.")

	if err := db.Migrate(ctx, database); err != nil {
		database.Close()
		logger.Errorf("Failed to migrate database: %v", err)
		return nil, err
	}
	logger.Info("Database schema is up to date.")
	return database, nil
}
