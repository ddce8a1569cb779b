package main

import (
	"errors"

	"catalog_admin/internal/repository"
	"catalog_admin/internal/usecase"

	"github.com/spf13/cobra"
)

var errNoDatabase = errors.New("DATABASE_URL (or --database-url) is required for this command")

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the catalog tables in postgres",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.InMemory() {
			return errNoDatabase
		}

		database, err := openDatabase(cmd.Context(), cfg.DatabaseURL, logger)
		if err != nil {
			return err
		}
		return database.Close()
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo catalog into an empty postgres database",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.InMemory() {
			return errNoDatabase
		}

		database, err := openDatabase(cmd.Context(), cfg.DatabaseURL, logger)
		if err != nil {
			return err
		}
		defer database.Close()

		categoryRepo := repository.NewPostgresCategoryRepository(database, logger)
		productRepo := repository.NewPostgresProductRepository(database, logger)
		err = usecase.SeedCatalog(cmd.Context(),
			usecase.NewCategoryUseCase(categoryRepo, logger),
			usecase.NewProductUseCase(productRepo, categoryRepo, logger),
		)
		if err != nil {
			return err
		}
		logger.Info("Demo catalog seeded.")
		return nil
	},
}
