package main

import (
	"fmt"
	"os"

	"catalog_admin/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	databaseURL string
	port        string
	logLevel    string
	seedData    bool
)

var rootCmd = &cobra.Command{
	Use:   "catalog_service",
	Short: "Catalog service - products and categories over a json-server style REST API",
	Long: `catalog_service serves the /products and /categories resources used by the
catalog admin console. Without DATABASE_URL it keeps everything in memory.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "Postgres connection URL (overrides DATABASE_URL)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")

	rootCmd.AddCommand(serveCmd, gatewayCmd, migrateCmd, seedCmd)
}

// loadConfig reads the environment, applies flag overrides and returns the
// logger configured for the resulting level.
func loadConfig(cmd *cobra.Command) (*config.ServiceConfig, *logrus.Logger, error) {
	bootstrap := config.NewLogger("info", os.Stdout)
	cfg, err := config.LoadServiceConfig(bootstrap)
	if err != nil {
		return nil, nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("database-url") {
		cfg.DatabaseURL = databaseURL
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	return cfg, config.NewLogger(cfg.LogLevel, os.Stdout), nil
}
