package main

import (
	"fmt"
	"os"

	"catalog_admin/config"
	"catalog_admin/internal/clients"
	"catalog_admin/internal/console"
	"catalog_admin/internal/console/tui"

	"github.com/spf13/cobra"
)

var (
	apiURL   string
	logFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "console",
	Short: "Catalog admin console",
	Long: `console is a terminal admin UI for the catalog service. It lists, searches,
sorts and pages products, and creates, edits and deletes products and categories.`,
	SilenceUsage: true,
	RunE:         runConsole,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&apiURL, "api-url", "", "Catalog API base URL (overrides CATALOG_API_URL)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "Log file path (overrides LOG_FILE)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")
}

func runConsole(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConsoleConfig(config.NewLogger("warn", os.Stderr))
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("api-url") {
		cfg.APIURL = apiURL
	}
	if cmd.Flags().Changed("log-file") {
		cfg.LogFile = logFile
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	// The TUI owns the terminal, so logs go to a file.
	out, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", cfg.LogFile, err)
	}
	defer out.Close()

	logger := config.NewLogger(cfg.LogLevel, out)
	logger.Infof("Starting console against %s", cfg.APIURL)

	client := clients.NewCatalogClient(clients.NewResourceHTTPClient(cfg.APIURL, cfg.RequestTimeout, logger), logger)
	notifier := tui.NewProgramNotifier(logger)

	products := console.NewProductListCoordinator(client, console.NewCategoryLookup(client, logger), notifier, logger)
	categories := console.NewCategoryListCoordinator(client, notifier, logger)

	err = tui.Run(tui.Deps{
		Products:       products,
		Categories:     categories,
		ProductForm:    console.NewProductForm(client, logger),
		CategoryForm:   console.NewCategoryForm(client, logger),
		ProductDelete:  console.NewProductDeleteFlow(client, products, notifier, logger),
		CategoryDelete: console.NewCategoryDeleteFlow(client, categories, notifier, logger),
		Log:            logger,
	}, notifier)
	if err != nil {
		logger.Errorf("Console exited with error: %v", err)
		return err
	}
	logger.Info("Console closed")
	return nil
}
