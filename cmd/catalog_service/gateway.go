package main

import (
	"errors"

	"catalog_admin/internal/proxy"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	upstreamURL string
	routePrefix string
	gatewayPort string
)

var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Front an existing json-server with request ids and logging",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("upstream") {
			cfg.UpstreamURL = upstreamURL
		}
		if cmd.Flags().Changed("port") {
			cfg.GatewayPort = gatewayPort
		}
		if cfg.UpstreamURL == "" {
			return errors.New("CATALOG_UPSTREAM_URL (or --upstream) is required for gateway")
		}

		logger.Info("Starting Catalog Gateway...")
		logger.Infof("Upstream target: %s", cfg.UpstreamURL)
		p, err := proxy.NewReverseProxy(cfg.UpstreamURL, routePrefix, logger)
		if err != nil {
			return err
		}

		if logger.GetLevel() < logrus.DebugLevel {
			gin.SetMode(gin.ReleaseMode)
		}
		router := proxy.NewGatewayRouter(p, routePrefix, logger)

		logger.Infof("Starting gateway on port %s", cfg.GatewayPort)
		if err := router.Run(cfg.GatewayPort); err != nil {
			logger.Errorf("Failed to start gateway: %v", err)
			return err
		}
		return nil
	},
}

func init() {
	gatewayCmd.Flags().StringVar(&upstreamURL, "upstream", "", "Upstream catalog API URL (overrides CATALOG_UPSTREAM_URL)")
	gatewayCmd.Flags().StringVar(&routePrefix, "prefix", "", "Path prefix to strip before forwarding, e.g. /api")
	gatewayCmd.Flags().StringVar(&gatewayPort, "port", ":8080", "Listen address (overrides CATALOG_GATEWAY_PORT)")
}
