package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

type ServiceConfig struct {
	DatabaseURL string `envconfig:"DATABASE_URL"`
	Port        string `envconfig:"CATALOG_SERVICE_PORT" default:":3001"`
	LogLevel    string `envconfig:"LOG_LEVEL"            default:"info"`
	SeedData    bool   `envconfig:"SEED_DATA"            default:"false"`

	// The gateway fronts an upstream that usually owns :3001 itself.
	UpstreamURL string `envconfig:"CATALOG_UPSTREAM_URL"`
	GatewayPort string `envconfig:"CATALOG_GATEWAY_PORT" default:":8080"`
}

// InMemory reports whether the service should run without postgres.
func (c *ServiceConfig) InMemory() bool {
	return c.DatabaseURL == ""
}

type ConsoleConfig struct {
	APIURL         string        `envconfig:"CATALOG_API_URL" default:"http://localhost:3001"`
	LogLevel       string        `envconfig:"LOG_LEVEL"       default:"info"`
	LogFile        string        `envconfig:"LOG_FILE"        default:"console.log"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"5s"`
}

func loadDotEnv(logger *logrus.Logger) {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		logger.Warnf("Error loading .env file (but continuing): %v", err)
	} else if err == nil {
		logger.Info("Loaded configuration from .env file")
	}
}

func LoadServiceConfig(logger *logrus.Logger) (*ServiceConfig, error) {
	loadDotEnv(logger)

	var cfg ServiceConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process service configuration: %w", err)
	}

	logger.Infof("Configuration loaded: Port=%s, LogLevel=%s, SeedData=%t", cfg.Port, cfg.LogLevel, cfg.SeedData)
	if cfg.InMemory() {
		logger.Warn("Configuration loaded: DATABASE_URL is not set, using the in-memory store")
	} else {
		logger.Info("Configuration loaded: DatabaseURL is set")
	}
	return &cfg, nil
}

func LoadConsoleConfig(logger *logrus.Logger) (*ConsoleConfig, error) {
	loadDotEnv(logger)

	var cfg ConsoleConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process console configuration: %w", err)
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", cfg.RequestTimeout)
	}

	logger.Infof("Configuration loaded: API=%s, LogLevel=%s, Timeout=%s", cfg.APIURL, cfg.LogLevel, cfg.RequestTimeout)
	return &cfg, nil
}

// NewLogger builds the JSON logrus logger both binaries use. Unknown levels fall back to info.
func NewLogger(level string, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.JSONFormatter{})

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
		logger.Warnf("Invalid LOG_LEVEL '%s', using default: %s", level, logLevel.String())
	}
	logger.SetLevel(logLevel)
	return logger
}
