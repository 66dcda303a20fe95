package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	BackendREST     = "rest"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	StoreBackend string        `envconfig:"STORE_BACKEND" default:"rest"`
	StoreURL     string        `envconfig:"STORE_URL"`
	StoreKey     string        `envconfig:"STORE_KEY"`
	DatabaseURL  string        `envconfig:"DATABASE_URL"`
	HTTPPort     string        `envconfig:"HTTP_PORT"     default:":8080"`
	LogLevel     string        `envconfig:"LOG_LEVEL"     default:"info"`
	LogFile      string        `envconfig:"LOG_FILE"`
	StoreTimeout time.Duration `envconfig:"STORE_TIMEOUT" default:"10s"`
	Timezone     string        `envconfig:"TIMEZONE"      default:"America/Sao_Paulo"`

	loc *time.Location
}

// LoadConfig reads envFile (or ./.env when envFile is empty) into the process
// environment, then decodes and validates the settings. Variables already set
// in the environment win over the file.
func LoadConfig(envFile string, logger *logrus.Logger) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
		logger.Infof("Loaded configuration from %s", envFile)
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warnf("Error loading .env file (but continuing): %v", err)
	} else if err == nil {
		logger.Info("Loaded configuration from .env file")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration from environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Infof("Configuration loaded: Backend=%s, HTTP Port=%s, LogLevel=%s, Timezone=%s",
		cfg.StoreBackend, cfg.HTTPPort, cfg.LogLevel, cfg.Timezone)
	return &cfg, nil
}

// Validate checks that the selected backend has its connection settings.
func (c *Config) Validate() error {
	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))

	var missing []string
	switch c.StoreBackend {
	case BackendREST:
		if c.StoreURL == "" {
			missing = append(missing, "STORE_URL")
		}
		if c.StoreKey == "" {
			missing = append(missing, "STORE_KEY")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("configuration error: unknown STORE_BACKEND %q (want rest, postgres or memory)", c.StoreBackend)
	}
	if len(missing) > 0 {
		return fmt.Errorf("configuration error: %s not set for %s backend", strings.Join(missing, ", "), c.StoreBackend)
	}

	if c.StoreTimeout <= 0 {
		return fmt.Errorf("configuration error: STORE_TIMEOUT must be positive, got %s", c.StoreTimeout)
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("configuration error: invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	c.loc = loc
	return nil
}

// Location is the zone used for date filters and display. It is UTC until
// Validate succeeds.
func (c *Config) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// NewLogger builds the JSON logger. Entries go to console and, when LOG_FILE
// is set, to a rotated file. With no console and no file, output is dropped.
func NewLogger(cfg *Config, console io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("configuration error: invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}

	var outputs []io.Writer
	if console != nil {
		outputs = append(outputs, console)
	}
	if cfg.LogFile != "" {
		outputs = append(outputs, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		})
	}

	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	switch len(outputs) {
	case 0:
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(outputs[0])
	default:
		logger.SetOutput(io.MultiWriter(outputs...))
	}
	return logger, nil
}
