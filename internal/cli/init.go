// Package cli provides common CLI initialization utilities shared by
// cmd/receita, cmd/receita-import and cmd/receita-worker.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"receita/internal/config"
	applog "receita/internal/log"
	"receita/internal/storage"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// NewLogger builds a component logger from LOG_LEVEL and LOG_FORMAT values.
// An unknown level falls back to info; Validate reports it separately.
func NewLogger(level, format, component string, out io.Writer) *applog.Logger {
	lvl, _ := applog.ParseLevel(level)
	return applog.New(applog.Config{
		Level:     lvl,
		Format:    format,
		Component: component,
		Output:    out,
	})
}

// SetupLogger creates the process logger on stdout and makes it the slog default.
func SetupLogger(cfg *config.Config, component string) *applog.Logger {
	logger := NewLogger(cfg.LogLevel, cfg.LogFormat, component, os.Stdout)
	applog.SetDefault(logger)
	return logger
}

// Bootstrap loads .env and the configuration, sets up logging and validates
// the configuration. It exits the process when validation fails.
func Bootstrap(component string) (*config.Config, *applog.Logger) {
	LoadEnvFile()
	cfg := config.Load()
	logger := SetupLogger(cfg, component)
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg, logger
}

// InitSQLite opens the SQLite repository, applying migrations.
// Returns the repository or exits the process on failure.
func InitSQLite(logger *applog.Logger, dbPath string) *storage.SQLiteRepository {
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", applog.FieldError, err, "path", dbPath)
		os.Exit(1)
	}
	return repo
}

// ShutdownContext returns a context carrying logger that is cancelled on
// SIGINT or SIGTERM.
func ShutdownContext(logger *applog.Logger) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(applog.NewContext(context.Background(), logger), syscall.SIGINT, syscall.SIGTERM)
}
