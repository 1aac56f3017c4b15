package commands

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/aoserver/aoserver/internal/config"
	"github.com/aoserver/aoserver/internal/logger"
	"github.com/aoserver/aoserver/internal/store/postgres"
)

// shutdownGrace bounds how long the admin HTTP server waits for
// in-flight requests to finish during a graceful shutdown.
const shutdownGrace = 5 * time.Second

// InitLogger initializes the structured logger from configuration.
func InitLogger(cfg *config.Config) error {
	loggerCfg := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if err := logger.Init(loggerCfg); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	return nil
}

// parsePostgresDSN turns a postgres:// URL (the shape database.dsn takes
// in configuration, and the shape golang-migrate's pgx driver expects
// directly) into the field-by-field Config store/postgres.New wants for
// its pgxpool.
func parsePostgresDSN(dsn string) (postgres.Config, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return postgres.Config{}, fmt.Errorf("parsing database dsn: %w", err)
	}

	cfg := postgres.Config{
		Host:     u.Hostname(),
		Database: trimLeadingSlash(u.Path),
		SSLMode:  u.Query().Get("sslmode"),
	}
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Password, _ = u.User.Password()
	}
	if port := u.Port(); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return postgres.Config{}, fmt.Errorf("invalid port in database dsn: %w", err)
		}
		cfg.Port = p
	}
	return cfg, nil
}

func trimLeadingSlash(s string) string {
	if len(s) > 0 && s[0] == '/' {
		return s[1:]
	}
	return s
}
