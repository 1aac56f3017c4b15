// Package postgres is the PostgreSQL-backed identity.Store adapter (C6),
// suitable for multi-node deployments where the identity table must be
// shared across server instances.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aoserver/aoserver/internal/logger"
)

// Config holds the connection settings for the identity store pool.
type Config struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string

	MaxConns int
	MinConns int
}

// ApplyDefaults fills in unset fields the way the rest of the pack's
// Postgres configs do.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 5432
	}
	if c.SSLMode == "" {
		c.SSLMode = "disable"
	}
	if c.MaxConns == 0 {
		c.MaxConns = 10
	}
	if c.MinConns == 0 {
		c.MinConns = 1
	}
}

func (c *Config) dsn() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// Store implements identity.Store over a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// New opens a connection pool and verifies connectivity.
func New(ctx context.Context, cfg Config) (*Store, error) {
	cfg.ApplyDefaults()

	poolCfg, err := pgxpool.ParseConfig(cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("parsing postgres dsn: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxConns)
	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	logger.Info("postgres identity store connected", logger.StoreDriver("postgres"))
	return &Store{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() { s.pool.Close() }

// Ipid resolves an ip address to its stable identity id, inserting a new
// row the first time an ip is seen. Grounded directly in the reference
// source's ipid(): insert-on-conflict-do-nothing inside a transaction,
// then select the id out, so repeated calls for the same ip are
// idempotent and never race into duplicate rows.
func (s *Store) Ipid(ctx context.Context, ip string) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning ipid tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO ipids (ip_address) VALUES ($1) ON CONFLICT (ip_address) DO NOTHING`,
		ip,
	); err != nil {
		return 0, fmt.Errorf("inserting ipid: %w", err)
	}

	var ipid int64
	if err := tx.QueryRow(ctx,
		`SELECT ipid FROM ipids WHERE ip_address = $1`, ip,
	).Scan(&ipid); err != nil {
		return 0, fmt.Errorf("selecting ipid: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing ipid tx: %w", err)
	}
	return ipid, nil
}

// AddHdid records a hardware-id-to-identity association. Duplicate
// (hdid, ipid) pairs are silently ignored, matching the reference
// source's ON CONFLICT DO NOTHING.
func (s *Store) AddHdid(ctx context.Context, hdid string, ipid int64) error {
	if _, err := s.pool.Exec(ctx,
		`INSERT INTO hdids (hdid, ipid) VALUES ($1, $2) ON CONFLICT (hdid, ipid) DO NOTHING`,
		hdid, ipid,
	); err != nil {
		return fmt.Errorf("inserting hdid: %w", err)
	}
	return nil
}
