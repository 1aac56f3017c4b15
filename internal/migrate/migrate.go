// Package migrate applies the identity store's SQL schema using
// golang-migrate, grounded in the teacher's
// pkg/store/metadata/postgres/migrate.go (embedded iofs source +
// database/postgres driver, run over a database/sql connection opened via
// the pgx stdlib shim).
package migrate

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver

	"github.com/aoserver/aoserver/internal/logger"
)

// Up applies every pending migration to the database at dsn. It returns
// nil if the schema was already current.
func Up(dsn string) error {
	m, db, err := newMigrator(dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("reading migration version: %w", err)
	}
	if dirty {
		logger.Warn("identity store schema is dirty, manual intervention required")
	}
	logger.Info("identity store schema up to date", logger.StoreDriver("postgres"))
	_ = version
	return nil
}

// Down rolls back every applied migration. Used by tests and by operators
// tearing down a scratch database.
func Down(dsn string) error {
	m, db, err := newMigrator(dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("reverting migrations: %w", err)
	}
	return nil
}

func newMigrator(dsn string) (*migrate.Migrate, *sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{
		MigrationsTable: "schema_migrations",
		DatabaseName:    "aoserver",
	})
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("creating postgres migration driver: %w", err)
	}

	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("sub-rooting migrations fs: %w", err)
	}
	sourceDriver, err := iofs.New(sub, ".")
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("creating migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", driver)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("creating migrator: %w", err)
	}
	return m, db, nil
}
