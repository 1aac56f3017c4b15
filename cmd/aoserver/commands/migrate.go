package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aoserver/aoserver/internal/config"
	"github.com/aoserver/aoserver/internal/logger"
	"github.com/aoserver/aoserver/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the identity store schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	Long: `Apply every pending migration to the configured identity store.

Only meaningful when database.driver is "postgres" — the sqlite adapter
migrates its own schema automatically when opened.

Examples:
  # Apply migrations with the default config
  aoserver migrate up

  # Apply migrations with a custom config
  aoserver migrate up --config /etc/aoserver/config.yaml`,
	RunE: runMigrateUp,
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	if err := InitLogger(cfg); err != nil {
		return err
	}

	if cfg.Database.Driver != "postgres" {
		fmt.Println("database.driver is sqlite; schema is applied automatically on open, nothing to do")
		return nil
	}

	logger.Info("applying identity store migrations")
	if err := migrate.Up(cfg.Database.DSN); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Println("migrations completed successfully")
	return nil
}
