package cmd

import (
	"fmt"
	"strings"

	"github.com/seunfola/repohealth/internal/contract"
	"github.com/seunfola/repohealth/internal/healthstore"
	"github.com/seunfola/repohealth/internal/outwriter"
	"github.com/seunfola/repohealth/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeSetup loads minimal configuration needed for store operations.
// This is used by commands that need store access without the full shared
// setup, which would also wire the API client and sandbox.
func storeSetup() error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("store-backend")))
	connStr := viper.GetString("store-db-connect")

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	cfg.Output = schema.OutputMode(strings.ToLower(viper.GetString("output")))
	cfg.OutputFile = viper.GetString("output-file")

	var err error
	store, err = healthstore.NewStore(backend, connStr)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeMigrateSetup loads configuration for migrations without opening the
// store, so migrations can run against a fresh database before any table
// creation happens.
func storeMigrateSetup() error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("store-backend")))
	connStr := viper.GetString("store-db-connect")

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr

	return nil
}

// storeMigrateSetupWrapper wraps storeMigrateSetup for the migrate command.
func storeMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeMigrateSetup()
}

// storeCmd focused on health record store management.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the health record store",
	Long: `Manage the persistent store that holds repository health records.

Every successful analysis upserts one record keyed by owner/repo, so the
store always reflects the latest score for each repository.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show store statistics and connection info
  clear   - Remove all stored health records
  migrate - Run database schema migrations

Examples:
  # Check store status
  repohealth store status

  # Clear stored records
  repohealth store clear`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show detailed information about the health record store.

Displays:
- Backend type and connection status
- Total number of stored records
- Latest and oldest record timestamps
- Store size on disk (SQLite only)

Examples:
  # Check store status
  repohealth store status

  # Machine-readable status
  repohealth store status --output json`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		if err := outwriter.WriteStoreStatus(status, cfg); err != nil {
			contract.LogFatal("Failed to write store status", err)
		}
	},
}

// storeClearCmd clears all stored records.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored health records",
	Long: `Delete every health record from the configured backend.

WARNING: This action cannot be undone. Consider exporting records first.

Examples:
  # Export before clearing
  repohealth export --output-file backup.parquet
  repohealth store clear`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := store.Clear(rootCtx); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Store cleared successfully.")
	},
}

// storeMigrateCmd runs database migrations for the record store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the health record store.

By default, migrates to the latest version. Use --target-version for
specific versions.

Examples:
  # Migrate to latest version (default)
  repohealth store migrate

  # Rollback to initial state
  repohealth store migrate --target-version 0`,
	PreRunE: storeMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := healthstore.Migrate(cfg.StoreBackend, cfg.StoreDBConnect, viper.GetInt("target-version")); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
