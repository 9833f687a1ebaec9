package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/rightcount/internal/adapters/turso"
	"github.com/emiliopalmerini/rightcount/internal/config"
	"github.com/emiliopalmerini/rightcount/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [version]",
	Short: "Run database migrations",
	Long: `Run database migrations for the counting service.

Without arguments, runs all pending migrations (up).
With a version number, migrates to that specific version (up or down as needed).

Examples:
  rightcount migrate      # Run all pending migrations
  rightcount migrate 0    # Rollback all migrations`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadServer()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := turso.NewDB(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := migrate.EnsureMigrationsTable(ctx, db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	currentVersion, dirty, err := migrate.CurrentVersion(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in dirty state at version %d, manual intervention required", currentVersion)
	}

	fmt.Printf("Current version: %d\n", currentVersion)

	if len(args) == 0 {
		return migrate.RunAll(ctx, db)
	}

	targetVersion, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid version number: %s", args[0])
	}
	if targetVersion == currentVersion {
		fmt.Println("Already at target version")
		return nil
	}

	all, err := migrate.Load()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	return migrate.To(ctx, db, all, currentVersion, targetVersion)
}
