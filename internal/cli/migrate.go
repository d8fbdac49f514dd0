package cli

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pelangilabs/rainbowd/internal/db"
	"github.com/pelangilabs/rainbowd/internal/db/sqlite"
	"github.com/pelangilabs/rainbowd/internal/models"
)

var migrationsDir string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage database migrations",
	Long:  `Run SQLite schema migrations using golang-migrate.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Run all pending migrations",
	Long:  `Apply all pending database migrations.`,
	RunE:  runMigrateUp,
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	Long:  `Show the current migration status and version.`,
	RunE:  runMigrateStatus,
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show current migration version",
	Long:  `Show the current database migration version.`,
	RunE:  runMigrateStatus,
}

func init() {
	migrateCmd.PersistentFlags().StringVar(&migrationsDir, "dir", filepath.Join("internal", "db", "migrations"), "migrations directory")
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
	migrateCmd.AddCommand(migrateVersionCmd)
}

// openMigrationDB opens the configured SQLite database directly, bypassing
// the hybrid wrapper, so migrations run against the raw handle.
func openMigrationDB(ctx context.Context) (*sql.DB, func(), error) {
	store, err := sqlite.New(&models.Config{
		Provider: cfg.SQLDatabase.Provider,
		URI:      cfg.SQLDatabase.URI,
		Database: cfg.SQLDatabase.Database,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create sqlite store: %w", err)
	}
	if err := store.Connect(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to sqlite: %w", err)
	}
	return store.DB(), func() { store.Disconnect(ctx) }, nil
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	fmt.Println("🔄 Running database migrations...")

	ctx := context.Background()
	sqlDB, cleanup, err := openMigrationDB(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := db.RunMigrations(sqlDB, migrationsDir); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Println("✅ Migrations completed successfully!")
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("📊 Migration Status")
	fmt.Println("===================")

	ctx := context.Background()
	sqlDB, cleanup, err := openMigrationDB(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	version, dirty, err := db.MigrationVersion(sqlDB, migrationsDir)
	if err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}

	fmt.Printf("Current migration version: %d\n", version)
	if dirty {
		fmt.Println("⚠️  Database is in a dirty state. Fix manually before migrating.")
	}
	return nil
}
