package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/pocket-teller/internal/cli"
	"github.com/Veraticus/pocket-teller/internal/storage"
	"github.com/spf13/cobra"
)

func migrateCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema to the latest version.

This command ensures your local database has all the required
tables for the application to function properly.`,
		Args: cobra.NoArgs,
		RunE: o.runMigrate,
	}

	// Flags
	cmd.Flags().Bool("status", false, "Show current migration status without applying changes")

	return cmd
}

func (o *rootOptions) runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	status, _ := cmd.Flags().GetBool("status")
	dbPath := o.settings.DatabasePath

	slog.Info("Starting database migration",
		"database", dbPath,
		"status_only", status)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	out := cmd.OutOrStdout()

	if status {
		current, err := store.SchemaVersion(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, cli.RenderBox(cli.ChartIcon+" Database Migration Status", fmt.Sprintf(
			"Database:        %s\nCurrent version: %d\nLatest version:  %d",
			dbPath, current, storage.ExpectedSchemaVersion)))
		return err
	}

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	_, err = fmt.Fprintln(out, cli.FormatSuccess("Database migrations completed successfully!"))
	return err
}
