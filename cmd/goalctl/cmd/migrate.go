package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"github.com/templui/goalwizard/internal/db"
)

type dbFlags struct {
	driver     string
	connection string
}

func (f *dbFlags) register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&f.driver, "driver", "", "database driver: sqlite or pgx (default: $DB_DRIVER or sqlite)")
	cmd.PersistentFlags().StringVar(&f.connection, "dsn", "", "database connection string (default: $DB_CONNECTION)")
}

func (f *dbFlags) resolve() {
	if f.driver == "" {
		f.driver = envOr("DB_DRIVER", "sqlite")
	}
	if f.connection == "" {
		f.connection = envOr("DB_CONNECTION", "./data/goals.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	}
}

func MigrateCmd() *cobra.Command {
	flags := &dbFlags{}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply, roll back or inspect database migrations",
	}
	flags.register(migrateCmd)

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), flags, func(ctx context.Context, database *sqlx.DB) error {
				if err := db.RunMigrations(ctx, database.DB, flags.driver); err != nil {
					return err
				}
				fmt.Println("Migrations applied.")
				return nil
			})
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), flags, func(ctx context.Context, database *sqlx.DB) error {
				if err := db.MigrateDown(ctx, database.DB, flags.driver); err != nil {
					return err
				}
				fmt.Println("Rolled back one migration.")
				return nil
			})
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List migrations and whether they are applied",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), flags, func(ctx context.Context, database *sqlx.DB) error {
				states, err := db.MigrationStatus(ctx, database.DB, flags.driver)
				if err != nil {
					return err
				}
				t := table.New().
					Border(lipgloss.NormalBorder()).
					Headers("VERSION", "APPLIED", "FILE")
				for _, s := range states {
					t.Row(strconv.FormatInt(s.Version, 10), strconv.FormatBool(s.Applied), s.Path)
				}
				fmt.Fprintln(cmd.OutOrStdout(), t)
				return nil
			})
		},
	})

	return migrateCmd
}

func withDB(ctx context.Context, flags *dbFlags, fn func(context.Context, *sqlx.DB) error) error {
	flags.resolve()

	database, err := db.Init(flags.driver, flags.connection)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close(database)

	return fn(ctx, database)
}
