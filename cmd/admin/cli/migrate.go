package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"orgdrive/internal/repository/postgres"
	"orgdrive/internal/repository/postgres/migrations"
)

func newMigrateCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the PostgreSQL schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := postgres.CreateConnectionPool(cmd.Context(), e.cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := migrations.MigrateUp(pool); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := postgres.CreateConnectionPool(cmd.Context(), e.cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			status, err := migrations.CheckStatus(pool)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatStatus(status))
			if !status.UpToDate() {
				return fmt.Errorf("schema is not up to date")
			}
			return nil
		},
	})

	return cmd
}

func formatStatus(s *migrations.Status) string {
	out := fmt.Sprintf("version: %d\nlatest:  %d\n", s.Version, s.Latest)
	if s.Dirty {
		out += "dirty:   true (a migration failed part way; fix and force the version)\n"
	}
	return out
}
