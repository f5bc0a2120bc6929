// Package cli implements the orgdrive-admin command tree.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"
	"orgdrive/internal/config"
)

// env carries state shared by subcommands once the root has loaded configuration
type env struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCommand builds the admin command tree
func NewRootCommand() *cobra.Command {
	e := &env{}
	var logLevel string

	cmd := &cobra.Command{
		Use:           "orgdrive-admin",
		Short:         "Administrative tasks for the orgdrive metadata store",
		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			e.cfg = cfg

			var level slog.Level
			if err := level.UnmarshalText([]byte(logLevel)); err != nil {
				return err
			}
			e.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(newMigrateCommand(e))
	cmd.AddCommand(newOrgCommand(e))
	cmd.AddCommand(newConfigCommand(e))

	return cmd
}
