package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"orgdrive/internal/objectstore"
	"orgdrive/internal/repository"
	"orgdrive/internal/service"
)

func newOrgCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "org",
		Short: "Organization maintenance",
	}

	regenerate := &cobra.Command{
		Use:   "regenerate-code <organization-id>",
		Short: "Replace an organization's invitation code",
		Long: `Replace an organization's invitation code on behalf of its owner.

The new code is audited under the acting user, who must own the organization.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, _ := cmd.Flags().GetString("user")

			metadata, err := repository.Open(cmd.Context(), e.cfg, false, e.logger)
			if err != nil {
				return err
			}
			defer metadata.Close()

			objects, err := objectstore.New(cmd.Context(), e.cfg.ObjectStore, e.logger)
			if err != nil {
				return err
			}

			services := service.New(metadata.Registry, objects, e.logger)
			org, err := services.Organizations.RegenerateInvitationCode(cmd.Context(), userID, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", org.ID, org.InvitationCode)
			return nil
		},
	}
	regenerate.Flags().String("user", "", "acting user id (must be the owner)")
	_ = regenerate.MarkFlagRequired("user")

	cmd.AddCommand(regenerate)
	return cmd
}
