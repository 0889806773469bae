package auth

import (
	"errors"
	"fmt"

	"nathanbeddoewebdev/deployctl/cmd/commands/cmdutil"
	"nathanbeddoewebdev/deployctl/internal/services/auth"

	"github.com/spf13/cobra"
)

func LogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := cmdutil.Settings(cmd)
			if err != nil {
				return err
			}

			account := auth.AccountFor(settings.APIURL)
			err = newStore().DeleteToken(account)
			switch {
			case errors.Is(err, auth.ErrTokenNotFound):
				fmt.Fprintf(cmd.OutOrStdout(), "No token stored for %s\n", account)
				return nil
			case err != nil:
				return fmt.Errorf("failed to remove token: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed token for %s\n", account)
			return nil
		},
		SilenceUsage: true,
	}
}
