package auth

import (
	"errors"
	"fmt"

	"nathanbeddoewebdev/deployctl/cmd/commands/cmdutil"
	"nathanbeddoewebdev/deployctl/internal/services/auth"

	"github.com/spf13/cobra"
)

func StatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show where the API token comes from",
		Long: `Show whether a token is available for the configured API host.

Example:
  deployctl auth status`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := cmdutil.Settings(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			account := auth.AccountFor(settings.APIURL)
			if settings.Token != "" {
				fmt.Fprintf(out, "%s: using token from flag or environment\n", account)
				return nil
			}

			_, err = newStore().GetToken(account)
			switch {
			case err == nil:
				fmt.Fprintf(out, "%s: logged in\n", account)
			case errors.Is(err, auth.ErrTokenNotFound):
				fmt.Fprintf(out, "%s: not logged in\n", account)
			default:
				fmt.Fprintf(out, "%s: error (%v)\n", account, err)
			}
			return nil
		},
		SilenceUsage: true,
	}

	return cmd
}
