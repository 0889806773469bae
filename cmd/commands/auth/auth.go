package auth

import (
	"nathanbeddoewebdev/deployctl/internal/services/auth"

	"github.com/spf13/cobra"
)

// newStore is replaced in tests.
var newStore = auth.DefaultStore

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the stored API token",
		Long: `Manage the API token used to talk to the deployment platform.

Tokens are stored in the OS keychain, one per API host. DEPLOYCTL_TOKEN
and --token take precedence over the stored token.`,
	}

	cmd.AddCommand(LoginCommand())
	cmd.AddCommand(LogoutCommand())
	cmd.AddCommand(StatusCommand())

	return cmd
}
