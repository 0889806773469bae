package config

import (
	"nathanbeddoewebdev/deployctl/internal/config"

	"github.com/spf13/cobra"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage deployctl configuration",
		Long: "View and modify persistent deployctl settings.\n\n" +
			"Configuration is stored at ~/.config/deployctl/config.json.\n" +
			"DEPLOYCTL_* environment variables and flags override stored values.\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(SetCommand())
	cmd.AddCommand(GetCommand())

	return cmd
}
