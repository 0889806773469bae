package certs

import (
	"nathanbeddoewebdev/deployctl/internal/services/auth"

	"github.com/spf13/cobra"
)

// newStore is replaced in tests.
var newStore = auth.DefaultStore

// NewCommand returns the "certs" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "certs",
		Short: "Manage TLS certificates",
		Long: `Manage TLS certificates for custom domains.

Certificates for custom suffix domains are issued automatically during
deploy; use this command to issue one ahead of time.`,
	}

	cmd.AddCommand(IssueCommand())

	return cmd
}
