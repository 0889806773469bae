package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nathanbeddoewebdev/deployctl/cmd/commands/audit"
	"nathanbeddoewebdev/deployctl/cmd/commands/auth"
	"nathanbeddoewebdev/deployctl/cmd/commands/certs"
	"nathanbeddoewebdev/deployctl/cmd/commands/cmdutil"
	cfgcmd "nathanbeddoewebdev/deployctl/cmd/commands/config"
	"nathanbeddoewebdev/deployctl/cmd/commands/deploy"
	"nathanbeddoewebdev/deployctl/internal/output"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "deployctl",
		Short: "Deploy static sites and apps to the hosting platform",
		Long: `deployctl uploads a project directory and creates a deployment on the
hosting platform. Custom suffix domains get their certificate issued
automatically the first time they are used.

Quick start:
  deployctl auth login             # Store your API token
  deployctl deploy                 # Deploy the current directory
  deployctl deploy --prod          # Deploy to production
  deployctl deploy ls              # List recent deployments`,
		SilenceErrors: true,
	}

	cmdutil.AddPersistentFlags(cmd)

	cmd.AddCommand(deploy.NewCommand())
	cmd.AddCommand(certs.NewCommand())
	cmd.AddCommand(auth.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(audit.NewCommand())

	return cmd
}

// Execute runs the root command and records the invocation in the audit
// log. This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	root := rootCmd()
	start := time.Now()
	executed, err := root.ExecuteContextC(ctx)
	recordAudit(executed, os.Args[1:], err, start)
	stop()

	if err != nil {
		output.Error(root.ErrOrStderr(), err)
		os.Exit(1)
	}
}
