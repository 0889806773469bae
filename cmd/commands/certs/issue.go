package certs

import (
	"fmt"
	"strings"
	"time"

	"nathanbeddoewebdev/deployctl/cmd/commands/cmdutil"
	"nathanbeddoewebdev/deployctl/internal/auditlog"
	"nathanbeddoewebdev/deployctl/internal/deploy/certs"
	"nathanbeddoewebdev/deployctl/internal/output"

	"github.com/spf13/cobra"
)

func IssueCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue <domain> [domain...]",
		Short: "Issue a certificate for one or more domains",
		Long: `Issue a certificate covering the given common names.

Examples:
  deployctl certs issue example.com '*.example.com'
  deployctl certs issue www.example.com --scope acme`,
		Args:         cobra.MinimumNArgs(1),
		RunE:         runIssue,
		SilenceUsage: true,
	}

	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runIssue(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("output")
	if format != "table" && format != "json" {
		return fmt.Errorf("unsupported output format %q", format)
	}

	settings, err := cmdutil.Settings(cmd)
	if err != nil {
		return err
	}
	logger := cmdutil.Logger(cmd, settings)

	client, err := cmdutil.Client(settings, newStore(), logger)
	if err != nil {
		return err
	}

	ctx := auditlog.WithMetadata(cmd.Context(), auditlog.Metadata{
		Scope:        settings.Scope,
		ResourceType: "certificate",
		ResourceName: strings.Join(args, ","),
	})
	cmd.SetContext(ctx)

	progress := output.NewProgress(cmd.ErrOrStderr(), output.IsTerminalWriter(cmd.ErrOrStderr()))
	cert, err := certs.NewProvisioner(client, progress, logger).Issue(ctx, cmdutil.ContextName(settings), args...)
	if err != nil {
		return err
	}

	cmd.SetContext(auditlog.WithMetadata(ctx, auditlog.Metadata{ResourceID: cert.UID}))

	out := cmd.OutOrStdout()
	if format == "json" {
		return output.JSON(out, cert)
	}
	fmt.Fprintf(out, "%s %s\n", output.SuccessText.Render("✓ Certificate"), cert.UID)
	fmt.Fprintf(out, "  %s %s\n", output.Label.Render("Names:  "), strings.Join(cert.CNs, ", "))
	if !cert.ExpiresAt.IsZero() {
		fmt.Fprintf(out, "  %s %s\n", output.Label.Render("Expires:"), cert.ExpiresAt.Local().Format(time.DateOnly))
	}
	return nil
}
