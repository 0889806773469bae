package audit

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"nathanbeddoewebdev/deployctl/internal/auditlog"

	"github.com/spf13/cobra"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent audit entries",
		Long: `List recent audit entries stored locally.

Examples:
  deployctl audit list
  deployctl audit list --limit 50
  deployctl audit list --command "deployctl deploy" --failed
  deployctl audit list -o json`,
		Args:         cobra.NoArgs,
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().Int("limit", 25, "Number of entries to display")
	cmd.Flags().String("command", "", "Filter by exact command path")
	cmd.Flags().Bool("failed", false, "Only show failed commands")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return fmt.Errorf("limit must be greater than 0")
	}
	output, _ := cmd.Flags().GetString("output")
	if output != "table" && output != "json" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	opts := auditlog.ListOptions{Limit: limit}
	opts.Command, _ = cmd.Flags().GetString("command")
	if failed, _ := cmd.Flags().GetBool("failed"); failed {
		opts.Outcome = auditlog.OutcomeError
	}

	repo, err := auditlog.Open()
	if err != nil {
		return err
	}
	defer repo.Close()

	entries, err := repo.List(opts)
	if err != nil {
		return err
	}

	if output == "json" {
		if entries == nil {
			entries = []auditlog.AuditEntry{}
		}
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No audit entries found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tCOMMAND\tSCOPE\tOUTCOME\tDURATION\tRESOURCE\tCODE")
	for _, entry := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			entry.Timestamp.Local().Format("2006-01-02 15:04:05"),
			entry.Command,
			dash(entry.Scope),
			entry.Outcome,
			formatDuration(entry.DurationMs),
			formatResource(entry),
			dash(entry.ErrorCode),
		)
	}
	return w.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatDuration(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", ms)
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
}

func formatResource(entry auditlog.AuditEntry) string {
	resource := entry.ResourceType
	if entry.ResourceID != "" {
		if resource != "" {
			resource += ":"
		}
		resource += entry.ResourceID
	}
	if entry.ResourceName != "" {
		if resource != "" {
			resource += " (" + entry.ResourceName + ")"
		} else {
			resource = entry.ResourceName
		}
	}
	return dash(resource)
}
