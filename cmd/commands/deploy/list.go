package deploy

import (
	"fmt"
	"text/tabwriter"
	"time"

	"nathanbeddoewebdev/deployctl/internal/history"
	"nathanbeddoewebdev/deployctl/internal/output"

	"github.com/spf13/cobra"
)

// ListCommand returns the "deploy ls" command.
func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls [name]",
		Aliases: []string{"list"},
		Short:   "List deployments created from this machine",
		Long: `List the deployment attempts recorded locally, newest first.

Examples:
  deployctl deploy ls
  deployctl deploy ls docs --limit 5
  deployctl deploy ls -o json`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().Int("limit", 20, "Number of records to display")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return fmt.Errorf("limit must be greater than 0")
	}
	format, _ := cmd.Flags().GetString("output")
	if format != "table" && format != "json" {
		return fmt.Errorf("unsupported output format %q", format)
	}

	var name string
	if len(args) == 1 {
		name = args[0]
	}

	repo, err := history.Open()
	if err != nil {
		return err
	}
	defer repo.Close()

	records, err := repo.ListRecent(name, limit)
	if err != nil {
		return err
	}

	if format == "json" {
		if records == nil {
			records = []history.Record{}
		}
		return output.JSON(cmd.OutOrStdout(), records)
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No deployments found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "AGE\tNAME\tSTATUS\tTARGET\tURL\tCODE")
	now := time.Now()
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			age(now.Sub(r.CreatedAt)),
			r.Name,
			r.Status,
			orDash(r.Target),
			orDash(withScheme(r.URL)),
			orDash(r.ErrorCode),
		)
	}
	return w.Flush()
}

func age(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
