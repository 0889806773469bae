package audit

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"nathanbeddoewebdev/deployctl/internal/auditlog"
	"nathanbeddoewebdev/deployctl/internal/history"

	"github.com/spf13/cobra"
)

func PruneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete audit entries older than a duration",
		Long: `Delete audit entries older than a duration.

With --history, finished deployment history records older than the same
duration are removed as well.

Examples:
  deployctl audit prune --older-than 30d
  deployctl audit prune --older-than 72h --history`,
		Args:         cobra.NoArgs,
		RunE:         runPrune,
		SilenceUsage: true,
	}

	cmd.Flags().String("older-than", "", "Remove entries older than this duration (e.g. 30d, 72h)")
	cmd.Flags().Bool("history", false, "Also prune deployment history")

	return cmd
}

func runPrune(cmd *cobra.Command, args []string) error {
	raw, _ := cmd.Flags().GetString("older-than")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("--older-than is required")
	}

	olderThan, err := parseDuration(raw)
	if err != nil {
		return err
	}

	repo, err := auditlog.Open()
	if err != nil {
		return err
	}
	defer repo.Close()

	removed, err := repo.Prune(olderThan)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d audit entr(y/ies).\n", removed)

	if withHistory, _ := cmd.Flags().GetBool("history"); withHistory {
		hist, err := history.Open()
		if err != nil {
			return err
		}
		defer hist.Close()

		removed, err := hist.DeleteOlderThan(olderThan)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d deployment record(s).\n", removed)
	}
	return nil
}

// parseDuration accepts time.ParseDuration input plus a whole number of
// days such as "30d".
func parseDuration(input string) (time.Duration, error) {
	var d time.Duration
	if days, ok := strings.CutSuffix(input, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", input)
		}
		d = time.Duration(n) * 24 * time.Hour
	} else {
		var err error
		if d, err = time.ParseDuration(input); err != nil {
			return 0, fmt.Errorf("invalid duration %q", input)
		}
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be positive")
	}
	return d, nil
}
