package cmd

import (
	"strings"
	"time"

	"nathanbeddoewebdev/deployctl/internal/auditlog"
	"nathanbeddoewebdev/deployctl/internal/deploy/domain"

	"github.com/spf13/cobra"
)

// recordAudit writes a best-effort audit entry for the executed command.
// Errors opening the repository or saving the entry are discarded.
func recordAudit(executed *cobra.Command, args []string, err error, start time.Time) {
	if executed == nil || !executed.Runnable() || executed.Name() == "help" {
		return
	}

	repo, openErr := auditlog.Open()
	if openErr != nil {
		return
	}
	defer repo.Close()

	_ = repo.Save(newEntry(executed, args, err, start))
}

func newEntry(executed *cobra.Command, args []string, err error, start time.Time) *auditlog.AuditEntry {
	entry := &auditlog.AuditEntry{
		Timestamp:  start.UTC(),
		Command:    executed.CommandPath(),
		Args:       strings.Join(auditlog.SanitizeArgs(args), " "),
		Outcome:    auditlog.OutcomeSuccess,
		DurationMs: time.Since(start).Milliseconds(),
	}
	entry.Apply(auditlog.MetadataFromContext(executed.Context()))
	if err != nil {
		entry.Outcome = auditlog.OutcomeError
		entry.ErrorCode = domain.CodeOf(err)
		entry.Detail = err.Error()
	}
	return entry
}
