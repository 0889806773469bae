package audit

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"nathanbeddoewebdev/deployctl/internal/auditlog"
	"nathanbeddoewebdev/deployctl/internal/database"
)

func setupDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deployctl.db")
	database.SetPath(path)
	t.Cleanup(database.ResetPath)
	return path
}

func seedAudit(t *testing.T, entries ...*auditlog.AuditEntry) {
	t.Helper()
	repo, err := auditlog.Open()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer repo.Close()
	for _, e := range entries {
		if err := repo.Save(e); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
}

func execAudit(t *testing.T, args ...string) (stdout, stderr string) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	cmd.Execute()
	return outBuf.String(), errBuf.String()
}

func TestList_Empty(t *testing.T) {
	setupDB(t)

	stdout, _ := execAudit(t, "list")
	if !strings.Contains(stdout, "No audit entries found.") {
		t.Errorf("unexpected output: %s", stdout)
	}
}

func TestList_Table(t *testing.T) {
	setupDB(t)
	seedAudit(t,
		&auditlog.AuditEntry{Command: "deployctl deploy", Outcome: auditlog.OutcomeSuccess, Scope: "acme", ResourceType: "deployment", ResourceID: "dpl_1", ResourceName: "docs"},
		&auditlog.AuditEntry{Command: "deployctl deploy", Outcome: auditlog.OutcomeError, ErrorCode: "DOMAIN_NOT_VERIFIED"},
	)

	stdout, _ := execAudit(t, "list")
	for _, want := range []string{"COMMAND", "deployment:dpl_1 (docs)", "DOMAIN_NOT_VERIFIED", "acme"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output:\n%s", want, stdout)
		}
	}
}

func TestList_FailedJSON(t *testing.T) {
	setupDB(t)
	seedAudit(t,
		&auditlog.AuditEntry{Command: "deployctl deploy", Outcome: auditlog.OutcomeSuccess},
		&auditlog.AuditEntry{Command: "deployctl deploy", Outcome: auditlog.OutcomeError},
	)

	stdout, stderr := execAudit(t, "list", "--failed", "-o", "json")
	if stderr != "" {
		t.Fatalf("unexpected stderr: %s", stderr)
	}
	var got []auditlog.AuditEntry
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, stdout)
	}
	if len(got) != 1 || got[0].Outcome != auditlog.OutcomeError {
		t.Errorf("unexpected entries: %+v", got)
	}
}

func TestList_InvalidFlags(t *testing.T) {
	setupDB(t)

	if _, stderr := execAudit(t, "list", "--limit", "0"); !strings.Contains(stderr, "limit must be greater than 0") {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if _, stderr := execAudit(t, "list", "-o", "yaml"); !strings.Contains(stderr, "unsupported output format") {
		t.Errorf("unexpected stderr: %s", stderr)
	}
}

func TestPrune_WithHistory(t *testing.T) {
	setupDB(t)
	seedAudit(t, &auditlog.AuditEntry{
		Command:   "deployctl deploy",
		Outcome:   auditlog.OutcomeSuccess,
		Timestamp: time.Now().UTC().Add(-72 * time.Hour),
	})

	stdout, stderr := execAudit(t, "prune", "--older-than", "1d", "--history")
	if stderr != "" {
		t.Fatalf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "Removed 1 audit") {
		t.Errorf("unexpected output: %s", stdout)
	}
	if !strings.Contains(stdout, "Removed 0 deployment") {
		t.Errorf("unexpected output: %s", stdout)
	}
}

func TestPrune_RequiresDuration(t *testing.T) {
	setupDB(t)

	if _, stderr := execAudit(t, "prune"); !strings.Contains(stderr, "--older-than is required") {
		t.Errorf("unexpected stderr: %s", stderr)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"30d", 30 * 24 * time.Hour, false},
		{"72h", 72 * time.Hour, false},
		{"-1d", 0, true},
		{"xd", 0, true},
		{"soon", 0, true},
	}
	for _, tt := range tests {
		got, err := parseDuration(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseDuration(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseDuration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
