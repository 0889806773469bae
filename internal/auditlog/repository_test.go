package auditlog

import (
	"path/filepath"
	"testing"
	"time"
)

func tempRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	r, err := OpenAt(filepath.Join(t.TempDir(), "deployctl.db"))
	if err != nil {
		t.Fatalf("OpenAt failed: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestSave_AssignsIDAndTimestamp(t *testing.T) {
	r := tempRepo(t)

	entry := &AuditEntry{Command: "deployctl deploy", Outcome: OutcomeSuccess, DurationMs: 12}
	if err := r.Save(entry); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if entry.ID == 0 {
		t.Error("expected ID to be assigned")
	}
	if entry.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestSave_RoundTripsFields(t *testing.T) {
	r := tempRepo(t)

	entry := &AuditEntry{
		Command:    "deployctl deploy",
		Args:       "--prod",
		Outcome:    OutcomeError,
		ErrorCode:  "DOMAIN_NOT_VERIFIED",
		Detail:     "domain not verified",
		DurationMs: 40,
	}
	entry.Apply(Metadata{Scope: "acme", ResourceType: "deployment", ResourceName: "docs"})
	if err := r.Save(entry); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := r.List(ListOptions{Limit: 1})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	e := got[0]
	if e.Scope != "acme" || e.ResourceName != "docs" || e.ErrorCode != "DOMAIN_NOT_VERIFIED" || e.DurationMs != 40 {
		t.Errorf("unexpected entry: %+v", e)
	}
}

func TestList_NewestFirstWithLimit(t *testing.T) {
	r := tempRepo(t)

	base := time.Now().UTC()
	for i := range 3 {
		entry := &AuditEntry{
			Command:   "deployctl deploy",
			Outcome:   OutcomeSuccess,
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}
		if err := r.Save(entry); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	entries, err := r.List(ListOptions{Limit: 2})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Timestamp.Before(entries[1].Timestamp) {
		t.Error("expected entries sorted by timestamp descending")
	}
}

func TestList_Filters(t *testing.T) {
	r := tempRepo(t)

	for _, entry := range []*AuditEntry{
		{Command: "deployctl deploy", Outcome: OutcomeSuccess},
		{Command: "deployctl certs issue", Outcome: OutcomeSuccess},
		{Command: "deployctl deploy", Outcome: OutcomeError},
	} {
		if err := r.Save(entry); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	byCommand, err := r.List(ListOptions{Command: "deployctl deploy"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(byCommand) != 2 {
		t.Errorf("expected 2 deploy entries, got %d", len(byCommand))
	}

	failed, err := r.List(ListOptions{Command: "deployctl deploy", Outcome: OutcomeError})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(failed) != 1 {
		t.Errorf("expected 1 failed deploy entry, got %d", len(failed))
	}
}

func TestPrune(t *testing.T) {
	r := tempRepo(t)

	for _, age := range []time.Duration{48 * time.Hour, time.Hour} {
		entry := &AuditEntry{
			Command:   "deployctl deploy",
			Outcome:   OutcomeSuccess,
			Timestamp: time.Now().UTC().Add(-age),
		}
		if err := r.Save(entry); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	removed, err := r.Prune(24 * time.Hour)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}

	remaining, err := r.List(ListOptions{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("expected 1 remaining entry, got %d", len(remaining))
	}
}

func TestList_SubSecondOrder(t *testing.T) {
	r := tempRepo(t)
	base := time.Date(2025, 3, 1, 10, 0, 5, 0, time.UTC)

	for _, off := range []time.Duration{300 * time.Millisecond, 0, 120 * time.Millisecond, 100 * time.Millisecond} {
		entry := &AuditEntry{Timestamp: base.Add(off), Command: "deployctl deploy", Outcome: OutcomeSuccess}
		if err := r.Save(entry); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	entries, err := r.List(ListOptions{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	want := []time.Duration{300 * time.Millisecond, 120 * time.Millisecond, 100 * time.Millisecond, 0}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, e := range entries {
		if got := e.Timestamp.Sub(base); got != want[i] {
			t.Errorf("entry %d offset = %v, want %v", i, got, want[i])
		}
	}
}
