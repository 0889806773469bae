package certs

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"nathanbeddoewebdev/deployctl/cmd/commands/cmdutil"
	"nathanbeddoewebdev/deployctl/internal/config"
	"nathanbeddoewebdev/deployctl/internal/deploy/domain"

	"github.com/google/go-cmp/cmp"
)

func setup(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	config.SetPath(filepath.Join(t.TempDir(), "config.json"))
	t.Cleanup(config.ResetPath)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	t.Setenv("DEPLOYCTL_API_URL", srv.URL)
	t.Setenv("DEPLOYCTL_TOKEN", "test-token")
	t.Setenv("DEPLOYCTL_SCOPE", "")
	t.Setenv("DEPLOYCTL_LOG_LEVEL", "error")
}

func execIssue(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewCommand()
	cmdutil.AddPersistentFlags(cmd)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"issue"}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestIssue_Table(t *testing.T) {
	var got []string
	setup(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v3/certs" {
			http.NotFound(w, r)
			return
		}
		var body struct {
			Domains []string `json:"domains"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		got = body.Domains
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"uid":       "cert_1",
			"cns":       body.Domains,
			"createdAt": 1700000000000,
			"expiresAt": 1707739200000, // 2024-02-12T12:00:00Z
		})
	})

	stdout, stderr, err := execIssue(t, "example.com", "*.example.com")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if diff := cmp.Diff([]string{"example.com", "*.example.com"}, got); diff != "" {
		t.Errorf("domains mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(stdout, "cert_1") || !strings.Contains(stdout, "example.com, *.example.com") {
		t.Errorf("unexpected output: %s", stdout)
	}
	if !strings.Contains(stdout, "2024-02-12") {
		t.Errorf("expected expiry date in output, got: %s", stdout)
	}
	if !strings.Contains(stderr, "Issuing certificate for example.com, *.example.com") {
		t.Errorf("expected progress line, got: %s", stderr)
	}
}

func TestIssue_JSON(t *testing.T) {
	setup(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"uid": "cert_2", "cns": []string{"www.example.com"}})
	})

	stdout, _, err := execIssue(t, "www.example.com", "-o", "json")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	var cert domain.Cert
	if err := json.Unmarshal([]byte(stdout), &cert); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, stdout)
	}
	if cert.UID != "cert_2" {
		t.Errorf("UID = %q, want cert_2", cert.UID)
	}
}

func TestIssue_MappedError(t *testing.T) {
	setup(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"code": "forbidden", "message": "nope"}})
	})

	_, _, err := execIssue(t, "example.com")
	var denied *domain.DomainPermissionDeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected DomainPermissionDeniedError, got %v", err)
	}
	if denied.Domain != "example.com" {
		t.Errorf("Domain = %q, want example.com", denied.Domain)
	}
}

func TestIssue_RequiresDomain(t *testing.T) {
	setup(t, http.NotFound)

	if _, _, err := execIssue(t); err == nil {
		t.Fatal("expected error without domains")
	}
}
