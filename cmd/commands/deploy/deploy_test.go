package deploy

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"nathanbeddoewebdev/deployctl/cmd/commands/cmdutil"
	"nathanbeddoewebdev/deployctl/internal/config"
	"nathanbeddoewebdev/deployctl/internal/database"
	"nathanbeddoewebdev/deployctl/internal/deploy/domain"
	"nathanbeddoewebdev/deployctl/internal/history"
	"nathanbeddoewebdev/deployctl/internal/services/auth"

	"github.com/google/go-cmp/cmp"
)

// --- Test helpers ---

// fakeAPI is a minimal platform API. Create responses are served in order;
// the last one repeats.
type fakeAPI struct {
	mu          sync.Mutex
	creates     []func(w http.ResponseWriter)
	createCalls int
	bodies      []map[string]any
	lastAuth    string
	certDomains []string
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v13/deployments", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		f.bodies = append(f.bodies, body)
		f.lastAuth = r.Header.Get("Authorization")
		i := min(f.createCalls, len(f.creates)-1)
		f.createCalls++
		f.creates[i](w)
	})
	mux.HandleFunc("GET /v4/domains/{name}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"domain": map[string]any{"name": r.PathValue("name"), "verified": true}})
	})
	mux.HandleFunc("POST /v3/certs", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Domains []string `json:"domains"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.certDomains = body.Domains
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{
			"uid":       "cert_1",
			"cns":       body.Domains,
			"createdAt": 1700000000000,
			"expiresAt": 1707739200000,
		})
	})
	return mux
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func deployed(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]any{
		"id":         "dpl_1",
		"url":        "docs-abc.deployctl.app",
		"name":       "docs",
		"readyState": "QUEUED",
		"target":     "production",
	})
}

func apiError(status int, fields map[string]any) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		writeJSON(w, status, map[string]any{"error": fields})
	}
}

// setup isolates config, database and credentials and starts the fake API.
func setup(t *testing.T, api *fakeAPI) {
	t.Helper()
	dir := t.TempDir()
	config.SetPath(filepath.Join(dir, "config.json"))
	t.Cleanup(config.ResetPath)
	database.SetPath(filepath.Join(dir, "deployctl.db"))
	t.Cleanup(database.ResetPath)

	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	t.Setenv("DEPLOYCTL_API_URL", srv.URL)
	t.Setenv("DEPLOYCTL_TOKEN", "test-token")
	t.Setenv("DEPLOYCTL_SCOPE", "")
	t.Setenv("DEPLOYCTL_LOG_LEVEL", "error")
}

func projectDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"index.html":  "<h1>docs</h1>",
		"deploy.yaml": "name: docs\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return dir
}

func execDeploy(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	cmd := NewCommand()
	cmdutil.AddPersistentFlags(cmd)
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

func listHistory(t *testing.T) []history.Record {
	t.Helper()
	repo, err := history.Open()
	if err != nil {
		t.Fatalf("history open: %v", err)
	}
	defer repo.Close()
	records, err := repo.ListRecent("", 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	return records
}

// --- deploy ---

func TestDeploy_JSON(t *testing.T) {
	api := &fakeAPI{creates: []func(http.ResponseWriter){deployed}}
	setup(t, api)
	dir := projectDir(t)

	stdout, _, err := execDeploy(t, dir, "--prod", "-e", "API_KEY=a=b", "-o", "json")
	if err != nil {
		t.Fatalf("deploy failed: %v", err)
	}

	var dep domain.Deployment
	if err := json.Unmarshal([]byte(stdout), &dep); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, stdout)
	}
	if dep.ID != "dpl_1" {
		t.Errorf("ID = %q, want dpl_1", dep.ID)
	}

	body := api.bodies[0]
	if body["name"] != "docs" || body["target"] != "production" {
		t.Errorf("unexpected body: %v", body)
	}
	if env, _ := body["env"].(map[string]any); env["API_KEY"] != "a=b" {
		t.Errorf("env = %v", body["env"])
	}

	records := listHistory(t)
	if len(records) != 1 {
		t.Fatalf("expected 1 history record, got %d", len(records))
	}
	if records[0].Status != history.StatusReady || records[0].DeploymentID != "dpl_1" {
		t.Errorf("unexpected record: %+v", records[0])
	}
}

func TestDeploy_Table(t *testing.T) {
	setup(t, &fakeAPI{creates: []func(http.ResponseWriter){deployed}})

	stdout, stderr, err := execDeploy(t, projectDir(t), "--name", "docs-v2")
	if err != nil {
		t.Fatalf("deploy failed: %v", err)
	}
	if !strings.Contains(stdout, "https://docs-abc.deployctl.app") {
		t.Errorf("expected URL in output, got: %s", stdout)
	}
	if !strings.Contains(stderr, "docs-v2") {
		t.Errorf("expected project name in progress output, got: %s", stderr)
	}
}

func TestDeploy_CertMissingProvisionsAndRetries(t *testing.T) {
	api := &fakeAPI{creates: []func(http.ResponseWriter){
		apiError(http.StatusBadRequest, map[string]any{"code": "cert_missing", "value": "docs.example.com"}),
		deployed,
	}}
	setup(t, api)

	_, stderr, err := execDeploy(t, projectDir(t))
	if err != nil {
		t.Fatalf("deploy failed: %v", err)
	}
	if api.createCalls != 2 {
		t.Errorf("create calls = %d, want 2", api.createCalls)
	}
	if diff := cmp.Diff([]string{"example.com", "*.example.com"}, api.certDomains); diff != "" {
		t.Errorf("cert domains mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(stderr, "Generating a wildcard certificate for example.com") {
		t.Errorf("expected progress output, got: %s", stderr)
	}
}

func TestDeploy_CertStillMissing(t *testing.T) {
	api := &fakeAPI{creates: []func(http.ResponseWriter){
		apiError(http.StatusBadRequest, map[string]any{"code": "cert_missing", "value": "docs.example.com"}),
	}}
	setup(t, api)

	_, _, err := execDeploy(t, projectDir(t))
	var certErr *domain.CertMissingError
	if !errors.As(err, &certErr) {
		t.Fatalf("expected CertMissingError, got %v", err)
	}
	if api.createCalls != 2 {
		t.Errorf("create calls = %d, want 2", api.createCalls)
	}
}

func TestDeploy_MappedErrorRecorded(t *testing.T) {
	setup(t, &fakeAPI{creates: []func(http.ResponseWriter){
		apiError(http.StatusBadRequest, map[string]any{"code": "domain_not_verified", "domain": "docs.example.com"}),
	}})

	_, _, err := execDeploy(t, projectDir(t))
	var notVerified *domain.DomainNotVerifiedError
	if !errors.As(err, &notVerified) {
		t.Fatalf("expected DomainNotVerifiedError, got %v", err)
	}

	records := listHistory(t)
	if len(records) != 1 {
		t.Fatalf("expected 1 history record, got %d", len(records))
	}
	if records[0].Status != history.StatusError || records[0].ErrorCode != notVerified.Code() {
		t.Errorf("unexpected record: %+v", records[0])
	}
}

func TestDeploy_NotLoggedIn(t *testing.T) {
	setup(t, &fakeAPI{creates: []func(http.ResponseWriter){deployed}})
	t.Setenv("DEPLOYCTL_TOKEN", "")
	newStore = func() auth.Store { return auth.NewMockStore() }
	t.Cleanup(func() { newStore = auth.DefaultStore })

	_, _, err := execDeploy(t, projectDir(t))
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestDeploy_StoredToken(t *testing.T) {
	api := &fakeAPI{creates: []func(http.ResponseWriter){deployed}}
	setup(t, api)
	t.Setenv("DEPLOYCTL_TOKEN", "")

	srvURL := os.Getenv("DEPLOYCTL_API_URL")
	store := auth.NewMockStore()
	_ = store.SetToken(auth.AccountFor(srvURL), "stored-token")
	newStore = func() auth.Store { return store }
	t.Cleanup(func() { newStore = auth.DefaultStore })

	if _, _, err := execDeploy(t, projectDir(t)); err != nil {
		t.Fatalf("deploy failed: %v", err)
	}
	if api.lastAuth != "Bearer stored-token" {
		t.Errorf("Authorization = %q, want stored token", api.lastAuth)
	}
}

func TestDeploy_InvalidFlags(t *testing.T) {
	setup(t, &fakeAPI{creates: []func(http.ResponseWriter){deployed}})
	dir := projectDir(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad env", []string{dir, "-e", "NOEQUALS"}, "expected KEY=VALUE"},
		{"bad output", []string{dir, "-o", "yaml"}, "unsupported output format"},
		{"bad name", []string{dir, "--name", "Bad Name"}, "invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execDeploy(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestParseKeyValues(t *testing.T) {
	got, err := parseKeyValues("--env", []string{"A=1", "B=x=y", "C="})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]string{"A": "1", "B": "x=y", "C": ""}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	if got, _ := parseKeyValues("--env", nil); got != nil {
		t.Errorf("expected nil map for no pairs, got %v", got)
	}
}

// --- deploy ls ---

func TestList(t *testing.T) {
	setup(t, &fakeAPI{creates: []func(http.ResponseWriter){deployed}})

	stdout, _, err := execDeploy(t, "ls")
	if err != nil {
		t.Fatalf("ls failed: %v", err)
	}
	if !strings.Contains(stdout, "No deployments found.") {
		t.Errorf("unexpected output: %s", stdout)
	}

	if _, _, err := execDeploy(t, projectDir(t)); err != nil {
		t.Fatalf("deploy failed: %v", err)
	}

	stdout, _, err = execDeploy(t, "ls", "docs")
	if err != nil {
		t.Fatalf("ls failed: %v", err)
	}
	for _, want := range []string{"NAME", "docs", history.StatusReady, "https://docs-abc.deployctl.app"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output:\n%s", want, stdout)
		}
	}
}
