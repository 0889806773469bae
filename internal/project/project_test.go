package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"nathanbeddoewebdev/deployctl/internal/deploy/domain"

	"github.com/google/go-cmp/cmp"
)

func projectDir(t *testing.T, name, yaml string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if yaml != "" {
		if err := os.WriteFile(filepath.Join(dir, FileName), []byte(yaml), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return dir
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dir := projectDir(t, "My Site", "")

	cfg, err := Load(dir, "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Name != "my-site" {
		t.Errorf("Name = %q, want %q", cfg.Name, "my-site")
	}
	if cfg.Target != domain.TargetPreview {
		t.Errorf("Target = %q, want %q", cfg.Target, domain.TargetPreview)
	}
	if cfg.Public {
		t.Error("expected Public to default to false")
	}
}

func TestLoad_ParsesFile(t *testing.T) {
	t.Setenv("DEPLOYCTL_TEST_API_KEY", "s3cret")
	dir := projectDir(t, "site", `
name: docs
target: production
alias:
  - docs.example.com
regions: [iad1, sfo1]
public: true
env:
  API_KEY: ${DEPLOYCTL_TEST_API_KEY}
build:
  env:
    NODE_ENV: production
`)

	cfg, err := Load(dir, "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := &Config{
		Name:    "docs",
		Target:  domain.TargetProduction,
		Alias:   []string{"docs.example.com"},
		Regions: []string{"iad1", "sfo1"},
		Public:  true,
		Env:     map[string]string{"API_KEY": "s3cret"},
	}
	want.Build.Env = map[string]string{"NODE_ENV": "production"}

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	dir := projectDir(t, "site", "")
	if err := os.WriteFile(filepath.Join(dir, "staging.yaml"), []byte("name: staging-site\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(dir, "staging.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Name != "staging-site" {
		t.Errorf("Name = %q, want %q", cfg.Name, "staging-site")
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	dir := projectDir(t, "site", "")

	if _, err := Load(dir, "nope.yaml"); err == nil {
		t.Fatal("expected error for missing explicit file")
	}
}

func TestLoad_InvalidTarget(t *testing.T) {
	dir := projectDir(t, "site", "target: staging\n")

	_, err := Load(dir, "")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestLoad_InvalidName(t *testing.T) {
	dir := projectDir(t, "site", "name: Bad---Name\n")

	_, err := Load(dir, "")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestLoad_InvalidAlias(t *testing.T) {
	dir := projectDir(t, "site", "alias: [\"not a host\"]\n")

	_, err := Load(dir, "")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := projectDir(t, "site", "name: [unterminated\n")

	if _, err := Load(dir, ""); err == nil {
		t.Fatal("expected error for invalid yaml")
	}
}

func TestCreateOpts_Overrides(t *testing.T) {
	cfg := &Config{
		Name:   "docs",
		Target: domain.TargetPreview,
		Alias:  []string{"a.example.com"},
		Env:    map[string]string{"A": "1", "B": "2"},
	}

	got := cfg.CreateOpts(Overrides{
		Name:       "docs-v2",
		Production: true,
		Force:      true,
		Alias:      []string{"b.example.com"},
		Env:        map[string]string{"B": "override"},
		BuildEnv:   map[string]string{"CI": "1"},
	})

	want := domain.CreateOpts{
		Name:     "docs-v2",
		Target:   domain.TargetProduction,
		Alias:    []string{"b.example.com"},
		Env:      map[string]string{"A": "1", "B": "override"},
		BuildEnv: map[string]string{"CI": "1"},
		Force:    true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("opts mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateOpts_NoOverrides(t *testing.T) {
	cfg := &Config{Name: "docs", Target: domain.TargetPreview}

	got := cfg.CreateOpts(Overrides{})
	want := domain.CreateOpts{Name: "docs", Target: domain.TargetPreview}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("opts mismatch (-want +got):\n%s", diff)
	}
}
