package api

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestLoadConfig_Valid(t *testing.T) {
	content := `
version: 1
environment:
  dir: .venv
packages:
  - Django
  - gunicorn
resources:
  extra: ["k8s/**/*.yaml"]
timeouts:
  command: 2m
`
	dir := t.TempDir()
	f := filepath.Join(dir, "djscaffold.yaml")
	if err := os.WriteFile(f, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Environment.Dir != ".venv" {
		t.Fatalf("expected environment dir .venv, got %q", cfg.Environment.Dir)
	}
	if !slices.Equal(cfg.Packages, []string{"Django", "gunicorn"}) {
		t.Fatalf("unexpected packages: %v", cfg.Packages)
	}
	if cfg.Timeouts.Command != 2*time.Minute {
		t.Fatalf("expected command timeout 2m, got %v", cfg.Timeouts.Command)
	}
	if cfg.Resources.Extra[0] != "k8s/**/*.yaml" {
		t.Fatalf("unexpected extra resources: %v", cfg.Resources.Extra)
	}
}

func TestLoadConfig_KeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "djscaffold.yaml")
	if err := os.WriteFile(f, []byte("version: 1\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	def := DefaultConfig()
	if cfg.Tools != def.Tools {
		t.Errorf("expected default tools, got %+v", cfg.Tools)
	}
	if !slices.Equal(cfg.Packages, DefaultPackages) {
		t.Errorf("expected default packages, got %v", cfg.Packages)
	}
	if cfg.Timeouts != def.Timeouts {
		t.Errorf("expected default timeouts, got %+v", cfg.Timeouts)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/djscaffold.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "reading config file") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "djscaffold.yaml")
	if err := os.WriteFile(f, []byte("{{invalid"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadConfig(f)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
	if !strings.Contains(err.Error(), "parsing config file") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadConfig_ValidationFails(t *testing.T) {
	content := `
version: 2
`
	dir := t.TempDir()
	f := filepath.Join(dir, "djscaffold.yaml")
	if err := os.WriteFile(f, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadConfig(f)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "validating config") {
		t.Fatalf("unexpected error: %v", err)
	}
}
