package resources

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/systemstart/djscaffold/pkg/api"
)

func writeTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func readAll(t *testing.T, b *Bundle, name string) []byte {
	t.Helper()
	f, err := b.Open(name)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestOpen_Embedded(t *testing.T) {
	b, err := Open(api.DefaultConfig().Resources)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Origin() != embeddedOrigin {
		t.Errorf("expected embedded origin, got %q", b.Origin())
	}

	for _, name := range b.Required() {
		if len(readAll(t, b, name)) == 0 {
			t.Errorf("embedded resource %s is empty", name)
		}
	}
}

func TestEmbeddedRequirementsMatchDefaultPackages(t *testing.T) {
	b, err := Open(api.DefaultConfig().Resources)
	if err != nil {
		t.Fatal(err)
	}

	var lines []string
	sc := bufio.NewScanner(strings.NewReader(string(readAll(t, b, b.Requirements()))))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}

	if !slices.Equal(lines, api.DefaultPackages) {
		t.Errorf("requirements.txt %v does not match default packages %v", lines, api.DefaultPackages)
	}
}

func TestEmbeddedSettingsHasNoPlaceholders(t *testing.T) {
	b, err := Open(api.DefaultConfig().Resources)
	if err != nil {
		t.Fatal(err)
	}

	settings := string(readAll(t, b, b.Settings()))
	if strings.Contains(settings, "project_name") {
		t.Error("bundled settings must derive the project package at runtime")
	}
	if !strings.Contains(settings, "ROOT_URLCONF") {
		t.Error("bundled settings should define ROOT_URLCONF")
	}
}

func TestOpen_Directory(t *testing.T) {
	dir := t.TempDir()
	cfg := api.DefaultConfig().Resources
	cfg.Dir = dir
	for _, name := range []string{cfg.Dockerfile, cfg.Compose, cfg.Requirements, cfg.Settings} {
		writeTestFile(t, dir, name, "content of "+name)
	}

	b, err := Open(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := string(readAll(t, b, cfg.Dockerfile)); got != "content of Dockerfile" {
		t.Errorf("unexpected Dockerfile content %q", got)
	}
}

func TestOpen_MissingResource(t *testing.T) {
	dir := t.TempDir()
	cfg := api.DefaultConfig().Resources
	cfg.Dir = dir
	writeTestFile(t, dir, cfg.Dockerfile, "FROM scratch\n")
	writeTestFile(t, dir, cfg.Compose, "services: {}\n")

	_, err := Open(cfg)
	if !errors.Is(err, ErrMissingResource) {
		t.Fatalf("expected ErrMissingResource, got %v", err)
	}
	if !strings.Contains(err.Error(), cfg.Requirements) || !strings.Contains(err.Error(), cfg.Settings) {
		t.Errorf("expected both missing files named, got %v", err)
	}
}

func TestOpen_ResourceIsDirectory(t *testing.T) {
	dir := t.TempDir()
	cfg := api.DefaultConfig().Resources
	cfg.Dir = dir
	writeTestFile(t, dir, cfg.Dockerfile, "FROM scratch\n")
	writeTestFile(t, dir, cfg.Compose, "services: {}\n")
	writeTestFile(t, dir, cfg.Requirements, "Django\n")
	if err := os.MkdirAll(filepath.Join(dir, cfg.Settings), 0o750); err != nil {
		t.Fatal(err)
	}

	if _, err := Open(cfg); !errors.Is(err, ErrMissingResource) {
		t.Fatalf("expected ErrMissingResource, got %v", err)
	}
}

func TestOpen_DirectoryNotFound(t *testing.T) {
	cfg := api.DefaultConfig().Resources
	cfg.Dir = filepath.Join(t.TempDir(), "missing")

	if _, err := Open(cfg); err == nil {
		t.Fatal("expected error for missing resource directory")
	}
}

func TestOpen_InvalidResourcePath(t *testing.T) {
	cfg := api.DefaultConfig().Resources
	cfg.Settings = "../settings.py"

	_, err := Open(cfg)
	if err == nil {
		t.Fatal("expected error for path escaping the bundle")
	}
	if !strings.Contains(err.Error(), "relative slash-separated") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExtra(t *testing.T) {
	dir := t.TempDir()
	cfg := api.DefaultConfig().Resources
	cfg.Dir = dir
	cfg.Extra = []string{"k8s/**/*.yaml", "*.md", "Dockerfile", "k8s/base/*.yaml"}
	for _, name := range []string{cfg.Dockerfile, cfg.Compose, cfg.Requirements, cfg.Settings} {
		writeTestFile(t, dir, name, "x")
	}
	writeTestFile(t, dir, "k8s/base/deployment.yaml", "kind: Deployment\n")
	writeTestFile(t, dir, "k8s/overlays/prod/patch.yaml", "kind: Patch\n")
	writeTestFile(t, dir, "k8s/README.txt", "ignored\n")
	writeTestFile(t, dir, "NOTES.md", "notes\n")

	b, err := Open(cfg)
	if err != nil {
		t.Fatal(err)
	}

	got, err := b.Extra()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"NOTES.md", "k8s/base/deployment.yaml", "k8s/overlays/prod/patch.yaml"}
	if !slices.Equal(got, want) {
		t.Errorf("Extra() = %v, want %v", got, want)
	}
}

func TestExtra_EmbeddedDefaults(t *testing.T) {
	b, err := Open(api.DefaultConfig().Resources)
	if err != nil {
		t.Fatal(err)
	}

	got, err := b.Extra()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(got, []string{".dockerignore"}) {
		t.Errorf("Extra() = %v, want [.dockerignore]", got)
	}
}

func TestExtra_BadPattern(t *testing.T) {
	cfg := api.DefaultConfig().Resources
	cfg.Extra = []string{"[unclosed"}

	b, err := Open(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.Extra(); err == nil {
		t.Fatal("expected error for malformed pattern")
	}
}
