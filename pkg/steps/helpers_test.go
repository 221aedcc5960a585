package steps

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/systemstart/djscaffold/pkg/api"
	"github.com/systemstart/djscaffold/pkg/command/commandtest"
	"github.com/systemstart/djscaffold/pkg/resources"
)

// writeTestFile writes content to a file in dir, failing the test on error.
func writeTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

// newTestContext returns a StepContext for project "blog" rooted in a temp dir
// and driven by a command recorder.
func newTestContext(t *testing.T) (*StepContext, *commandtest.Recorder) {
	t.Helper()

	cfg := api.DefaultConfig()
	bundle, err := resources.Open(cfg.Resources)
	if err != nil {
		t.Fatal(err)
	}
	req, err := api.NewProjectRequest("blog")
	if err != nil {
		t.Fatal(err)
	}

	rec := commandtest.New()
	return &StepContext{
		Request: req,
		Config:  cfg,
		Runner:  rec,
		Bundle:  bundle,
		BaseDir: t.TempDir(),
		Environ: []string{"PATH=/usr/bin:/bin", "HOME=/home/test"},
	}, rec
}

// enterProject creates and records the project directory as the directory-enter step would.
func enterProject(t *testing.T, sctx *StepContext) {
	t.Helper()
	dir := filepath.Join(sctx.BaseDir, sctx.Request.Name())
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatal(err)
	}
	sctx.ProjectDir = dir
}

func expectResult(t *testing.T, r Result, status Status, kind Kind) {
	t.Helper()
	if r.Status != status || r.Kind != kind {
		t.Fatalf("expected %s/%s, got %s/%s (err: %v)", status, kind, r.Status, r.Kind, r.Err)
	}
}
