package steps

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/systemstart/djscaffold/pkg/resources"
)

const (
	stagedFileMode = 0o644
	settingsFile   = "settings.py"
)

// RemoveFile deletes path. A path that does not exist is not an error.
func RemoveFile(path string) error {
	if _, err := os.Lstat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}

// StageFile copies the bundled file src byte for byte to dst, creating parent
// directories as needed.
func StageFile(b *resources.Bundle, src, dst string) error {
	in, err := b.Open(src)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", resources.ErrMissingResource, src)
	}
	if err != nil {
		return fmt.Errorf("opening bundled %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return fmt.Errorf("creating parent directories: %w", err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, stagedFileMode)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}

	_, copyErr := io.Copy(out, in)

	if closeErr := out.Close(); closeErr != nil {
		if copyErr != nil {
			return fmt.Errorf("copying %s: %w", src, copyErr)
		}
		return fmt.Errorf("closing %s: %w", dst, closeErr)
	}
	if copyErr != nil {
		return fmt.Errorf("copying %s: %w", src, copyErr)
	}
	return nil
}

type stageFilesStep struct{}

// NewStageFilesStep creates a step copying the deployment files, the
// dependency manifest and any extra bundled files into the project. Copy
// errors are reported as warnings; only a vanished bundled resource fails the step.
func NewStageFilesStep() Step { return &stageFilesStep{} }

func (s *stageFilesStep) Name() string { return "stage-files" }

func (s *stageFilesStep) Run(_ context.Context, sctx *StepContext) Result {
	b := sctx.Bundle

	files := []string{b.Dockerfile(), b.Compose(), b.Requirements()}
	extra, err := b.Extra()
	if err != nil {
		slog.Warn("could not expand extra resources", "error", err)
	}
	files = append(files, extra...)

	var warnings []string
	for _, name := range files {
		dst := filepath.Join(sctx.ProjectDir, filepath.FromSlash(name))
		if err := StageFile(b, name, dst); err != nil {
			if errors.Is(err, resources.ErrMissingResource) {
				return Hard(ConfigError, err)
			}
			slog.Warn("failed to stage file", "file", name, "error", err)
			warnings = append(warnings, fmt.Sprintf("%s was not staged: %v", name, err))
			continue
		}
		slog.Info("staged file", "file", name)
	}

	if err != nil {
		warnings = append(warnings, fmt.Sprintf("extra resources were not staged: %v", err))
	}
	return Succeeded(warnings...)
}

type swapSettingsStep struct{}

// NewSwapSettingsStep creates a step replacing the settings module generated
// by django-admin with the bundled override.
func NewSwapSettingsStep() Step { return &swapSettingsStep{} }

func (s *swapSettingsStep) Name() string { return "swap-settings" }

func (s *swapSettingsStep) Run(_ context.Context, sctx *StepContext) Result {
	target := filepath.Join(sctx.ProjectDir, sctx.Request.Name(), settingsFile)

	if err := RemoveFile(target); err != nil {
		return Hard(FilesystemError, fmt.Errorf("removing generated settings: %w", err))
	}

	if err := StageFile(sctx.Bundle, sctx.Bundle.Settings(), target); err != nil {
		return Hard(FilesystemError, fmt.Errorf("staging settings override: %w", err))
	}

	slog.Info("settings replaced with bundled override", "file", target)
	return Succeeded()
}
