package steps

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

type createDirectoryStep struct{}

// NewCreateDirectoryStep creates a step making the project directory. An
// existing directory is accepted as is.
func NewCreateDirectoryStep() Step { return &createDirectoryStep{} }

func (s *createDirectoryStep) Name() string { return "create-directory" }

func (s *createDirectoryStep) Run(_ context.Context, sctx *StepContext) Result {
	dir := filepath.Join(sctx.BaseDir, sctx.Request.Name())

	st, err := os.Stat(dir)
	switch {
	case err == nil && st.IsDir():
		slog.Info("project directory already exists", "directory", dir)
		return Succeeded()
	case err == nil:
		return Hard(FilesystemError, fmt.Errorf("%s exists and is not a directory", dir))
	case !errors.Is(err, fs.ErrNotExist):
		return Hard(FilesystemError, fmt.Errorf("checking project directory: %w", err))
	}

	if err := os.Mkdir(dir, 0o750); err != nil {
		return Hard(FilesystemError, fmt.Errorf("creating project directory: %w", err))
	}

	slog.Info("project directory created", "directory", dir)
	return Succeeded()
}

type enterDirectoryStep struct{}

// NewEnterDirectoryStep creates a step resolving the project directory and
// recording it in the StepContext for all later steps.
func NewEnterDirectoryStep() Step { return &enterDirectoryStep{} }

func (s *enterDirectoryStep) Name() string { return "enter-directory" }

func (s *enterDirectoryStep) Run(_ context.Context, sctx *StepContext) Result {
	dir, err := filepath.Abs(filepath.Join(sctx.BaseDir, sctx.Request.Name()))
	if err != nil {
		return Hard(FilesystemError, fmt.Errorf("resolving project directory: %w", err))
	}

	st, err := os.Stat(dir)
	if err != nil {
		return Hard(FilesystemError, fmt.Errorf("entering project directory: %w", err))
	}
	if !st.IsDir() {
		return Hard(FilesystemError, fmt.Errorf("entering project directory: %s is not a directory", dir))
	}

	sctx.ProjectDir = dir
	slog.Debug("working in project directory", "directory", dir)
	return Succeeded()
}
