package steps

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

const (
	activateScript   = "activate"
	helperPattern    = ".djscaffold-activate-*.sh"
	activateFileMode = 0o755
	helperFileMode   = 0o700
)

// Environment is a virtual environment inside the project directory.
type Environment struct {
	Dir string // absolute path of the environment directory
}

// NewEnvironment describes the environment named name under projectDir.
func NewEnvironment(projectDir, name string) *Environment {
	return &Environment{Dir: filepath.Join(projectDir, name)}
}

// Exists reports whether the environment directory is present.
func (e *Environment) Exists() bool {
	_, err := os.Stat(e.Dir)
	return err == nil
}

// BinDir is the directory holding the environment's executables.
func (e *Environment) BinDir() string { return filepath.Join(e.Dir, "bin") }

// ActivateScript is the path of the environment's shell activation script.
func (e *Environment) ActivateScript() string { return filepath.Join(e.BinDir(), activateScript) }

// Lookup returns the path of the executable name inside the environment's bin
// directory, or name unchanged when the environment does not provide it.
func (e *Environment) Lookup(name string) string {
	if strings.ContainsRune(name, filepath.Separator) {
		return name
	}
	path := filepath.Join(e.BinDir(), name)
	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0 {
		return path
	}
	return name
}

// Environ returns base adjusted the way the activation script adjusts a shell:
// the environment's bin directory leads PATH, VIRTUAL_ENV is set and
// PYTHONHOME is dropped.
func (e *Environment) Environ(base []string) []string {
	path := ""
	out := make([]string, 0, len(base)+2)
	for _, kv := range base {
		key, value, _ := strings.Cut(kv, "=")
		switch key {
		case "PATH":
			path = value
		case "VIRTUAL_ENV", "PYTHONHOME":
		default:
			out = append(out, kv)
		}
	}

	if path == "" {
		path = e.BinDir()
	} else {
		path = e.BinDir() + string(filepath.ListSeparator) + path
	}

	return append(out, "PATH="+path, "VIRTUAL_ENV="+e.Dir)
}

type createEnvironmentStep struct{}

// NewCreateEnvironmentStep creates a step running the virtualenv module inside
// the project directory.
func NewCreateEnvironmentStep() Step { return &createEnvironmentStep{} }

func (s *createEnvironmentStep) Name() string { return "create-environment" }

func (s *createEnvironmentStep) Run(ctx context.Context, sctx *StepContext) Result {
	cfg := sctx.Config
	env := NewEnvironment(sctx.ProjectDir, cfg.Environment.Dir)

	if env.Exists() {
		if cfg.Environment.ReuseExisting {
			slog.Info("reusing existing virtual environment", "environment", env.Dir)
			return Succeeded()
		}
		return Soft(AlreadyExists, fmt.Errorf("virtual environment %s already exists; remove it or set environment.reuseExisting", env.Dir))
	}

	create := sctx.systemCommand(cfg.Tools.Python, "-m", cfg.Tools.Virtualenv, cfg.Environment.Dir)
	if err := sctx.Runner.Run(ctx, create); err != nil {
		return CommandFailed("creating virtual environment", err)
	}

	slog.Info("virtual environment created", "environment", env.Dir)
	return Succeeded()
}

var helperTemplate = template.Must(template.New("activate").Funcs(sprig.TxtFuncMap()).Parse(
	`#!/bin/sh
set -e
. '{{ .Activate | replace "'" "'\\''" }}'
command -v '{{ .Python | replace "'" "'\\''" }}' >/dev/null
`))

type activateEnvironmentStep struct{}

// NewActivateEnvironmentStep creates a step checking that the environment's
// activation script runs, then scoping all later commands to the environment.
func NewActivateEnvironmentStep() Step { return &activateEnvironmentStep{} }

func (s *activateEnvironmentStep) Name() string { return "activate-environment" }

func (s *activateEnvironmentStep) Run(ctx context.Context, sctx *StepContext) Result {
	cfg := sctx.Config
	env := NewEnvironment(sctx.ProjectDir, cfg.Environment.Dir)

	if err := os.Chmod(env.ActivateScript(), activateFileMode); err != nil {
		return Hard(FilesystemError, fmt.Errorf("making activation script executable: %w", err))
	}

	helper, err := writeActivationHelper(sctx.ProjectDir, env, cfg.Tools.Python)
	if err != nil {
		return Hard(FilesystemError, err)
	}
	defer removeHelper(helper)

	run := sctx.systemCommand(cfg.Tools.Shell, helper)
	if err := sctx.Runner.Run(ctx, run); err != nil {
		return CommandFailed("activating virtual environment", err)
	}

	sctx.Env = env
	slog.Info("virtual environment activated", "environment", env.Dir)
	return Succeeded()
}

func writeActivationHelper(dir string, env *Environment, python string) (string, error) {
	f, err := os.CreateTemp(dir, helperPattern)
	if err != nil {
		return "", fmt.Errorf("creating activation helper: %w", err)
	}

	execErr := helperTemplate.Execute(f, map[string]string{
		"Activate": env.ActivateScript(),
		"Python":   python,
	})

	if closeErr := f.Close(); closeErr != nil && execErr == nil {
		execErr = closeErr
	}
	if execErr == nil {
		execErr = os.Chmod(f.Name(), helperFileMode)
	}
	if execErr != nil {
		removeHelper(f.Name())
		return "", fmt.Errorf("writing activation helper: %w", execErr)
	}
	return f.Name(), nil
}

func removeHelper(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to remove activation helper", "path", path, "error", err)
	}
}
