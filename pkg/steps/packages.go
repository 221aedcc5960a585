package steps

import (
	"context"
	"errors"
	"log/slog"
)

var errNotActivated = errors.New("virtual environment has not been activated")

type installPackagesStep struct{}

// NewInstallPackagesStep creates a step installing the configured packages
// into the activated environment with a single pip invocation.
func NewInstallPackagesStep() Step { return &installPackagesStep{} }

func (s *installPackagesStep) Name() string { return "install-packages" }

func (s *installPackagesStep) Run(ctx context.Context, sctx *StepContext) Result {
	if sctx.Env == nil {
		return Hard(ConfigError, errNotActivated)
	}

	packages := sctx.Config.Packages
	slog.Info("installing packages", "count", len(packages), "packages", packages)

	args := append([]string{"install"}, packages...)
	if err := sctx.Runner.Run(ctx, sctx.envCommand(sctx.Config.Tools.Pip, args...)); err != nil {
		return CommandFailed("installing django packages", err)
	}

	return Succeeded()
}
