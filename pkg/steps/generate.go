package steps

import (
	"context"
	"log/slog"
)

type generateProjectStep struct{}

// NewGenerateProjectStep creates a step running django-admin startproject in
// the project directory.
func NewGenerateProjectStep() Step { return &generateProjectStep{} }

func (s *generateProjectStep) Name() string { return "generate-project" }

func (s *generateProjectStep) Run(ctx context.Context, sctx *StepContext) Result {
	if sctx.Env == nil {
		return Hard(ConfigError, errNotActivated)
	}

	name := sctx.Request.Name()
	run := sctx.envCommand(sctx.Config.Tools.DjangoAdmin, "startproject", name, ".")
	if err := sctx.Runner.Run(ctx, run); err != nil {
		return CommandFailed("creating django project "+name, err)
	}

	slog.Info("django project generated", "name", name, "directory", sctx.ProjectDir)
	return Succeeded()
}
