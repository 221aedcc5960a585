package steps

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/systemstart/djscaffold/pkg/command"
)

type pythonCheckStep struct{}

// NewPythonCheckStep creates a step verifying the Python runtime is on PATH.
func NewPythonCheckStep() Step { return &pythonCheckStep{} }

func (s *pythonCheckStep) Name() string { return "check-python" }

func (s *pythonCheckStep) Run(ctx context.Context, sctx *StepContext) Result {
	python := sctx.Config.Tools.Python
	probe := sctx.systemCommand(python, "--version")

	if !command.Probe(ctx, sctx.Runner, probe, sctx.Config.Timeouts.Probe) {
		if err := ctx.Err(); err != nil {
			return Hard(Interrupted, err)
		}
		return Hard(ToolMissing, fmt.Errorf("%s not found: install Python 3 to continue", python))
	}

	slog.Debug("python runtime found", "python", python)
	return Succeeded()
}

type virtualenvCheckStep struct{}

// NewVirtualenvCheckStep creates a step verifying the virtualenv module is
// importable, installing it with pip when it is not.
func NewVirtualenvCheckStep() Step { return &virtualenvCheckStep{} }

func (s *virtualenvCheckStep) Name() string { return "check-virtualenv" }

func (s *virtualenvCheckStep) Run(ctx context.Context, sctx *StepContext) Result {
	tools := sctx.Config.Tools
	probe := sctx.systemCommand(tools.Python, "-m", tools.Virtualenv, "--version")

	if command.Probe(ctx, sctx.Runner, probe, sctx.Config.Timeouts.Probe) {
		return Succeeded()
	}
	if err := ctx.Err(); err != nil {
		return Hard(Interrupted, err)
	}

	slog.Warn("virtualenv not found, installing it", "module", tools.Virtualenv)

	install := sctx.systemCommand(tools.Python, "-m", "pip", "install", tools.Virtualenv)
	if err := sctx.Runner.Run(ctx, install); err != nil {
		return CommandFailed("installing virtualenv", err)
	}

	if !command.Probe(ctx, sctx.Runner, probe, sctx.Config.Timeouts.Probe) {
		if err := ctx.Err(); err != nil {
			return Hard(Interrupted, err)
		}
		return Hard(ToolMissing, fmt.Errorf("%s -m %s is still unavailable after installation", tools.Python, tools.Virtualenv))
	}

	slog.Info("virtualenv installed", "module", tools.Virtualenv)
	return Succeeded()
}
