package provision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/systemstart/djscaffold/pkg/api"
	"github.com/systemstart/djscaffold/pkg/command"
	"github.com/systemstart/djscaffold/pkg/resources"
	"github.com/systemstart/djscaffold/pkg/steps"
)

// State names a point in the provisioning state machine.
type State string

const (
	StatePlatformCheck   State = "platform-check"
	StateToolCheck       State = "tool-check"
	StateEnvToolCheck    State = "env-tool-check"
	StateDirectoryCreate State = "directory-create"
	StateDirectoryEnter  State = "directory-enter"
	StateEnvCreate       State = "env-create"
	StateEnvActivate     State = "env-activate"
	StatePackagesInstall State = "packages-install"
	StateFilesStage      State = "files-stage"
	StateProjectGenerate State = "project-generate"
	StateSettingsSwap    State = "settings-swap"
	StateDone            State = "done"
)

const supportedPlatform = "linux"

type stage struct {
	state State
	step  steps.Step
}

// pipeline is the fixed step order. Each stage runs only if every earlier
// stage succeeded, so the settings swap never runs without a generated project.
func pipeline() []stage {
	return []stage{
		{StateToolCheck, steps.NewPythonCheckStep()},
		{StateEnvToolCheck, steps.NewVirtualenvCheckStep()},
		{StateDirectoryCreate, steps.NewCreateDirectoryStep()},
		{StateDirectoryEnter, steps.NewEnterDirectoryStep()},
		{StateEnvCreate, steps.NewCreateEnvironmentStep()},
		{StateEnvActivate, steps.NewActivateEnvironmentStep()},
		{StatePackagesInstall, steps.NewInstallPackagesStep()},
		{StateFilesStage, steps.NewStageFilesStep()},
		{StateProjectGenerate, steps.NewGenerateProjectStep()},
		{StateSettingsSwap, steps.NewSwapSettingsStep()},
	}
}

// Report summarizes a provisioning run.
type Report struct {
	ProjectDir string
	Completed  []State
	Warnings   []string
	Duration   time.Duration
}

// Provisioner creates projects. It is only constructed on supported platforms.
type Provisioner struct {
	cfg     *api.Config
	bundle  *resources.Bundle
	runner  command.Runner
	baseDir string
	environ []string
	goos    string
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithRunner replaces the runner used for spawned processes.
func WithRunner(r command.Runner) Option {
	return func(p *Provisioner) { p.runner = r }
}

// WithBaseDir sets the directory projects are created in. Defaults to the
// working directory at construction time.
func WithBaseDir(dir string) Option {
	return func(p *Provisioner) { p.baseDir = dir }
}

// WithEnviron sets the base environment of spawned processes.
func WithEnviron(env []string) Option {
	return func(p *Provisioner) { p.environ = env }
}

// WithPlatform overrides the detected operating system.
func WithPlatform(goos string) Option {
	return func(p *Provisioner) { p.goos = goos }
}

// New validates cfg and its resource bundle and returns a Provisioner. On any
// platform other than Linux it fails with a PlatformUnsupported Failure
// before anything runs.
func New(cfg *api.Config, opts ...Option) (*Provisioner, error) {
	p := &Provisioner{cfg: cfg, goos: runtime.GOOS}
	for _, opt := range opts {
		opt(p)
	}

	if p.goos != supportedPlatform {
		return nil, &Failure{
			State: StatePlatformCheck,
			Kind:  steps.PlatformUnsupported,
			Err:   fmt.Errorf("this command works on linux computers only (running on %s)", p.goos),
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, &Failure{State: StatePlatformCheck, Kind: steps.ConfigError, Err: fmt.Errorf("invalid configuration: %w", err)}
	}

	bundle, err := resources.Open(cfg.Resources)
	if err != nil {
		return nil, &Failure{State: StatePlatformCheck, Kind: steps.ConfigError, Err: err}
	}
	p.bundle = bundle

	if p.runner == nil {
		p.runner = command.NewExecRunner(os.Stdout, os.Stderr, cfg.Timeouts.Command, cfg.Timeouts.Grace)
	}

	if p.baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, &Failure{State: StatePlatformCheck, Kind: steps.FilesystemError, Err: fmt.Errorf("getting working directory: %w", err)}
		}
		p.baseDir = wd
	}

	slog.Debug("provisioner ready", "resources", bundle.Origin(), "baseDir", p.baseDir)
	return p, nil
}

// Run provisions the project named by req. It stops at the first step that does
// not succeed and leaves everything created so far in place.
func (p *Provisioner) Run(ctx context.Context, req api.ProjectRequest) (*Report, error) {
	start := time.Now()
	report := &Report{Completed: []State{StatePlatformCheck}}

	sctx := &steps.StepContext{
		Request: req,
		Config:  p.cfg,
		Runner:  p.runner,
		Bundle:  p.bundle,
		BaseDir: p.baseDir,
		Environ: p.environ,
	}

	slog.Info("creating django project", "name", req.Name(), "directory", p.baseDir)

	for _, st := range pipeline() {
		if err := ctx.Err(); err != nil {
			report.Duration = time.Since(start)
			return report, &Failure{State: st.state, Kind: steps.Interrupted, Err: err}
		}

		result := p.runStage(ctx, st, sctx)
		report.Warnings = append(report.Warnings, result.Warnings...)
		report.ProjectDir = sctx.ProjectDir

		if !result.OK() {
			report.Duration = time.Since(start)
			return report, &Failure{State: st.state, Kind: result.Kind, Err: result.Err}
		}
		report.Completed = append(report.Completed, st.state)
	}

	report.Completed = append(report.Completed, StateDone)
	report.Duration = time.Since(start)
	slog.Info("django project created", "name", req.Name(), "directory", report.ProjectDir, "duration", report.Duration)
	return report, nil
}

func (p *Provisioner) runStage(ctx context.Context, st stage, sctx *steps.StepContext) steps.Result {
	slog.Info("running step", "state", st.state, "step", st.step.Name())
	begin := time.Now()

	result := st.step.Run(ctx, sctx)

	switch result.Status {
	case steps.Success:
		slog.Debug("step succeeded", "step", st.step.Name(), "duration", time.Since(begin))
	case steps.SoftFailure:
		slog.Warn("step stopped the pipeline", "step", st.step.Name(), "kind", result.Kind, "error", result.Err)
	default:
		slog.Error("step failed", "step", st.step.Name(), "kind", result.Kind, "error", result.Err)
	}

	if result.Err == nil && !result.OK() {
		result.Err = errors.New("step did not complete")
	}
	return result
}
