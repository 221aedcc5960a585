package steps

import (
	"context"
	"os"

	"github.com/systemstart/djscaffold/pkg/api"
	"github.com/systemstart/djscaffold/pkg/command"
	"github.com/systemstart/djscaffold/pkg/resources"
)

// StepContext carries the state shared by the steps of one provisioning run.
// ProjectDir and Env start empty and are filled in by the directory-enter and
// environment-activate steps; later steps read them instead of relying on the
// process working directory.
type StepContext struct {
	Request api.ProjectRequest
	Config  *api.Config
	Runner  command.Runner
	Bundle  *resources.Bundle

	BaseDir string   // directory the project directory is created in
	Environ []string // base environment for children; nil means os.Environ()

	ProjectDir string
	Env        *Environment
}

func (c *StepContext) environ() []string {
	if c.Environ != nil {
		return c.Environ
	}
	return os.Environ()
}

// systemCommand builds a command that runs outside the project environment.
func (c *StepContext) systemCommand(name string, args ...string) command.Command {
	return command.Command{Name: name, Args: args, Dir: c.ProjectDir, Env: c.environ()}
}

// envCommand builds a command scoped to the activated project environment.
func (c *StepContext) envCommand(name string, args ...string) command.Command {
	return command.Command{Name: c.Env.Lookup(name), Args: args, Dir: c.ProjectDir, Env: c.Env.Environ(c.environ())}
}

// Step is the interface all provisioning steps implement.
type Step interface {
	Name() string
	Run(ctx context.Context, sctx *StepContext) Result
}
