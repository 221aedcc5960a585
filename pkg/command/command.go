package command

import (
	"context"
	"fmt"
	"strings"
)

// Command is a single child-process invocation. Args is passed to the child as
// an argument vector; nothing is ever interpreted by a shell.
type Command struct {
	Name string
	Args []string
	Dir  string
	Env  []string // full environment; nil inherits the parent's

	// Quiet discards the child's output instead of forwarding it.
	Quiet bool
}

// String renders the command for diagnostics.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Runner spawns a command and waits for it to exit.
type Runner interface {
	Run(ctx context.Context, c Command) error
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, c Command) error

func (f RunnerFunc) Run(ctx context.Context, c Command) error { return f(ctx, c) }

// SpawnError reports a child process that could not be started.
type SpawnError struct {
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("starting %s: %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// ExitError reports a child process that ran and exited non-zero.
type ExitError struct {
	Command string
	Code    int
	Stderr  string // tail of the child's stderr
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Command, e.Code)
	if e.Stderr != "" {
		msg += "\nstderr: " + e.Stderr
	}
	return msg
}

// TimeoutError reports a child process that was stopped after its deadline.
type TimeoutError struct {
	Command string
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out and was terminated", e.Command)
}

func (e *TimeoutError) Unwrap() error { return e.Err }
