package steps

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"

	"github.com/systemstart/djscaffold/pkg/command"
)

// Status is the outcome class of a step.
type Status int

const (
	Success Status = iota
	// SoftFailure stops the pipeline for an expected reason, e.g. an existing environment.
	SoftFailure
	// HardFailure aborts the pipeline.
	HardFailure
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case SoftFailure:
		return "soft-failure"
	case HardFailure:
		return "hard-failure"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Kind classifies why a step failed.
type Kind int

const (
	KindNone Kind = iota
	PlatformUnsupported
	ToolMissing
	SpawnFailure
	NonZeroExit
	Timeout
	Interrupted
	FilesystemError
	AlreadyExists
	ConfigError
)

var kindNames = map[Kind]string{
	KindNone:            "none",
	PlatformUnsupported: "platform-unsupported",
	ToolMissing:         "tool-missing",
	SpawnFailure:        "spawn-failure",
	NonZeroExit:         "non-zero-exit",
	Timeout:             "timeout",
	Interrupted:         "interrupted",
	FilesystemError:     "filesystem-error",
	AlreadyExists:       "already-exists",
	ConfigError:         "config-error",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Result is the tagged outcome of a single step.
type Result struct {
	Status   Status
	Kind     Kind
	Err      error
	Warnings []string // non-fatal problems, reported but not escalated
}

// OK reports whether the pipeline may continue after this result.
func (r Result) OK() bool { return r.Status == Success }

// Succeeded returns a successful result carrying optional warnings.
func Succeeded(warnings ...string) Result {
	return Result{Status: Success, Warnings: warnings}
}

// Soft returns a soft failure.
func Soft(kind Kind, err error) Result {
	return Result{Status: SoftFailure, Kind: kind, Err: err}
}

// Hard returns a hard failure.
func Hard(kind Kind, err error) Result {
	return Result{Status: HardFailure, Kind: kind, Err: err}
}

// CommandFailed wraps a spawned-process error as a hard failure naming op.
func CommandFailed(op string, err error) Result {
	return Hard(Classify(err), fmt.Errorf("%s: %w", op, err))
}

// Classify maps an error from a command.Runner or the filesystem to a Kind.
func Classify(err error) Kind {
	var (
		timeoutErr *command.TimeoutError
		spawnErr   *command.SpawnError
		exitErr    *command.ExitError
		pathErr    *fs.PathError
	)

	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, context.Canceled):
		return Interrupted
	case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
		return Timeout
	case errors.As(err, &spawnErr):
		if errors.Is(err, exec.ErrNotFound) {
			return ToolMissing
		}
		return SpawnFailure
	case errors.As(err, &exitErr):
		return NonZeroExit
	case errors.As(err, &pathErr):
		return FilesystemError
	default:
		return SpawnFailure
	}
}
