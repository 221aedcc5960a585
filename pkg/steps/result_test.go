package steps

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"
	"testing"

	"github.com/systemstart/djscaffold/pkg/command"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindNone},
		{"canceled", fmt.Errorf("pip interrupted: %w", context.Canceled), Interrupted},
		{"canceled before start", &command.SpawnError{Command: "pip", Err: context.Canceled}, Interrupted},
		{"timeout", &command.TimeoutError{Command: "pip", Err: context.DeadlineExceeded}, Timeout},
		{"not found", &command.SpawnError{Command: "pip", Err: &exec.Error{Name: "pip", Err: exec.ErrNotFound}}, ToolMissing},
		{"spawn", &command.SpawnError{Command: "pip", Err: errors.New("permission denied")}, SpawnFailure},
		{"exit", fmt.Errorf("installing: %w", &command.ExitError{Command: "pip", Code: 1}), NonZeroExit},
		{"filesystem", &fs.PathError{Op: "open", Path: "/x", Err: fs.ErrPermission}, FilesystemError},
		{"unknown", errors.New("boom"), SpawnFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCommandFailed(t *testing.T) {
	cause := &command.ExitError{Command: "pip install Django", Code: 2}
	r := CommandFailed("installing django packages", cause)

	expectResult(t, r, HardFailure, NonZeroExit)
	if !errors.Is(r.Err, cause) {
		t.Error("expected cause to be wrapped")
	}
	if !strings.HasPrefix(r.Err.Error(), "installing django packages: ") {
		t.Errorf("expected operation name first, got %q", r.Err.Error())
	}
}

func TestResultOK(t *testing.T) {
	if !Succeeded("warn").OK() {
		t.Error("success with warnings should be OK")
	}
	if Soft(AlreadyExists, errors.New("x")).OK() {
		t.Error("soft failure must not be OK")
	}
	if Hard(ToolMissing, errors.New("x")).OK() {
		t.Error("hard failure must not be OK")
	}
}

func TestKindString(t *testing.T) {
	if PlatformUnsupported.String() != "platform-unsupported" {
		t.Errorf("unexpected name %q", PlatformUnsupported.String())
	}
	if Kind(99).String() != "kind(99)" {
		t.Errorf("unexpected name %q", Kind(99).String())
	}
}
