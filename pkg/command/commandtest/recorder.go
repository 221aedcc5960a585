// Package commandtest provides a scripted command.Runner for tests.
package commandtest

import (
	"context"
	"os/exec"
	"strings"
	"sync"

	"github.com/systemstart/djscaffold/pkg/command"
)

// Handler simulates one command.
type Handler func(c command.Command) error

type rule struct {
	prefix  string
	handler Handler
}

// Recorder records every command it is asked to run and answers with the
// first handler whose prefix matches the rendered command. Unmatched commands
// succeed.
type Recorder struct {
	mu    sync.Mutex
	rules []rule
	calls []command.Command
}

// New creates an empty Recorder.
func New() *Recorder { return &Recorder{} }

// On registers h for commands whose String() starts with prefix.
func (r *Recorder) On(prefix string, h Handler) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, rule{prefix: prefix, handler: h})
	return r
}

func (r *Recorder) Run(ctx context.Context, c command.Command) error {
	r.mu.Lock()
	r.calls = append(r.calls, c)
	var h Handler
	for _, rl := range r.rules {
		if strings.HasPrefix(c.String(), rl.prefix) {
			h = rl.handler
			break
		}
	}
	r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if h == nil {
		return nil
	}
	return h(c)
}

// Calls returns the recorded commands in invocation order.
func (r *Recorder) Calls() []command.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]command.Command(nil), r.calls...)
}

// Commands returns the rendered recorded commands.
func (r *Recorder) Commands() []string {
	calls := r.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}

// Index returns the position of the first command starting with prefix, or -1.
func (r *Recorder) Index(prefix string) int {
	for i, c := range r.Commands() {
		if strings.HasPrefix(c, prefix) {
			return i
		}
	}
	return -1
}

// Called reports whether any recorded command starts with prefix.
func (r *Recorder) Called(prefix string) bool { return r.Index(prefix) >= 0 }

// Exit returns a handler failing with a non-zero exit status.
func Exit(code int) Handler {
	return func(c command.Command) error {
		return &command.ExitError{Command: c.String(), Code: code}
	}
}

// NotFound returns a handler failing as if the executable were absent.
func NotFound() Handler {
	return func(c command.Command) error {
		return &command.SpawnError{Command: c.Name, Err: &exec.Error{Name: c.Name, Err: exec.ErrNotFound}}
	}
}
