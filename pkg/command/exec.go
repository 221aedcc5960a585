package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

const stderrTailSize = 4096

// ExecRunner runs commands with os/exec. Timeout bounds each command; on expiry
// the child receives SIGTERM and is killed after Grace.
type ExecRunner struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Timeout time.Duration
	Grace   time.Duration
}

// NewExecRunner creates a runner forwarding child output to stdout and stderr.
func NewExecRunner(stdout, stderr io.Writer, timeout, grace time.Duration) *ExecRunner {
	return &ExecRunner{Stdout: stdout, Stderr: stderr, Timeout: timeout, Grace: grace}
}

func (r *ExecRunner) Run(ctx context.Context, c Command) error {
	path, err := resolve(c.Name, c.Env)
	if err != nil {
		return &SpawnError{Command: c.Name, Err: err}
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = r.Grace

	stderr := &tailBuffer{limit: stderrTailSize}
	if c.Quiet {
		cmd.Stderr = stderr
	} else {
		cmd.Stdout = writerOrDiscard(r.Stdout)
		cmd.Stderr = io.MultiWriter(writerOrDiscard(r.Stderr), stderr)
	}

	if err := cmd.Start(); err != nil {
		return &SpawnError{Command: c.String(), Err: err}
	}

	err = cmd.Wait()
	if err == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return &TimeoutError{Command: c.String(), Err: ctxErr}
		}
		return fmt.Errorf("%s interrupted: %w", c.String(), ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Command: c.String(), Code: exitErr.ExitCode(), Stderr: strings.TrimSpace(stderr.String())}
	}

	return fmt.Errorf("waiting for %s: %w", c.String(), err)
}

// resolve finds name on the PATH carried by env, falling back to the
// parent's PATH when env has none. exec.LookPath alone ignores cmd.Env.
func resolve(name string, env []string) (string, error) {
	if strings.ContainsRune(name, filepath.Separator) {
		return name, nil
	}

	pathList, ok := lookupEnv(env, "PATH")
	if !ok {
		return exec.LookPath(name)
	}

	for _, dir := range filepath.SplitList(pathList) {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}
	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	mode := info.Mode()
	return !mode.IsDir() && mode&fs.ModePerm&0o111 != 0
}

func lookupEnv(env []string, key string) (string, bool) {
	if env == nil {
		return "", false
	}
	prefix := key + "="
	for i := len(env) - 1; i >= 0; i-- {
		if strings.HasPrefix(env[i], prefix) {
			return env[i][len(prefix):], true
		}
	}
	return "", false
}

func writerOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	limit int
	buf   []byte
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.buf = append(b.buf, p...)
	if over := len(b.buf) - b.limit; over > 0 {
		b.buf = b.buf[over:]
	}
	return len(p), nil
}

func (b *tailBuffer) String() string { return string(b.buf) }
