package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/systemstart/djscaffold/pkg/steps"
)

var version = "dev"

const (
	_ = iota
	exitUsage
	exitDotenvError
	exitLoggingSetupFailed
	exitLoadConfigurationFileFailed
	exitInvalidProjectName
	exitPlatformUnsupported
	exitToolMissing
	exitSpawnFailure
	exitNonZeroExit
	exitTimeout
	exitInterrupted
	exitFilesystemError
	exitAlreadyExists
	exitConfigError
)

var kindExitCodes = map[steps.Kind]int{
	steps.PlatformUnsupported: exitPlatformUnsupported,
	steps.ToolMissing:         exitToolMissing,
	steps.SpawnFailure:        exitSpawnFailure,
	steps.NonZeroExit:         exitNonZeroExit,
	steps.Timeout:             exitTimeout,
	steps.Interrupted:         exitInterrupted,
	steps.FilesystemError:     exitFilesystemError,
	steps.AlreadyExists:       exitAlreadyExists,
	steps.ConfigError:         exitConfigError,
}

// exitError carries the process exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func exitWith(code int, err error) error {
	return &exitError{code: code, err: err}
}

func exitCodeFor(kind steps.Kind) int {
	if code, ok := kindExitCodes[kind]; ok {
		return code
	}
	return exitConfigError
}

func main() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	var ee *exitError
	if errors.As(err, &ee) {
		os.Exit(ee.code)
	}

	// cobra argument and flag errors
	fmt.Fprintln(os.Stderr, err)
	os.Exit(exitUsage)
}

func includeEnv() error {
	err := godotenv.Load()
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Error("failed to load .env", "error", err)
			return exitWith(exitDotenvError, err)
		}
		slog.Debug("no .env file found")
	} else {
		slog.Info("using .env file")
	}
	return nil
}
