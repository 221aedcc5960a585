package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/systemstart/djscaffold/pkg/api"
	"github.com/systemstart/djscaffold/pkg/provision"
)

var commandTimeout time.Duration

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project commands",
}

var projectCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a Django project",
	Long: `Creates <name>/ in the current directory, sets up a virtual environment in it,
installs the project packages, stages Docker files and runs django-admin startproject.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runCreate(ctx, args[0])
	},
}

func init() {
	projectCreateCmd.Flags().DurationVar(&commandTimeout, "timeout", 0, "maximum run time of each spawned command (overrides the configuration)")
	projectCmd.AddCommand(projectCreateCmd)
	rootCmd.AddCommand(projectCmd)
}

func runCreate(ctx context.Context, name string) error {
	req, err := api.NewProjectRequest(name)
	if err != nil {
		slog.Error("invalid project name", "error", err)
		return exitWith(exitInvalidProjectName, err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p, err := provision.New(cfg)
	if err != nil {
		return failed(err)
	}

	report, err := p.Run(ctx, req)
	for _, w := range report.Warnings {
		slog.Warn("completed with warning", "warning", w)
	}
	if err != nil {
		if report.ProjectDir != "" {
			slog.Info("partial project left in place", "directory", report.ProjectDir)
		}
		return failed(err)
	}

	slog.Info("done", "project", req.Name(), "directory", report.ProjectDir)
	return nil
}

func loadConfig() (*api.Config, error) {
	cfg := api.DefaultConfig()
	if configFile != "" {
		var err error
		cfg, err = api.LoadConfig(configFile)
		if err != nil {
			slog.Error("failed to load configuration file", "filename", configFile, "error", err)
			return nil, exitWith(exitLoadConfigurationFileFailed, err)
		}
	}

	if commandTimeout > 0 {
		cfg.Timeouts.Command = commandTimeout
	}
	return cfg, nil
}

func failed(err error) error {
	var f *provision.Failure
	if errors.As(err, &f) {
		slog.Error("project creation failed", "state", f.State, "kind", f.Kind, "error", f.Err)
		return exitWith(exitCodeFor(f.Kind), err)
	}
	slog.Error("project creation failed", "error", err)
	return exitWith(exitConfigError, err)
}
