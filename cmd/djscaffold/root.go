package main

import (
	"github.com/spf13/cobra"
	"github.com/systemstart/djscaffold/pkg/logging"
)

var (
	configFile  string
	loggingType string
	logLevel    string
)

var rootCmd = &cobra.Command{
	Use:           "djscaffold",
	Short:         "Scaffold Django REST projects",
	Long:          `djscaffold creates a Django REST framework project with a virtual environment, Docker files and a preconfigured settings module.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Initialize(loggingType, logLevel); err != nil {
			return exitWith(exitLoggingSetupFailed, err)
		}
		return includeEnv()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "configuration YAML file (defaults are compiled in)")
	rootCmd.PersistentFlags().StringVar(&loggingType, "logging-type", logging.Tint, "logging type: json, text or tint")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "logging level: debug, info, warn, error")
}
