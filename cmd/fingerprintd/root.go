package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtroode/fingerprint-server/internal/config"
	"github.com/dtroode/fingerprint-server/internal/logger"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fingerprintd",
		Short:         "Fingerprint enrollment and verification service",
		Version:       fmt.Sprintf("%s (built %s, commit %s)", buildVersion, buildDate, buildCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newMigrateCommand())
	rootCmd.AddCommand(newTokenCommand())

	return rootCmd
}

// loadRuntime parses the environment and builds the logger every command uses.
func loadRuntime() (*config.Config, *logger.Logger, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.NewWithOptions(logger.Options{
		Level:  cfg.LogLevel,
		Dir:    cfg.LogDir,
		MaxAge: cfg.LogMaxAge,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, log, nil
}
