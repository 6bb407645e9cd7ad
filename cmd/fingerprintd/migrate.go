package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtroode/fingerprint-server/database"
	"github.com/dtroode/fingerprint-server/internal/config"
	"github.com/dtroode/fingerprint-server/internal/repository/sqlite"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply template store migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadRuntime()
			if err != nil {
				return err
			}
			defer log.Close()

			if err := migrate(cmd.Context(), cfg.Database); err != nil {
				return err
			}
			log.Info("Migrations applied", "driver", cfg.Database.Driver)
			return nil
		},
	}
}

func migrate(ctx context.Context, cfg config.Database) error {
	switch cfg.Driver {
	case config.DriverPostgres:
		return database.Migrate(ctx, cfg.DSN)
	case config.DriverSQLite:
		// Open migrates the file before returning.
		repo, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return err
		}
		return repo.Close()
	case config.DriverMemory:
		return nil
	default:
		return fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
