package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/desertthunder/twsync/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup initializes configuration and prepares the configured store backend.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}

	switch config.Store.Backend {
	case "sqlite":
		r.logger.Info("initializing store database", "path", config.Store.Path)

		db, err := shared.OpenStoreDatabase(config.Store)
		if err != nil {
			return fmt.Errorf("failed to open store database: %w", err)
		}
		defer db.Close()

		r.logger.Info("running database migrations")
		if err := shared.RunMigrations(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		r.logger.Infof("setup complete for store: %v", config.Store.Path)
	case "taskwarrior":
		bin := config.Store.TaskBin
		if bin == "" {
			bin = "task"
		}
		path, err := exec.LookPath(bin)
		if err != nil {
			return fmt.Errorf("%w: task binary %q not found in PATH", shared.ErrInvalidConfig, bin)
		}
		r.logger.Info("taskwarrior backend ready", "bin", path)
	default:
		return fmt.Errorf("%w: unknown store backend %q", shared.ErrInvalidConfig, config.Store.Backend)
	}

	return nil
}
