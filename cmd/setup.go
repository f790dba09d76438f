package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/taskview/internal/shared"
)

// Setup creates the config file when missing, initializes the database and runs migrations.
// With --reset every migration is rolled back and reapplied first.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.logger.Info("config file created", "path", configPath)
	}

	config, err := shared.LoadConfig(configPath)
	if err != nil {
		return err
	}
	r.config = config
	r.configPath = configPath

	if err := r.config.Validate(); err != nil {
		return err
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)
	db, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if cmd.Bool("reset") {
		r.logger.Warn("resetting database", "path", r.config.Database.Path)
		if err := shared.ResetDatabase(db); err != nil {
			return fmt.Errorf("failed to reset database: %w", err)
		}
	}

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)

	r.writePlainln("Next steps:")
	r.writePlain("1. Point server.base_url in %s at the dashboard server\n", configPath)
	r.writePlain("2. Run 'taskview tui' to open the dashboard\n")
	return nil
}
