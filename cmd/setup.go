package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/taskly/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the embedded config template to --config, or validates an existing file.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := r.configPath
	if path == "" {
		path = "config.toml"
	}

	if cmd.Bool("validate") {
		config, err := shared.LoadConfig(path)
		if err != nil {
			return err
		}
		if err := config.Validate(); err != nil {
			return err
		}
		return r.writePlain("✓ %s is valid\n", path)
	}

	if _, err := os.Stat(path); err == nil {
		r.logger.Info("config file already exists", "path", path)
		return r.writePlain("Config file already exists: %s\n", path)
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", path)

	r.writePlain("✓ Config file created: %s\n", path)
	r.writePlain("\nNext steps:\n")
	r.writePlain("1. Set auth.api_key and api.base_url in %s\n", path)
	r.writePlain("2. Run 'taskly setup database'\n")
	return r.writePlain("3. Run 'taskly auth login' or 'taskly auth register'\n")
}

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("initializing database", "path", r.config.Database.Path)

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if cmd.Bool("rollback") {
		r.logger.Info("rolling back latest migration")
		if err := shared.RollbackMigration(ctx, db); err != nil {
			return err
		}
	} else {
		r.logger.Info("running database migrations")
		if err := shared.RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	version, err := shared.SchemaVersion(ctx, db)
	if err != nil {
		return err
	}

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	return r.writePlain("✓ Database ready: %s (schema version %d)\n", r.config.Database.Path, version)
}
