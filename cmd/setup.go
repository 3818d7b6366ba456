package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/genresort/internal/session"
	"github.com/desertthunder/genresort/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the configuration file and initializes the session database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(path); err == nil {
		if config, err = shared.LoadConfig(path); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", path)
		if err := shared.CreateConfigFile(path); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", path)
			if config, err = shared.LoadConfig(path); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}

	r.logger.Info("initializing session database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	if _, err := session.NewSQLiteStore(db); err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}

	r.writePlain("✓ Setup complete\n\n")
	r.writePlain("Next steps:\n")
	r.writePlain("1. Create a Spotify app at https://developer.spotify.com/dashboard\n")
	r.writePlain("2. Set spotify client_id and redirect_uri in %s\n", path)
	r.writePlain("3. Run 'genresort auth login'\n")

	return nil
}
