package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/genresort/internal/auth"
	"github.com/desertthunder/genresort/internal/services"
	"github.com/desertthunder/genresort/internal/session"
	"github.com/desertthunder/genresort/internal/shared"
	"github.com/urfave/cli/v3"
)

const configPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		}
	}

	opts := RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Logger:     logger,
	}

	if config.Credentials.Spotify.ClientID != "" {
		db, err := shared.NewDatabase(config.Database.Path)
		if err != nil {
			logger.Warn("failed to open session database", "error", err)
		} else if store, err := session.NewSQLiteStore(db); err != nil {
			logger.Warn("failed to initialize session store", "error", err)
		} else {
			opts.Store = store
			if manager, err := auth.NewManager(config.Credentials.Spotify, store, logger); err == nil {
				opts.Manager = manager
				opts.API = services.NewSpotifyClient(manager, nil, config.HTTP)
			}
		}
	}

	runner := NewRunner(opts)

	app := &cli.Command{
		Name:     "genresort",
		Usage:    "Sort your Spotify liked songs into genre playlists",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrAuthRequired) {
			logger.Error("not logged in, run 'genresort auth login'")
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}
