// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// outputFlags are shared by commands that can emit JSON.
func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: true,
		},
	}
}

// freshFlag forces a refetch instead of using cached stage results.
func freshFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "fresh",
		Usage: "Ignore cached results and refetch from Spotify",
	}
}

// setupCommand handles configuration and database initialization.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml and initialize the session database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the Spotify session",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Log in to Spotify with OAuth2 PKCE",
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Clear the stored session",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show the current session state",
				Action: r.AuthStatus,
			},
		},
	}
}

// libraryCommand handles saved-track and genre inspection.
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Inspect your saved-track library",
		Commands: []*cli.Command{
			{
				Name:   "songs",
				Usage:  "Fetch all saved songs",
				Flags:  append(outputFlags(), freshFlag()),
				Action: r.LibrarySongs,
			},
			{
				Name:   "genres",
				Usage:  "Resolve genres for the library's artists",
				Flags:  append(outputFlags(), freshFlag()),
				Action: r.LibraryGenres,
			},
			{
				Name:  "buckets",
				Usage: "Group the library into genre buckets",
				Flags: append(outputFlags(),
					freshFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of buckets to display",
					},
				),
				Action: r.LibraryBuckets,
			},
		},
	}
}

// playlistsCommand handles playlist creation operations.
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "Create genre playlists",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create playlists for selected genre buckets",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "genre",
						Aliases: []string{"g"},
						Usage:   "Genre bucket to materialize (repeatable)",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Create a playlist for every bucket",
					},
					freshFlag(),
				},
				Action: r.PlaylistsCreate,
			},
			{
				Name:  "run",
				Usage: "Run the full pipeline: songs, genres, buckets, playlists",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "genre",
						Aliases: []string{"g"},
						Usage:   "Restrict to these genres (default: all buckets)",
					},
					freshFlag(),
				},
				Action: r.PlaylistsRun,
			},
		},
	}
}

// cacheCommand handles the persisted stage cache.
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect and clear cached pipeline results",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show cached saved songs and genres",
				Flags:  outputFlags(),
				Action: r.CacheShow,
			},
			{
				Name:   "clear",
				Usage:  "Drop cached results, keeping the session",
				Action: r.CacheClear,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive bucket selection.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for bucket selection",
		Action:  r.TUI,
	}
}
