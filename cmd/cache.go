package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// CacheShow displays the cached pipeline stage results.
func (r *Runner) CacheShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	tracks := r.engine.CachedTracks()
	genres := r.engine.CachedGenres()

	if useJSON {
		return r.writeJSON(map[string]any{
			"tracks": tracks,
			"genres": genres,
		}, pretty)
	}

	if tracks == nil && genres == nil {
		return r.writePlain("Cache is empty.\n")
	}

	if tracks != nil {
		r.writePlain("Cached saved songs: %d\n", len(tracks))
	}
	if genres != nil {
		r.writePlain("Cached artist genres: %d\n", len(genres))
	}
	r.writePlain("Run commands with --fresh to refetch.\n")

	return nil
}

// CacheClear drops the cached stage results, leaving the session intact.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	r.engine.ClearCache()
	r.logger.Info("stage cache cleared")
	return r.writePlain("✓ Cache cleared\n")
}
