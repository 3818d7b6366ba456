package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/genresort/internal/services"
	"github.com/desertthunder/genresort/internal/shared"
	"github.com/desertthunder/genresort/internal/tasks"
	"github.com/urfave/cli/v3"
)

// PlaylistsCreate materializes the selected genre buckets as playlists.
func (r *Runner) PlaylistsCreate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	selected := cmd.StringSlice("genre")
	all := cmd.Bool("all")
	fresh := cmd.Bool("fresh")

	if len(selected) == 0 && !all {
		return fmt.Errorf("%w: pass --genre at least once, or --all", shared.ErrMissingArgument)
	}

	tracks, err := r.loadTracks(ctx, fresh)
	if err != nil {
		return err
	}

	genres, err := r.loadGenres(ctx, tracks, fresh)
	if err != nil {
		return err
	}

	buckets := tasks.BuildBuckets(tracks, genres)
	if all {
		selected = nil
		for _, bucket := range tasks.SortedBuckets(buckets) {
			selected = append(selected, bucket.Genre)
		}
	}

	progress, stop := r.progressPrinter()
	results, runErr := r.engine.CreatePlaylists(ctx, progress, selected, buckets)
	stop()

	r.printResults(results)

	if runErr != nil {
		return runErr
	}
	return nil
}

// PlaylistsRun executes the full pipeline: songs, genres, buckets, playlists.
func (r *Runner) PlaylistsRun(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	selected := cmd.StringSlice("genre")
	fresh := cmd.Bool("fresh")

	r.logger.Info("starting full run", "genres", len(selected), "fresh", fresh)
	r.writePlain("Sorting your library into genre playlists...\n\n")

	progress, stop := r.progressPrinter()
	result, runErr := r.engine.Run(ctx, progress, selected, fresh)
	stop()

	if result != nil {
		r.writePlain("\n")
		r.writePlainHeader("Run Complete")
		r.writePlain("Saved songs: %d\n", len(result.Tracks))
		r.writePlain("Artists resolved: %d\n", len(result.Genres))
		r.writePlain("Genre buckets: %d\n", len(result.Buckets))
		r.printResults(result.Playlists)
	}

	if runErr != nil {
		return runErr
	}
	return nil
}

// printResults writes the created playlists, including any partial playlist
// left by an aborted write.
func (r *Runner) printResults(results []services.PlaylistResult) {
	if len(results) == 0 {
		r.writePlain("No playlists created.\n")
		return
	}

	r.writePlain("Created %d playlists:\n\n", len(results))
	for i, result := range results {
		r.writePlain("%d. %s (%d tracks)\n", i+1, result.Genre, result.TrackCount)
		r.writePlain("   %s\n", result.Link)
	}
}
