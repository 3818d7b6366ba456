package main

import (
	"context"

	"github.com/desertthunder/genresort/internal/services"
	"github.com/desertthunder/genresort/internal/tasks"
	"github.com/urfave/cli/v3"
)

// progressPrinter starts a goroutine printing pipeline updates to the output
// writer. The returned stop function closes the channel and waits for the
// printer to drain.
func (r *Runner) progressPrinter() (chan tasks.ProgressUpdate, func()) {
	ch := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})

	go func() {
		for update := range ch {
			switch update.Phase {
			case tasks.FetchSongs:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.FetchGenres:
				r.writePlain("🔍 %s\n", update.Message)
			case tasks.BuildBucketsPhase:
				r.writePlain("🗂  %s\n", update.Message)
			case tasks.CreatePlaylists:
				r.writePlain("📝 %s\n", update.Message)
			}
		}
		close(done)
	}()

	return ch, func() { close(ch); <-done }
}

// loadTracks returns the saved-track collection, from the stage cache unless
// fresh is set.
func (r *Runner) loadTracks(ctx context.Context, fresh bool) ([]services.Track, error) {
	if !fresh {
		if tracks := r.engine.CachedTracks(); tracks != nil {
			r.logger.Info("using cached saved tracks", "count", len(tracks))
			return tracks, nil
		}
	}

	progress, stop := r.progressPrinter()
	tracks, err := r.engine.FetchSongs(ctx, progress)
	stop()
	return tracks, err
}

// loadGenres returns the artist-genre map, from the stage cache unless fresh
// is set.
func (r *Runner) loadGenres(ctx context.Context, tracks []services.Track, fresh bool) (map[string][]string, error) {
	if !fresh {
		if genres := r.engine.CachedGenres(); genres != nil {
			r.logger.Info("using cached artist genres", "artists", len(genres))
			return genres, nil
		}
	}

	progress, stop := r.progressPrinter()
	genres, err := r.engine.FetchGenres(ctx, progress, tracks)
	stop()
	return genres, err
}

// LibrarySongs fetches and displays the user's saved tracks.
func (r *Runner) LibrarySongs(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	fresh := cmd.Bool("fresh")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	tracks, err := r.loadTracks(ctx, fresh)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(tracks, pretty)
	}

	r.writePlain("Found %d saved songs\n", len(tracks))
	return nil
}

// LibraryGenres fetches and displays the artist-genre map for the library.
func (r *Runner) LibraryGenres(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	fresh := cmd.Bool("fresh")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	tracks, err := r.loadTracks(ctx, fresh)
	if err != nil {
		return err
	}

	genres, err := r.loadGenres(ctx, tracks, fresh)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(genres, pretty)
	}

	distinct := map[string]bool{}
	for _, tags := range genres {
		for _, tag := range tags {
			distinct[tag] = true
		}
	}

	r.writePlain("Resolved genres for %d artists (%d distinct genres)\n", len(genres), len(distinct))
	return nil
}

// LibraryBuckets groups the library into genre buckets and displays them by
// descending track count.
func (r *Runner) LibraryBuckets(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	fresh := cmd.Bool("fresh")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	limit := cmd.Int("limit")

	tracks, err := r.loadTracks(ctx, fresh)
	if err != nil {
		return err
	}

	genres, err := r.loadGenres(ctx, tracks, fresh)
	if err != nil {
		return err
	}

	buckets := tasks.SortedBuckets(tasks.BuildBuckets(tracks, genres))
	if limit > 0 && limit < len(buckets) {
		buckets = buckets[:limit]
	}

	if useJSON {
		return r.writeJSON(buckets, pretty)
	}

	r.writePlain("Found %d genre buckets:\n\n", len(buckets))
	for i, bucket := range buckets {
		r.writePlain("%d. %s (%d tracks)\n", i+1, bucket.Genre, bucket.Count())
	}

	return nil
}
