package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/genresort/internal/services"
	"github.com/desertthunder/genresort/internal/session"
	"github.com/desertthunder/genresort/internal/shared"
)

// Default request bounds enforced by the remote service.
const (
	defaultPageSize  = 50
	defaultBatchSize = 50
	defaultChunkSize = 100
)

// Invalidator clears the session when the remote service rejects a token.
type Invalidator interface {
	Invalidate()
}

// Engine orchestrates the library pipeline stages.
//
// Stages run strictly sequentially with one request in flight at a time; a
// 401 anywhere aborts the stage, clears the session, and discards partial
// fetch results. Playlist writes are at-least-once: playlists created before
// an abort remain created.
type Engine struct {
	api      services.LibraryAPI
	sessions session.Store
	auth     Invalidator
	logger   *log.Logger

	pageSize  int
	batchSize int
	chunkSize int
}

// NewEngine creates an Engine with the provided dependencies.
func NewEngine(api services.LibraryAPI, sessions session.Store, auth Invalidator, logger *log.Logger) *Engine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Engine{
		api:       api,
		sessions:  sessions,
		auth:      auth,
		logger:    logger,
		pageSize:  defaultPageSize,
		batchSize: defaultBatchSize,
		chunkSize: defaultChunkSize,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// remoteErr maps a client error onto the pipeline failure taxonomy: a
// rejected token clears the session and forces re-login, any other HTTP
// failure aborts the operation with the status attached.
func (e *Engine) remoteErr(err error) error {
	var statusErr *services.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.Unauthorized() {
			if e.auth != nil {
				e.auth.Invalidate()
			}
			return fmt.Errorf("%w: token rejected by service", shared.ErrAuthRequired)
		}
		return fmt.Errorf("%w: status %d", shared.ErrFetchFailed, statusErr.Status)
	}
	return err
}

// FetchSongs retrieves the user's entire saved-track collection, one page at
// a time with monotonically increasing offsets, until a page comes back
// empty. Service order is preserved. Partial results are discarded on any
// failure.
func (e *Engine) FetchSongs(ctx context.Context, progress chan<- ProgressUpdate) ([]services.Track, error) {
	var tracks []services.Track

	for offset, page := 0, 0; ; offset += e.pageSize {
		resp, err := e.api.SavedTracks(ctx, e.pageSize, offset)
		if err != nil {
			return nil, e.remoteErr(err)
		}
		if len(resp.Items) == 0 {
			break
		}

		for _, item := range resp.Items {
			tracks = append(tracks, services.Track{
				ID:       item.Track.ID,
				URI:      item.Track.URI,
				ArtistID: item.Track.PrimaryArtistID(),
			})
		}

		page++
		e.sendProgress(progress, fetchPageUpdate(page, len(tracks)))
	}

	e.sendProgress(progress, songsDoneUpdate(len(tracks)))
	e.cacheStage(func(r *session.Record) { r.Tracks = tracks })

	return tracks, nil
}

// FetchGenres looks up genres for the distinct primary artists of the given
// tracks, in ordered chunks of at most the service's batch limit, and merges
// the responses into one map. Artists missing from a response are simply
// absent from the map.
func (e *Engine) FetchGenres(ctx context.Context, progress chan<- ProgressUpdate, tracks []services.Track) (map[string][]string, error) {
	ids := distinctArtistIDs(tracks)
	genres := make(map[string][]string, len(ids))

	totalChunks := (len(ids) + e.batchSize - 1) / e.batchSize

	for i := 0; i < len(ids); i += e.batchSize {
		end := min(i+e.batchSize, len(ids))
		e.sendProgress(progress, genreChunkUpdate(i/e.batchSize+1, totalChunks))

		artists, err := e.api.SeveralArtists(ctx, ids[i:end])
		if err != nil {
			return nil, e.remoteErr(err)
		}

		for _, artist := range artists {
			genres[artist.ID] = artist.Genres
		}
	}

	e.sendProgress(progress, genresDoneUpdate(len(genres)))
	e.cacheStage(func(r *session.Record) { r.Genres = genres })

	return genres, nil
}

// distinctArtistIDs returns the unique primary-artist IDs in first-observed
// order, skipping tracks the service returned without artists.
func distinctArtistIDs(tracks []services.Track) []string {
	seen := make(map[string]bool, len(tracks))
	var ids []string
	for _, track := range tracks {
		if track.ArtistID == "" || seen[track.ArtistID] {
			continue
		}
		seen[track.ArtistID] = true
		ids = append(ids, track.ArtistID)
	}
	return ids
}

// cacheStage patches the cached stage fields of the session record,
// best-effort. There is nothing to attach the cache to without a session,
// and storage failures only cost the resume capability.
func (e *Engine) cacheStage(patch func(*session.Record)) {
	record, err := e.sessions.Load()
	if err != nil {
		e.logger.Warn("failed to load session for stage cache", "error", err)
		return
	}
	if record == nil {
		return
	}

	patch(record)

	if err := e.sessions.Save(record); err != nil {
		e.logger.Warn("failed to cache stage results", "error", err)
	}
}

// CachedTracks returns the saved-track cache from a prior run, or nil.
func (e *Engine) CachedTracks() []services.Track {
	record, err := e.sessions.Load()
	if err != nil || record == nil {
		return nil
	}
	return record.Tracks
}

// CachedGenres returns the genre-map cache from a prior run, or nil.
func (e *Engine) CachedGenres() map[string][]string {
	record, err := e.sessions.Load()
	if err != nil || record == nil {
		return nil
	}
	return record.Genres
}

// ClearCache drops the cached stage results while leaving tokens intact.
func (e *Engine) ClearCache() {
	e.cacheStage(func(r *session.Record) {
		r.Tracks = nil
		r.Genres = nil
	})
}

// RunResult contains all data from a full pipeline run.
type RunResult struct {
	Tracks    []services.Track          // Saved tracks in service order
	Genres    map[string][]string       // Artist ID → genre list
	Buckets   []BucketSummary           // Buckets by descending track count
	Playlists []services.PlaylistResult // Created playlists in selection order
}

// Run executes the full pipeline: songs, genres, buckets, playlists.
//
// Cached stage results are reused unless fresh is set. An empty selection
// materializes every bucket. On a playlist-write failure the result still
// carries the playlists created before the abort.
func (e *Engine) Run(ctx context.Context, progress chan<- ProgressUpdate, selected []string, fresh bool) (*RunResult, error) {
	logger := shared.WithLogger(e.logger, "run_id", shared.GenerateID())
	logger.Info("pipeline run started", "selected", len(selected), "fresh", fresh)

	result := &RunResult{}

	if !fresh {
		result.Tracks = e.CachedTracks()
	}
	if result.Tracks == nil {
		tracks, err := e.FetchSongs(ctx, progress)
		if err != nil {
			return nil, err
		}
		result.Tracks = tracks
	}

	if !fresh {
		result.Genres = e.CachedGenres()
	}
	if result.Genres == nil {
		genres, err := e.FetchGenres(ctx, progress, result.Tracks)
		if err != nil {
			return nil, err
		}
		result.Genres = genres
	}

	buckets := BuildBuckets(result.Tracks, result.Genres)
	result.Buckets = SortedBuckets(buckets)
	e.sendProgress(progress, bucketsUpdate(len(result.Buckets)))

	if len(selected) == 0 {
		for _, bucket := range result.Buckets {
			selected = append(selected, bucket.Genre)
		}
	}

	playlists, err := e.CreatePlaylists(ctx, progress, selected, buckets)
	result.Playlists = playlists
	if err != nil {
		logger.Warn("pipeline run aborted", "playlists", len(result.Playlists), "error", err)
		return result, err
	}

	logger.Info("pipeline run complete",
		"tracks", len(result.Tracks), "buckets", len(result.Buckets), "playlists", len(result.Playlists))
	return result, nil
}
