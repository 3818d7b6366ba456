package tasks

import (
	"context"

	"github.com/desertthunder/genresort/internal/services"
)

// CreatePlaylists materializes the selected genre buckets as private
// playlists, appending track URIs in chunks of at most the service's append
// limit.
//
// Writes are not transactional: playlists created before a failure remain
// created, and a playlist whose appends were cut short is still reported
// with the count that made it in. The returned slice always reflects what
// actually happened on the remote side.
func (e *Engine) CreatePlaylists(ctx context.Context, progress chan<- ProgressUpdate, selected []string, buckets map[string][]services.Track) ([]services.PlaylistResult, error) {
	me, err := e.api.Me(ctx)
	if err != nil {
		return nil, e.remoteErr(err)
	}

	var results []services.PlaylistResult
	total := len(selected)

	for i, genre := range selected {
		bucket := buckets[genre]
		if len(bucket) == 0 {
			e.logger.Debug("skipping empty bucket", "genre", genre)
			continue
		}

		e.sendProgress(progress, createPlaylistUpdate(i+1, total, genre))

		playlist, err := e.api.CreatePlaylist(ctx, me.ID, PlaylistName(genre), PlaylistDescription(genre), false)
		if err != nil {
			return results, e.remoteErr(err)
		}

		result := services.PlaylistResult{
			Genre:      genre,
			PlaylistID: playlist.ID,
			Link:       playlist.Link(),
		}

		uris := make([]string, len(bucket))
		for j, track := range bucket {
			uris[j] = track.URI
		}

		for j := 0; j < len(uris); j += e.chunkSize {
			end := min(j+e.chunkSize, len(uris))
			if err := e.api.AddTracks(ctx, playlist.ID, uris[j:end]); err != nil {
				result.TrackCount = j
				results = append(results, result)
				return results, e.remoteErr(err)
			}
		}

		result.TrackCount = len(uris)
		results = append(results, result)
		e.sendProgress(progress, playlistCreatedUpdate(i+1, total, result))
	}

	return results, nil
}
