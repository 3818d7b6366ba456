package services

import (
	"context"
	"fmt"
)

// Track is the slice of a saved track the pipeline cares about: identity,
// the URI used for playlist writes, and the primary artist for genre lookup.
type Track struct {
	ID       string `json:"id"`
	URI      string `json:"uri"`
	ArtistID string `json:"artist_id"`
}

// PlaylistResult describes one playlist created by the writer.
type PlaylistResult struct {
	Genre      string `json:"genre"`
	PlaylistID string `json:"playlist_id"`
	TrackCount int    `json:"track_count"`
	Link       string `json:"link"`
}

// TokenProvider supplies a valid bearer token for each request.
//
// Implementations refresh expired tokens before returning; a request is never
// issued with a token known to be stale.
type TokenProvider interface {
	EnsureValidToken(ctx context.Context) (string, error)
}

// LibraryAPI defines the remote operations the pipeline performs. Implemented
// by [SpotifyClient]; mocked in tests.
type LibraryAPI interface {
	// SavedTracks retrieves one page of the user's saved tracks.
	SavedTracks(ctx context.Context, limit, offset int) (*SavedTracksPage, error)

	// SeveralArtists retrieves up to 50 artists by ID. Artists the service
	// does not know are omitted from the result, not an error.
	SeveralArtists(ctx context.Context, artistIDs []string) ([]Artist, error)

	// Me retrieves the authenticated user's profile.
	Me(ctx context.Context) (*User, error)

	// CreatePlaylist creates an empty playlist owned by the given user.
	CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (*Playlist, error)

	// AddTracks appends up to 100 track URIs to a playlist.
	AddTracks(ctx context.Context, playlistID string, uris []string) error
}

// StatusError reports a non-success HTTP response from the remote service.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("spotify API error: status %d", e.Status)
}

// Unauthorized reports whether the response indicates a rejected token.
func (e *StatusError) Unauthorized() bool {
	return e.Status == 401
}
