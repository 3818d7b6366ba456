// Spotify API implementation of [LibraryAPI]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/desertthunder/genresort/internal/shared"
	"golang.org/x/time/rate"
)

const spotifyBaseURL = "https://api.spotify.com/v1"

// maxArtistsPerRequest is the service's cap on the batch artist endpoint.
const maxArtistsPerRequest = 50

// maxTracksPerAppend is the service's cap on a single playlist append call.
const maxTracksPerAppend = 100

// User represents a Spotify user profile.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Artist represents a Spotify artist with its genre tags.
type Artist struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
}

type artistRef struct {
	ID string `json:"id"`
}

// TrackObject represents a Spotify track within an API response.
type TrackObject struct {
	ID      string      `json:"id"`
	URI     string      `json:"uri"`
	Artists []artistRef `json:"artists"`
}

// PrimaryArtistID returns the ID of the track's first-listed artist, or ""
// when the service returned none.
func (t TrackObject) PrimaryArtistID() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0].ID
}

// SavedTrackItem wraps a track saved in the user's library.
type SavedTrackItem struct {
	AddedAt string      `json:"added_at"`
	Track   TrackObject `json:"track"`
}

// SavedTracksPage represents one page of the saved-tracks collection.
type SavedTracksPage struct {
	Items  []SavedTrackItem `json:"items"`
	Total  int              `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
	Next   *string          `json:"next"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

// Playlist represents a created playlist.
type Playlist struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	ExternalURLs externalURLs `json:"external_urls"`
}

// Link returns the playlist's deep link, falling back to the canonical open
// URL when the response carried none.
func (p *Playlist) Link() string {
	if p.ExternalURLs.Spotify != "" {
		return p.ExternalURLs.Spotify
	}
	return "https://open.spotify.com/playlist/" + p.ID
}

// SpotifyClient implements [LibraryAPI] against the Spotify Web API.
//
// Each request is authorized through the token provider, paced by a rate
// limiter, and bounded by a per-request timeout.
type SpotifyClient struct {
	tokens     TokenProvider
	httpClient *http.Client
	limiter    *rate.Limiter
	timeout    time.Duration
	baseURL    string
}

// NewSpotifyClient creates a client with the given token provider and HTTP
// settings. A nil http.Client falls back to [http.DefaultClient].
func NewSpotifyClient(tokens TokenProvider, client *http.Client, cfg shared.HTTPConfig) *SpotifyClient {
	if client == nil {
		client = http.DefaultClient
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &SpotifyClient{
		tokens:     tokens,
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		timeout:    timeout,
		baseURL:    spotifyBaseURL,
	}
}

// doRequest performs an authenticated HTTP request to the Spotify API.
//
// Non-2xx responses are returned as [StatusError]; an expired deadline
// surfaces as [shared.ErrTimeout].
func (c *SpotifyClient) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	token, err := c.tokens.EnsureValidToken(ctx)
	if err != nil {
		return err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("request cancelled: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s %s", shared.ErrTimeout, method, endpoint)
		}
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Status: resp.StatusCode}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// SavedTracks retrieves one page of the user's saved tracks.
func (c *SpotifyClient) SavedTracks(ctx context.Context, limit, offset int) (*SavedTracksPage, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}

	endpoint := fmt.Sprintf("/me/tracks?limit=%d&offset=%d", limit, offset)

	var page SavedTracksPage
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// SeveralArtists retrieves multiple artists by their IDs (up to 50).
func (c *SpotifyClient) SeveralArtists(ctx context.Context, artistIDs []string) ([]Artist, error) {
	if len(artistIDs) == 0 {
		return nil, fmt.Errorf("%w: no artist IDs provided", shared.ErrInvalidArgument)
	}
	if len(artistIDs) > maxArtistsPerRequest {
		return nil, fmt.Errorf("%w: maximum %d artist IDs allowed", shared.ErrInvalidArgument, maxArtistsPerRequest)
	}

	ids := strings.Join(artistIDs, ",")
	endpoint := fmt.Sprintf("/artists?ids=%s", url.QueryEscape(ids))

	var response struct {
		Artists []Artist `json:"artists"`
	}

	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	return response.Artists, nil
}

// Me retrieves the current authenticated user's profile.
func (c *SpotifyClient) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.doRequest(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreatePlaylist creates an empty playlist owned by the given user.
func (c *SpotifyClient) CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (*Playlist, error) {
	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(userID))
	body := map[string]any{
		"name":        name,
		"description": description,
		"public":      public,
	}

	var playlist Playlist
	if err := c.doRequest(ctx, http.MethodPost, endpoint, body, &playlist); err != nil {
		return nil, err
	}

	return &playlist, nil
}

// AddTracks appends track URIs to a playlist (up to 100 per call).
func (c *SpotifyClient) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	if len(uris) == 0 {
		return nil
	}
	if len(uris) > maxTracksPerAppend {
		return fmt.Errorf("%w: maximum %d track URIs allowed", shared.ErrInvalidArgument, maxTracksPerAppend)
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	body := map[string]any{"uris": uris}

	return c.doRequest(ctx, http.MethodPost, endpoint, body, nil)
}
