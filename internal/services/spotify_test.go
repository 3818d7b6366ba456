package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/desertthunder/genresort/internal/shared"
	tu "github.com/desertthunder/genresort/internal/testing"
)

// staticTokens is a [TokenProvider] returning a fixed token or error.
type staticTokens struct {
	token string
	err   error
	calls int
}

func (s *staticTokens) EnsureValidToken(ctx context.Context) (string, error) {
	s.calls++
	return s.token, s.err
}

func newTestClient(tokens TokenProvider, rt http.RoundTripper) *SpotifyClient {
	return NewSpotifyClient(tokens, &http.Client{Transport: rt}, shared.HTTPConfig{
		TimeoutSeconds:    30,
		RequestsPerSecond: 1000,
	})
}

func TestSpotifyClient(t *testing.T) {
	t.Run("SavedTracks", func(t *testing.T) {
		t.Run("requests the page and decodes it", func(t *testing.T) {
			rt := &tu.RecordingRoundTripper{Handler: func(r *http.Request) (*http.Response, error) {
				return tu.JSONResponse(t, http.StatusOK, SavedTracksPage{
					Items: []SavedTrackItem{
						{Track: TrackObject{ID: "t1", URI: "spotify:track:t1", Artists: []artistRef{{ID: "a1"}}}},
					},
					Total: 1,
				}), nil
			}}

			tokens := &staticTokens{token: "bearer-token"}
			client := newTestClient(tokens, rt)

			page, err := client.SavedTracks(context.Background(), 50, 100)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(page.Items) != 1 || page.Items[0].Track.ID != "t1" {
				t.Errorf("unexpected page: %+v", page)
			}
			if page.Items[0].Track.PrimaryArtistID() != "a1" {
				t.Errorf("expected primary artist a1, got %q", page.Items[0].Track.PrimaryArtistID())
			}

			requests := rt.Requests()
			if len(requests) != 1 {
				t.Fatalf("expected one request, got %d", len(requests))
			}
			req := requests[0]
			if got := req.Header.Get("Authorization"); got != "Bearer bearer-token" {
				t.Errorf("expected bearer header, got %q", got)
			}
			if !strings.Contains(req.URL.RawQuery, "limit=50") || !strings.Contains(req.URL.RawQuery, "offset=100") {
				t.Errorf("expected limit and offset in query, got %q", req.URL.RawQuery)
			}
		})

		t.Run("clamps the page size to the service limit", func(t *testing.T) {
			rt := &tu.RecordingRoundTripper{Handler: func(r *http.Request) (*http.Response, error) {
				return tu.JSONResponse(t, http.StatusOK, SavedTracksPage{}), nil
			}}
			client := newTestClient(&staticTokens{token: "x"}, rt)

			if _, err := client.SavedTracks(context.Background(), 500, 0); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if q := rt.Requests()[0].URL.RawQuery; !strings.Contains(q, "limit=50") {
				t.Errorf("expected limit clamped to 50, got %q", q)
			}
		})

		t.Run("non-2xx surfaces as StatusError", func(t *testing.T) {
			client := newTestClient(&staticTokens{token: "x"},
				tu.NewMockRoundTripper(tu.EmptyResponse(http.StatusUnauthorized), nil))

			_, err := client.SavedTracks(context.Background(), 50, 0)

			var statusErr *StatusError
			if !errors.As(err, &statusErr) {
				t.Fatalf("expected StatusError, got %v", err)
			}
			if !statusErr.Unauthorized() {
				t.Errorf("expected 401 to report unauthorized, got status %d", statusErr.Status)
			}
		})

		t.Run("token provider failure short-circuits the request", func(t *testing.T) {
			rt := &tu.RecordingRoundTripper{Handler: func(r *http.Request) (*http.Response, error) {
				return tu.JSONResponse(t, http.StatusOK, SavedTracksPage{}), nil
			}}
			client := newTestClient(&staticTokens{err: shared.ErrAuthRequired}, rt)

			_, err := client.SavedTracks(context.Background(), 50, 0)
			if !errors.Is(err, shared.ErrAuthRequired) {
				t.Errorf("expected ErrAuthRequired, got %v", err)
			}
			if len(rt.Requests()) != 0 {
				t.Error("expected no request after token failure")
			}
		})

		t.Run("deadline exceeded surfaces as ErrTimeout", func(t *testing.T) {
			rt := tu.RoundTripFunc(func(r *http.Request) (*http.Response, error) {
				return nil, context.DeadlineExceeded
			})
			client := newTestClient(&staticTokens{token: "x"}, rt)

			_, err := client.SavedTracks(context.Background(), 50, 0)
			if !errors.Is(err, shared.ErrTimeout) {
				t.Errorf("expected ErrTimeout, got %v", err)
			}
		})
	})

	t.Run("SeveralArtists", func(t *testing.T) {
		t.Run("rejects empty and oversized batches", func(t *testing.T) {
			client := newTestClient(&staticTokens{token: "x"},
				tu.NewMockRoundTripper(tu.EmptyResponse(http.StatusOK), nil))

			if _, err := client.SeveralArtists(context.Background(), nil); !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument for empty batch, got %v", err)
			}

			tooMany := make([]string, maxArtistsPerRequest+1)
			for i := range tooMany {
				tooMany[i] = fmt.Sprintf("a%d", i)
			}
			if _, err := client.SeveralArtists(context.Background(), tooMany); !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument for oversized batch, got %v", err)
			}
		})

		t.Run("decodes the artist list", func(t *testing.T) {
			rt := &tu.RecordingRoundTripper{Handler: func(r *http.Request) (*http.Response, error) {
				return tu.JSONResponse(t, http.StatusOK, map[string]any{
					"artists": []Artist{
						{ID: "a1", Name: "First", Genres: []string{"dub", "roots reggae"}},
						{ID: "a2", Name: "Second"},
					},
				}), nil
			}}
			client := newTestClient(&staticTokens{token: "x"}, rt)

			artists, err := client.SeveralArtists(context.Background(), []string{"a1", "a2"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(artists) != 2 {
				t.Fatalf("expected two artists, got %d", len(artists))
			}
			if len(artists[0].Genres) != 2 || artists[0].Genres[0] != "dub" {
				t.Errorf("unexpected genres: %+v", artists[0].Genres)
			}
			if !strings.Contains(rt.Requests()[0].URL.RawQuery, "ids=") {
				t.Errorf("expected ids in query, got %q", rt.Requests()[0].URL.RawQuery)
			}
		})
	})

	t.Run("Me decodes the profile", func(t *testing.T) {
		client := newTestClient(&staticTokens{token: "x"},
			tu.NewMockRoundTripper(tu.JSONResponse(t, http.StatusOK, User{ID: "user1", DisplayName: "User"}), nil))

		user, err := client.Me(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if user.ID != "user1" {
			t.Errorf("expected user1, got %q", user.ID)
		}
	})

	t.Run("CreatePlaylist posts name and visibility", func(t *testing.T) {
		rt := &tu.RecordingRoundTripper{Handler: func(r *http.Request) (*http.Response, error) {
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode request body: %v", err)
			}
			if body["name"] != "Dub" || body["public"] != false {
				t.Errorf("unexpected body: %+v", body)
			}
			return tu.JSONResponse(t, http.StatusCreated, Playlist{ID: "p1", Name: "Dub"}), nil
		}}
		client := newTestClient(&staticTokens{token: "x"}, rt)

		playlist, err := client.CreatePlaylist(context.Background(), "user1", "Dub", "desc", false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if playlist.ID != "p1" {
			t.Errorf("expected playlist p1, got %q", playlist.ID)
		}
		if !strings.Contains(rt.Requests()[0].URL.Path, "/users/user1/playlists") {
			t.Errorf("unexpected path %q", rt.Requests()[0].URL.Path)
		}
	})

	t.Run("AddTracks", func(t *testing.T) {
		t.Run("no-ops on an empty chunk", func(t *testing.T) {
			rt := &tu.RecordingRoundTripper{Handler: func(r *http.Request) (*http.Response, error) {
				return tu.EmptyResponse(http.StatusCreated), nil
			}}
			client := newTestClient(&staticTokens{token: "x"}, rt)

			if err := client.AddTracks(context.Background(), "p1", nil); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(rt.Requests()) != 0 {
				t.Error("expected no request for an empty chunk")
			}
		})

		t.Run("rejects oversized chunks", func(t *testing.T) {
			client := newTestClient(&staticTokens{token: "x"},
				tu.NewMockRoundTripper(tu.EmptyResponse(http.StatusCreated), nil))

			uris := make([]string, maxTracksPerAppend+1)
			if err := client.AddTracks(context.Background(), "p1", uris); !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})

		t.Run("posts the URIs", func(t *testing.T) {
			rt := &tu.RecordingRoundTripper{Handler: func(r *http.Request) (*http.Response, error) {
				var body struct {
					URIs []string `json:"uris"`
				}
				if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
					t.Fatalf("failed to decode request body: %v", err)
				}
				if len(body.URIs) != 2 {
					t.Errorf("expected two URIs, got %d", len(body.URIs))
				}
				return tu.EmptyResponse(http.StatusCreated), nil
			}}
			client := newTestClient(&staticTokens{token: "x"}, rt)

			err := client.AddTracks(context.Background(), "p1", []string{"spotify:track:t1", "spotify:track:t2"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	})
}

func TestPlaylistLink(t *testing.T) {
	withURL := &Playlist{ID: "p1", ExternalURLs: externalURLs{Spotify: "https://open.spotify.com/playlist/p1?si=x"}}
	if withURL.Link() != "https://open.spotify.com/playlist/p1?si=x" {
		t.Errorf("expected external URL, got %q", withURL.Link())
	}

	withoutURL := &Playlist{ID: "p2"}
	if withoutURL.Link() != "https://open.spotify.com/playlist/p2" {
		t.Errorf("expected canonical fallback, got %q", withoutURL.Link())
	}
}
