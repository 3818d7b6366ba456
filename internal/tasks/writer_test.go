package tasks

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/desertthunder/genresort/internal/services"
	"github.com/desertthunder/genresort/internal/shared"
)

func bucketOf(genre string, size int) map[string][]services.Track {
	tracks := make([]services.Track, size)
	for i := range tracks {
		tracks[i] = services.Track{
			ID:  fmt.Sprintf("%s-t%d", genre, i),
			URI: fmt.Sprintf("spotify:track:%s-t%d", genre, i),
		}
	}
	return map[string][]services.Track{genre: tracks}
}

func TestCreatePlaylists(t *testing.T) {
	t.Run("appends URIs in service-sized chunks", func(t *testing.T) {
		// 250 tracks: appends of 100, 100, 50.
		api := &fakeAPI{}
		engine := newTestEngine(api, &memStore{}, &fakeInvalidator{})

		results, err := engine.CreatePlaylists(context.Background(), nil, []string{"dub"}, bucketOf("dub", 250))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(api.addCalls) != 3 {
			t.Fatalf("expected 3 append calls, got %d", len(api.addCalls))
		}
		for i, want := range []int{100, 100, 50} {
			if len(api.addCalls[i]) != want {
				t.Errorf("append %d: expected %d URIs, got %d", i, want, len(api.addCalls[i]))
			}
		}
		if api.addCalls[0][0] != "spotify:track:dub-t0" || api.addCalls[2][49] != "spotify:track:dub-t249" {
			t.Error("expected bucket order preserved across chunks")
		}

		if len(results) != 1 {
			t.Fatalf("expected one result, got %d", len(results))
		}
		if results[0].TrackCount != 250 || results[0].Genre != "dub" {
			t.Errorf("unexpected result: %+v", results[0])
		}
		if results[0].Link == "" {
			t.Error("expected a playlist link")
		}
	})

	t.Run("derives playlist names from genre labels", func(t *testing.T) {
		api := &fakeAPI{}
		engine := newTestEngine(api, &memStore{}, &fakeInvalidator{})

		if _, err := engine.CreatePlaylists(context.Background(), nil, []string{"roots reggae"}, bucketOf("roots reggae", 1)); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(api.createCalls) != 1 || api.createCalls[0] != "Roots reggae" {
			t.Errorf("expected derived name, got %v", api.createCalls)
		}
	})

	t.Run("empty buckets are skipped without a create call", func(t *testing.T) {
		api := &fakeAPI{}
		engine := newTestEngine(api, &memStore{}, &fakeInvalidator{})

		results, err := engine.CreatePlaylists(context.Background(), nil, []string{"missing", "dub"}, bucketOf("dub", 2))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(api.createCalls) != 1 {
			t.Errorf("expected one create call, got %d", len(api.createCalls))
		}
		if len(results) != 1 || results[0].Genre != "dub" {
			t.Errorf("expected only the dub result, got %+v", results)
		}
	})

	t.Run("mid-write failure keeps the partial playlist in the results", func(t *testing.T) {
		api := &fakeAPI{addFn: func(playlistID string, uris []string) error {
			return nil
		}}
		calls := 0
		api.addFn = func(playlistID string, uris []string) error {
			calls++
			if calls == 2 {
				return &services.StatusError{Status: 502}
			}
			return nil
		}
		engine := newTestEngine(api, &memStore{}, &fakeInvalidator{})

		results, err := engine.CreatePlaylists(context.Background(), nil, []string{"dub"}, bucketOf("dub", 250))
		if !errors.Is(err, shared.ErrFetchFailed) {
			t.Errorf("expected ErrFetchFailed, got %v", err)
		}

		// The playlist exists remotely with only the first chunk; the result
		// must say so rather than pretend it never happened.
		if len(results) != 1 {
			t.Fatalf("expected the partial result kept, got %d results", len(results))
		}
		if results[0].TrackCount != 100 {
			t.Errorf("expected 100 appended tracks recorded, got %d", results[0].TrackCount)
		}
		if len(api.addCalls) != 2 {
			t.Errorf("expected no appends after the failure, got %d", len(api.addCalls))
		}
	})

	t.Run("create failure keeps earlier playlists and stops", func(t *testing.T) {
		api := &fakeAPI{createFn: func(userID, name, description string, public bool) (*services.Playlist, error) {
			if name == "Grime" {
				return nil, &services.StatusError{Status: 500}
			}
			return &services.Playlist{ID: "p-" + name, Name: name}, nil
		}}
		engine := newTestEngine(api, &memStore{}, &fakeInvalidator{})

		buckets := bucketOf("dub", 2)
		buckets["grime"] = bucketOf("grime", 2)["grime"]
		buckets["jungle"] = bucketOf("jungle", 2)["jungle"]

		results, err := engine.CreatePlaylists(context.Background(), nil, []string{"dub", "grime", "jungle"}, buckets)
		if !errors.Is(err, shared.ErrFetchFailed) {
			t.Errorf("expected ErrFetchFailed, got %v", err)
		}
		if len(results) != 1 || results[0].Genre != "dub" {
			t.Errorf("expected only the dub playlist, got %+v", results)
		}
		if len(api.createCalls) != 2 {
			t.Errorf("expected creation stopped after the failure, got %d calls", len(api.createCalls))
		}
	})

	t.Run("401 clears the session and aborts the batch", func(t *testing.T) {
		api := &fakeAPI{addFn: func(playlistID string, uris []string) error {
			return &services.StatusError{Status: 401}
		}}
		inv := &fakeInvalidator{}
		engine := newTestEngine(api, &memStore{}, inv)

		_, err := engine.CreatePlaylists(context.Background(), nil, []string{"dub"}, bucketOf("dub", 1))
		if !errors.Is(err, shared.ErrAuthRequired) {
			t.Errorf("expected ErrAuthRequired, got %v", err)
		}
		if inv.calls != 1 {
			t.Errorf("expected session invalidated once, got %d", inv.calls)
		}
	})

	t.Run("profile failure aborts before any creation", func(t *testing.T) {
		api := &fakeAPI{meFn: func() (*services.User, error) {
			return nil, &services.StatusError{Status: 500}
		}}
		engine := newTestEngine(api, &memStore{}, &fakeInvalidator{})

		results, err := engine.CreatePlaylists(context.Background(), nil, []string{"dub"}, bucketOf("dub", 1))
		if !errors.Is(err, shared.ErrFetchFailed) {
			t.Errorf("expected ErrFetchFailed, got %v", err)
		}
		if results != nil {
			t.Errorf("expected no results, got %+v", results)
		}
		if len(api.createCalls) != 0 {
			t.Error("expected no create calls after profile failure")
		}
	})
}
