package tasks

import (
	"fmt"

	"github.com/desertthunder/genresort/internal/services"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or TUI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Pipeline phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase (0 when unknown)
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Phase enumerates the ordered workflow stages.
type Phase int

const (
	FetchSongs Phase = iota
	FetchGenres
	BuildBucketsPhase
	CreatePlaylists
)

func (p Phase) String() string {
	switch p {
	case FetchSongs:
		return "fetch_songs"
	case FetchGenres:
		return "fetch_genres"
	case BuildBucketsPhase:
		return "build_buckets"
	case CreatePlaylists:
		return "create_playlists"
	default:
		return ""
	}
}

func fetchPageUpdate(page, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSongs,
		Step:    page,
		Message: fmt.Sprintf("Fetched page %d (%d songs so far)...", page, count),
	}
}

func songsDoneUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSongs,
		Step:    count,
		Total:   count,
		Message: fmt.Sprintf("Found %d saved songs", count),
	}
}

func genreChunkUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchGenres,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Looking up artist genres...", step, total),
	}
}

func genresDoneUpdate(artists int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchGenres,
		Message: fmt.Sprintf("Resolved genres for %d artists", artists),
	}
}

func bucketsUpdate(buckets int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BuildBucketsPhase,
		Message: fmt.Sprintf("Grouped songs into %d genre buckets", buckets),
	}
}

func createPlaylistUpdate(step, total int, genre string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylists,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Creating playlist for '%s'...", step, total, genre),
	}
}

func playlistCreatedUpdate(step, total int, result services.PlaylistResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylists,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d tracks)", step, total, result.Genre, result.TrackCount),
		Data:    result,
	}
}
