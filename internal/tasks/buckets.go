package tasks

import (
	"fmt"
	"sort"
	"unicode"

	"github.com/desertthunder/genresort/internal/services"
)

// BucketSummary pairs a genre label with the tracks assigned to it.
type BucketSummary struct {
	Genre  string           `json:"genre"`
	Tracks []services.Track `json:"tracks"`
}

// Count returns the number of tracks in the bucket.
func (b BucketSummary) Count() int {
	return len(b.Tracks)
}

// BuildBuckets groups tracks by the genres of their primary artist. A track
// whose artist has N genres lands in all N buckets; tracks whose artist has
// none (or whose artist is unknown) are dropped. Within each bucket the
// original saved order is preserved.
func BuildBuckets(tracks []services.Track, genres map[string][]string) map[string][]services.Track {
	buckets := make(map[string][]services.Track)

	for _, track := range tracks {
		for _, genre := range genres[track.ArtistID] {
			buckets[genre] = append(buckets[genre], track)
		}
	}

	return buckets
}

// SortedBuckets flattens a bucket map into summaries ordered by descending
// track count, breaking ties by genre label so output is deterministic.
func SortedBuckets(buckets map[string][]services.Track) []BucketSummary {
	summaries := make([]BucketSummary, 0, len(buckets))
	for genre, tracks := range buckets {
		summaries = append(summaries, BucketSummary{Genre: genre, Tracks: tracks})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if len(summaries[i].Tracks) != len(summaries[j].Tracks) {
			return len(summaries[i].Tracks) > len(summaries[j].Tracks)
		}
		return summaries[i].Genre < summaries[j].Genre
	})

	return summaries
}

// PlaylistName derives a display name from a genre label.
func PlaylistName(genre string) string {
	runes := []rune(genre)
	if len(runes) == 0 {
		return genre
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// PlaylistDescription derives the playlist description from a genre label.
func PlaylistDescription(genre string) string {
	return fmt.Sprintf("Every %s track from your liked songs, sorted by genresort.", genre)
}
