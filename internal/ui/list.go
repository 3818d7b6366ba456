package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/genresort/internal/tasks"
)

var _ list.Item = bucketItem{}

// bucketItem wraps [tasks.BucketSummary] to implement [list.Item], carrying
// its own selection mark so toggles render in place.
type bucketItem struct {
	bucket   tasks.BucketSummary
	selected bool
}

func (i bucketItem) FilterValue() string { return i.bucket.Genre }

func (i bucketItem) Title() string {
	mark := "[ ]"
	if i.selected {
		mark = "[x]"
	}
	return fmt.Sprintf("%s %s", mark, i.bucket.Genre)
}

func (i bucketItem) Description() string {
	return fmt.Sprintf("%d tracks", i.bucket.Count())
}
