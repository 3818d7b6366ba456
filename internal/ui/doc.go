// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for sorting a library into genre playlists:
//  1. [BucketListView] : Browse genre buckets and toggle which to materialize
//  2. [ConfirmView] : Confirm playlist creation
//  3. [RunView] : Monitor real-time progress updates
//  4. [ResultView] : Display created playlists with links
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the tasks Engine, providing non-blocking status reporting during runs.
//
// Keyboard navigation uses vim-style bindings (j/k, space, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
