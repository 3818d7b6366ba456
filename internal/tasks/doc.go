// package tasks implements the library pipeline: paginated saved-track
// acquisition, batched artist-genre enrichment, genre bucketing, and chunked
// playlist creation.
//
// The core abstraction is Engine, whose stage methods emit progress updates
// via channels for non-blocking status reporting to CLI/TUI layers. Stage
// outputs are cached in the session record so an interrupted run can resume.
package tasks
