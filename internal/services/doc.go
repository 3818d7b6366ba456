// package services implements the Spotify Web API client used by the
// library pipeline: saved-track pagination, artist lookups, and playlist
// writes, all authorized through a token provider.
package services
