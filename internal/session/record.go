package session

import (
	"time"

	"github.com/desertthunder/genresort/internal/services"
)

// Record is the single durable session record.
//
// A record with no access token is treated as "no session". Verifier and
// State are stashed between the authorization redirect and the code exchange.
type Record struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`

	Verifier string `json:"verifier,omitempty"`
	State    string `json:"state,omitempty"`

	// Cached pipeline stages, round-tripped so a run can resume after a
	// restart without refetching.
	Tracks []services.Track    `json:"tracks,omitempty"`
	Genres map[string][]string `json:"genres,omitempty"`
}

// HasToken reports whether the record carries an access token.
func (r *Record) HasToken() bool {
	return r != nil && r.AccessToken != ""
}

// Expired reports whether the access token has expired at the given instant.
// The check is strict: a token is expired at exactly its expiry time.
func (r *Record) Expired(now time.Time) bool {
	return now.Unix() >= r.ExpiresAt
}

// SetToken replaces the token fields. An empty refresh token retains the
// prior one, since refresh-grant responses may omit it.
func (r *Record) SetToken(access, refresh string, expiresAt time.Time) {
	r.AccessToken = access
	if refresh != "" {
		r.RefreshToken = refresh
	}
	r.ExpiresAt = expiresAt.Unix()
}
