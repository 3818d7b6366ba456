package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/genresort/internal/session"
	"github.com/desertthunder/genresort/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
)

// verifierLength is the PKCE code verifier length used for login.
const verifierLength = 128

// Manager owns the access-token lifecycle over the persisted session record.
//
// States are implicit in the record: no token is NoSession, a token before
// its expiry is Valid, after it Expired. A failed refresh clears the record,
// so every failure path lands back in NoSession.
type Manager struct {
	config *oauth2.Config
	store  session.Store
	logger *log.Logger

	mu     sync.Mutex
	record *session.Record

	now func() time.Time
}

// NewManager creates a Manager for the given Spotify application settings.
func NewManager(cfg shared.SpotifyConfig, store session.Store, logger *log.Logger) (*Manager, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("%w: spotify client_id must be set", shared.ErrMissingCredentials)
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	config := &oauth2.Config{
		ClientID:    cfg.ClientID,
		RedirectURL: cfg.RedirectURI,
		Scopes:      cfg.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
			// No client secret in the PKCE flow: the client_id travels in
			// the form body.
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	return &Manager{
		config: config,
		store:  store,
		logger: logger,
		now:    time.Now,
	}, nil
}

// BeginLogin generates a fresh PKCE verifier and state token, stashes them in
// the session record, and returns the authorization URL to open.
func (m *Manager) BeginLogin() (authURL, state string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	verifier, err := shared.GenerateVerifier(verifierLength)
	if err != nil {
		return "", "", err
	}
	state, err = shared.GenerateState()
	if err != nil {
		return "", "", err
	}

	record := m.loadLocked()
	if record == nil {
		record = &session.Record{}
	}
	record.Verifier = verifier
	record.State = state
	m.persistLocked(record)

	authURL = m.config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("code_challenge", shared.DeriveChallenge(verifier)),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)

	return authURL, state, nil
}

// ExchangeCode performs the one-time authorization-code grant using the
// verifier stashed by BeginLogin. On success the session becomes Valid; on a
// malformed response it stays unauthenticated so the user may retry.
func (m *Manager) ExchangeCode(ctx context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record := m.loadLocked()
	if record == nil || record.Verifier == "" {
		return fmt.Errorf("%w: no pending login", shared.ErrLoginFailed)
	}

	token, err := m.config.Exchange(ctx, code,
		oauth2.SetAuthURLParam("code_verifier", record.Verifier),
	)
	if err != nil {
		return fmt.Errorf("%w: code exchange rejected: %v", shared.ErrLoginFailed, err)
	}
	if token.AccessToken == "" || token.Expiry.IsZero() {
		return fmt.Errorf("%w: token response missing access token or lifetime", shared.ErrLoginFailed)
	}

	record.SetToken(token.AccessToken, token.RefreshToken, token.Expiry)
	record.Verifier = ""
	record.State = ""
	m.persistLocked(record)

	m.logger.Info("login complete", "expires_at", token.Expiry)
	return nil
}

// EnsureValidToken returns a usable access token, refreshing once when the
// cached one has expired. When no usable token can be produced the session is
// cleared and [shared.ErrAuthRequired] returned.
//
// A still-valid token is returned without any network call.
func (m *Manager) EnsureValidToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record := m.loadLocked()
	if !record.HasToken() {
		return "", shared.ErrAuthRequired
	}

	if !record.Expired(m.now()) {
		return record.AccessToken, nil
	}

	if record.RefreshToken == "" {
		m.invalidateLocked()
		return "", fmt.Errorf("%w: session expired", shared.ErrAuthRequired)
	}

	token, err := m.refresh(ctx, record.RefreshToken)
	if err != nil {
		m.logger.Warn("token refresh failed, clearing session", "error", err)
		m.invalidateLocked()
		return "", fmt.Errorf("%w: session expired", shared.ErrAuthRequired)
	}

	record.SetToken(token.AccessToken, token.RefreshToken, token.Expiry)
	m.persistLocked(record)

	return record.AccessToken, nil
}

// refresh performs a single refresh-token grant.
func (m *Manager) refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	source := m.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})

	token, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}
	if token.AccessToken == "" || token.Expiry.IsZero() {
		return nil, fmt.Errorf("%w: response missing access token or lifetime", shared.ErrRefreshFailed)
	}

	return token, nil
}

// Invalidate clears the stored session. Used when the remote service rejects
// a token mid-operation.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidateLocked()
}

// Logout clears the stored session on user request.
func (m *Manager) Logout() {
	m.Invalidate()
}

// Status returns the current session record for display, or nil when no
// session exists.
func (m *Manager) Status() *session.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadLocked()
}

// loadLocked reads the record fresh from the store on every call, so token
// mutations never clobber cache fields written by the pipeline since the
// last read. The in-memory copy is only a fallback for storage failures.
func (m *Manager) loadLocked() *session.Record {
	record, err := m.store.Load()
	if err != nil {
		m.logger.Warn("failed to load session, using in-memory state", "error", err)
		return m.record
	}
	if record == nil && m.record != nil {
		// A prior save failed; the in-memory record is the only copy.
		return m.record
	}
	m.record = record
	return record
}

// persistLocked saves the record best-effort: a storage failure is logged
// and the manager continues with in-memory state only.
func (m *Manager) persistLocked(record *session.Record) {
	m.record = record
	if err := m.store.Save(record); err != nil {
		m.logger.Warn("failed to persist session, continuing in memory", "error", err)
	}
}

func (m *Manager) invalidateLocked() {
	m.record = nil
	if err := m.store.Clear(); err != nil {
		m.logger.Warn("failed to clear stored session", "error", err)
	}
}
