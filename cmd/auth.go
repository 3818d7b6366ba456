package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/genresort/internal/server"
	"github.com/desertthunder/genresort/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin performs the OAuth2 PKCE login flow.
//
// Starts a local HTTP server, opens the browser for user authorization, and
// exchanges the returned code for tokens.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	code, err := r.doLogin(ctx)
	if err != nil {
		return err
	}

	if err := r.manager.ExchangeCode(ctx, code); err != nil {
		return err
	}

	r.writePlainln("✓ Login successful")
	r.writePlain("You can now use: genresort library songs\n")

	return nil
}

// AuthLogout clears the stored session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	r.manager.Logout()
	return r.writePlain("✓ Logged out\n")
}

// AuthStatus reports the current session state without touching the network.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	record := r.manager.Status()
	if !record.HasToken() {
		return r.writePlain("✗ Not logged in\n")
	}

	expiresAt := time.Unix(record.ExpiresAt, 0)
	r.writePlain("✓ Logged in\n")
	if record.Expired(time.Now()) {
		r.writePlain("Token: expired at %s (will refresh on next use)\n", expiresAt.Format(time.RFC1123))
	} else {
		r.writePlain("Token: valid until %s\n", expiresAt.Format(time.RFC1123))
	}
	if record.RefreshToken == "" {
		r.writePlain("Refresh: ✗ no refresh token, re-login required after expiry\n")
	}

	return nil
}

// doLogin executes the authorization redirect with a local HTTP server and
// returns the authorization code.
func (r *Runner) doLogin(ctx context.Context) (string, error) {
	authURL, state, err := r.manager.BeginLogin()
	if err != nil {
		return "", fmt.Errorf("failed to begin login: %w", err)
	}

	callbackHandler := server.NewCallbackHandler(state)
	router := server.NewBasicRouter()
	router.Use(server.Logging(r.logger))
	router.Handler(callbackHandler)

	serverAddr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting callback server at %v", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.CallbackResult

	select {
	case result = <-callbackHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return "", fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return "", fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrLoginFailed, result.Error())
	}

	return result.Code, nil
}
