// Package server provides HTTP routing, middleware, and the OAuth redirect
// handler for the login flow.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Callback Handler
//
// CallbackHandler receives the OAuth2 authorization redirect. It validates
// the state parameter (CSRF protection) and sends the authorization code
// through a channel; the PKCE code exchange happens in the auth package,
// which holds the verifier.
//
// It only processes one callback to prevent replay attacks.
//
// # Usage
//
// When the user runs the login command, a temporary HTTP server starts on
// the configured localhost address, handles the redirect, and shuts down
// after delivering the code.
package server
