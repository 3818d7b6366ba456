// package auth owns the OAuth2 PKCE session lifecycle: building the
// authorization redirect, exchanging the code, validating and refreshing the
// access token, and clearing the session when no usable token remains.
//
// Manager is the single writer of the session record's token fields.
package auth
