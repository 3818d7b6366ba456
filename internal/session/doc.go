// package session persists the single local session record: OAuth tokens,
// their expiry, and the cached intermediate results of the library pipeline.
//
// Exactly one record exists, stored as a JSON blob under a well-known key in
// SQLite. The store does not merge: callers load, patch, and save the full
// record. Mutations go through auth.Manager and tasks.Engine only.
package session
