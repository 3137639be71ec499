// Package kvstore provides the shared global key-value store backed by
// SQLite. Values are persisted as JSON and survive process restarts. The
// store holds installation-wide settings; per-profile preferences live in
// separate documents managed by the profiles package.
package kvstore
