// Package profiles manages named user profiles and their preference
// documents. Each profile owns one JSON document on disk; the active profile
// name lives in the shared global store so it survives restarts. Documents
// are written atomically and a missing document reads as empty rather than
// as an error.
package profiles
