// Package library stores song metadata in the shared SQLite database and
// answers the search queries the UI issues while building hotkey banks.
package library
