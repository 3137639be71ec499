// Package config loads, normalizes, and validates the TOML configuration
// shared by the mxvoice daemon and CLI.
package config
