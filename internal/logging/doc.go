// Package logging builds the slog loggers used across mxvoice and provides
// attribute helpers plus the standardized field names shared by the daemon
// and the CLI.
package logging
