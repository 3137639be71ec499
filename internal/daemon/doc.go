// Package daemon wires the settings store, event bridge, library, and
// monitors into a single-instance background process and exposes the
// operations the IPC layer serves.
package daemon
