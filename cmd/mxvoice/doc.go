// Command mxvoice is the CLI front end for the mxvoiced daemon. It talks
// JSON-RPC over the daemon's Unix socket to manage settings, profiles, the
// song library, and bridge events.
package main
