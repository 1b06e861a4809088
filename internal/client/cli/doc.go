// Package cli provides the interactive visitkeeper command-line client.
//
// It wires configuration, the local session cache and the gRPC client into a
// REPL. A session saved by an earlier run is resumed at start-up, and a
// background watcher keeps the prompt's online/offline marker current.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
