// Package cli provides the interactive CardSync command-line client.
//
// It wires configuration, local storage, API services, and an interactive
// REPL that keeps working offline. Typical flow: record progress with
// "mark", log in, and let the orchestrator pull, merge, and push in the
// background.
//
// Key features:
//   - Login / Logout / Register
//   - Record study status per card (active, unsure, learned, deleted)
//   - Full sync round-trip with last-write-wins conflict resolution
//   - Browse and contribute shared term breakdowns
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
