// Package cli provides the interactive venuebook command-line client.
//
// It wires configuration, the credential store, the session, the query cache
// and the API client, then runs a REPL in which every command is a
// navigation to a route (checked by the route guard) or an action gated by
// one. The current screen keeps one live cache subscription, so writes made
// from any command refresh what is on screen.
//
// A background watcher re-reads the persisted credentials and logs the
// session out when the token cookie expires.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartSessionWatcher, and runREPL for details.
package cli
