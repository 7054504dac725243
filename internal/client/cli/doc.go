// Package cli provides the interactive gophblog client.
//
// It wires configuration, the local preferences database, the profile store,
// the feed client and the two screen controllers behind a small navigation
// shell with three routes: home, publications and profile. The shell starts
// on the profile route.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See Shell for route handling and runREPL for the command set.
package cli
