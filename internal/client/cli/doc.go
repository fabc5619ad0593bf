// Package cli provides the interactive AI Business Toolkit terminal client.
//
// It drives the session and preference containers from a REPL. Typical
// flow: restore the persisted session, start a background connectivity
// watcher, and execute user commands.
//
// Key features:
//   - Register / Login / Logout
//   - Show and update the profile, including the business profile
//   - Theme, color scheme, font size and animation preferences
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
