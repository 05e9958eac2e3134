// Package app is the composition root for the maitre admin console.
//
// # Overview
//
// This package wires together configuration, the authenticated API client,
// the order lifecycle machine, and the terminal UI. It holds no domain logic
// of its own.
//
// # Startup
//
//  1. Load configuration from ~/.config/maitre/config.toml
//  2. Load display preferences from ~/.config/maitre/prefs.toml
//  3. Read the bearer token from the configured token file
//  4. Build the HTTP client for the platform admin API
//  5. Start the TUI and block until the operator quits or the context cancels
//
// # Error Handling
//
// Fatal errors (returned from Run):
//
//   - Configuration file present but invalid
//   - Token file present but unreadable
//   - Malformed API base URL
//
// Everything else degrades: a missing preferences file means default theme
// and page size, and a missing token file means requests go out without
// credentials and the UI reports the session as expired when the server
// rejects them.
//
// # Configuration
//
// The Options struct allows callers to customize:
//
//   - ConfigPath: path to config.toml (default: ~/.config/maitre/config.toml)
//   - PrefsPath: path to prefs.toml (default: ~/.config/maitre/prefs.toml)
//   - PollEvery: order refresh interval in seconds (default: 5 seconds)
package app
