// Package app wires configuration, logging, the Grocy client, the shared
// state.Store, the change poller and the UI together.
//
// Run is the composition root:
//
//  1. config.Load reads ~/.config/grocy-tui/config.toml (defaults when absent)
//  2. openLogger opens the slog text log; the TUI owns the terminal
//  3. grocy.NewClient and state.NewStore set up data access
//  4. StartPoller watches Grocy's db-changed-time in the background
//  5. ui.Run blocks until the user quits or the context is cancelled
//
// # Polling
//
// Grocy has no push channel. The poller asks /api/system/db-changed-time on
// every tick and records the answer in the store, which then treats any
// kind fetched before that time as stale and refreshes the kinds already on
// screen. Failed polls mark the store offline after two misses and back off
// exponentially, capped at 30 seconds.
//
// Fetch is the one-shot path for commands that print data instead of
// starting the TUI.
package app
