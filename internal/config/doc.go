// Package config loads the grocy-tui TOML configuration.
//
// # Configuration Discovery
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/grocy-tui/config.toml
//  3. If the file doesn't exist, fall back to defaults
//  4. Empty fields keep their defaults
//
// The GROCY_API_KEY environment variable, when set, replaces api_key.
//
// # TOML Format
//
//	server_url = "http://127.0.0.1:9283"
//	api_key = "..."
//	log_file = "~/.local/state/grocy-tui/grocy-tui.log"
//	log_level = "info"
//	locale = "en"
//
//	[capabilities]
//	system_settings = true
//	sidebar_toggle = false
//	form_presentation = "stack" # or "sheet"
//
// The capabilities table replaces what used to be per-platform builds: it
// decides whether the settings entry and the sidebar collapse key exist,
// and whether saving an edit closes the form.
//
// # Error Handling
//
// Load returns errors for unreadable files, invalid TOML, an unknown
// form_presentation, an unknown log_level and a malformed locale. A missing
// file is not an error.
package config
