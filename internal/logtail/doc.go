// Package logtail reads the end of the grocy-tui log file.
//
// The TUI owns the terminal, so diagnostics go to a slog text log instead.
// Read returns the last N lines using a ring buffer, in one pass and with
// O(N) memory. Parse splits a line back into time, level, message and
// attributes, and Filter narrows entries down by request id, component or
// minimum level. The `grocy-tui logs` command uses this to find the full
// error behind an "Adding failed" or "Editing failed" toast:
//
//	entries, err := logtail.Tail(cfg.LogFile, 400, logtail.Filter{
//		RequestID: "5f0c...",
//		MinLevel:  slog.LevelWarn,
//	})
package logtail
