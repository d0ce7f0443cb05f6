// Package nav declares the sidebar tree and tracks which destination is shown.
//
// Reserved destinations are part of the tree on purpose; the UI renders a
// "not yet implemented" page for them. The settings entry and the sidebar
// collapse key are controlled by Capabilities from the config file.
package nav
