package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/five82/grocy-tui/internal/grocy"
	"github.com/five82/grocy-tui/internal/nav"
)

// renderHeader renders the status bar: logo, server, connection state and
// the time of the last successful fetch.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render("grocy", styles.Logo)}

	if m.config != nil && m.config.ServerURL != "" {
		limit := 50
		if compact {
			limit = 24
		}
		parts = append(parts, bg.Render(truncateMiddle(m.config.ServerURL, limit), styles.MutedText))
	}

	switch {
	case m.snapshot.IsOffline():
		parts = append(parts,
			bg.Render("● "+classifyConnectionError(m.snapshot.LastError), styles.DangerText),
			bg.Render("Retrying...", styles.WarningText.Bold(true)))
	case m.snapshot.LastUpdated.IsZero() && m.snapshot.LastError == nil:
		parts = append(parts, bg.Render("Connecting to Grocy...", styles.WarningText.Bold(true)))
	default:
		parts = append(parts, bg.Render("● ONLINE", styles.SuccessText))
	}

	if ts := formatTimestamp(m.snapshot.LastUpdated, m.now()); ts != "" {
		parts = append(parts, bg.Render("Updated", styles.FaintText)+bg.Space()+bg.Render(ts, styles.MutedText))
	}

	if err := m.snapshot.LastError; err != nil && !m.snapshot.IsOffline() {
		maxErr := 80
		if compact {
			maxErr = 40
		}
		parts = append(parts,
			bg.Render("ERROR", styles.DangerText.Bold(true))+bg.Space()+
				bg.Render(truncate(err.Error(), maxErr), styles.DangerText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// formatTimestamp formats t with a relative hint against now.
func formatTimestamp(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	out := t.Format("15:04:05")
	switch since := now.Sub(t); {
	case since < time.Minute:
		out += " (now)"
	case since < time.Hour:
		out += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	case since < 24*time.Hour:
		out += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	}
	return out
}

// classifyConnectionError returns a short description of the connection error.
func classifyConnectionError(err error) string {
	if err == nil {
		return "OFFLINE"
	}
	msg := err.Error()
	switch {
	case errors.Is(err, grocy.ErrUnauthorized):
		return "UNAUTHORIZED"
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"):
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the toast, if any, then hints for the focused area.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd
	switch {
	case m.modal != nil:
		commands = []cmd{{"ctrl+s", "Save"}, {"ctrl+n/p", "Pick unit"}, {"esc", "Cancel"}}
	case m.form != nil && m.focus == focusContent:
		commands = []cmd{{"tab", "Next field"}, {"ctrl+s", "Save"}, {"esc", "Close"}}
		if !m.form.form.IsNew() {
			commands = append(commands, cmd{"ctrl+a", "Conversion"})
		}
	case m.focus == focusSidebar:
		commands = []cmd{{"j/k", "Navigate"}, {"enter", "Open"}, {"tab", "Focus"}}
		if m.router.Capabilities().SidebarToggle {
			commands = append(commands, cmd{"[", "Sidebar"})
		}
	default:
		commands = []cmd{{"j/k", "Navigate"}, {"r", "Refresh"}, {"esc", "Sidebar"}}
		if route, ok := m.router.Selected(); ok && route == nav.MDQuantityUnits {
			commands = append(commands, cmd{"n", "New"}, cmd{"e", "Edit"})
		}
	}
	commands = append(commands, cmd{"?", "More"})

	colon := bg.Render(":", styles.FaintText)
	segments := make([]string, 0, len(commands)+3)

	if m.toast.visible() {
		style := styles.SuccessText
		if m.toast.failed {
			style = styles.DangerText
		}
		segments = append(segments, bg.Render(m.toast.text, style))
	}
	if m.busy() {
		segments = append(segments, bg.Render("Saving...", styles.WarningText))
	}

	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Footer.Width(m.width).Render(bg.Join(segments, "  "))
}

// busy reports whether any open form waits on Grocy.
func (m Model) busy() bool {
	if m.modal != nil && m.modal.Busy() {
		return true
	}
	return m.form != nil && m.form.form.IsProcessing()
}

// truncateMiddle truncates a string in the middle, preserving start and end.
func truncateMiddle(s string, limit int) string {
	r := []rune(s)
	if limit <= 0 || len(r) <= limit {
		return s
	}
	if limit <= 5 {
		return string(r[:limit])
	}
	endLen := (limit - 1) * 2 / 3
	startLen := limit - 1 - endLen
	return string(r[:startLen]) + "…" + string(r[len(r)-endLen:])
}
