package ui

import (
	"strings"

	"github.com/five82/grocy-tui/internal/nav"
)

// renderSettings shows the effective configuration. Changes go through the
// config file; only the theme can be switched live.
func (m Model) renderSettings(item nav.Item, width int) string {
	styles := m.theme.Styles()
	cfg := m.config

	apiKey := "not set"
	if cfg.APIKey != "" {
		apiKey = "set"
	}
	sidebar := "off"
	if cfg.Capabilities.SidebarToggle {
		sidebar = "on"
	}

	rows := [][2]string{
		{"Server", cfg.ServerURL},
		{"API key", apiKey},
		{"Locale", cfg.Language().String()},
		{"Form close", m.presentation.String()},
		{"Sidebar toggle", sidebar},
		{"Log file", cfg.LogFile},
		{"Log level", cfg.LogLevel},
		{"Theme", m.theme.Name + "  (T to cycle)"},
		{"Preferences", m.prefsPath},
	}

	var b strings.Builder
	b.WriteString(m.renderTitle(item.Label, ""))
	b.WriteString("\n\n")
	for _, row := range rows {
		b.WriteString(styles.MutedText.Render(padRight(row[0], FormLabelWidth+2)))
		b.WriteString(styles.Text.Render(truncateMiddle(row[1], max(10, width-FormLabelWidth-2))))
		b.WriteString("\n")
	}
	return b.String()
}
