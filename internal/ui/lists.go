package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/grocy-tui/internal/grocy"
	"github.com/five82/grocy-tui/internal/nav"
)

// routeKinds maps the read-only master-data routes to their Grocy objects.
var routeKinds = map[nav.Route]grocy.ObjectKind{
	nav.MDProducts:          grocy.KindProducts,
	nav.MDLocations:         grocy.KindLocations,
	nav.MDShoppingLocations: grocy.KindShoppingLocations,
	nav.MDProductGroups:     grocy.KindProductGroups,
	nav.MDChores:            grocy.KindChores,
	nav.MDBatteries:         grocy.KindBatteries,
	nav.MDTaskCategories:    grocy.KindTaskCategories,
}

func (m *Model) moveListRow(kind grocy.ObjectKind, msg tea.KeyMsg) {
	count := len(m.snapshot.Objects[kind])
	row := moveRow(m.listRows[kind], count, msg, m.keys)
	m.listRows[kind] = row
}

// moveRow applies the list navigation keys to row within count rows.
func moveRow(row, count int, msg tea.KeyMsg, keys keyMap) int {
	if count == 0 {
		return 0
	}
	switch {
	case key.Matches(msg, keys.Down):
		row++
	case key.Matches(msg, keys.Up):
		row--
	case key.Matches(msg, keys.Top):
		row = 0
	case key.Matches(msg, keys.Bottom):
		row = count - 1
	}
	return clamp(row, 0, count-1)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}

func (m *Model) clampRows() {
	m.unitRow = clamp(m.unitRow, 0, len(m.snapshot.Units)-1)
	for kind, row := range m.listRows {
		m.listRows[kind] = clamp(row, 0, len(m.snapshot.Objects[kind])-1)
	}
}

func (m Model) renderNamedList(item nav.Item, kind grocy.ObjectKind, width, height int) string {
	styles := m.theme.Styles()
	rows := m.snapshot.Objects[kind]

	var b strings.Builder
	b.WriteString(m.renderTitle(item.Label, fmt.Sprintf("%d", len(rows))))
	b.WriteString("\n\n")

	if !m.snapshot.Loaded[kind] {
		b.WriteString(styles.MutedText.Render("Loading..."))
		return b.String()
	}
	if len(rows) == 0 {
		b.WriteString(styles.MutedText.Render("Nothing here yet."))
		return b.String()
	}

	nameWidth := max(12, width/3)
	selected := m.listRows[kind]
	start, end := visibleWindow(selected, len(rows), height-3)
	for i := start; i < end; i++ {
		row := rows[i]
		line := padRight(truncate(row.Name, nameWidth), nameWidth) + "  " +
			truncate(row.Description, width-nameWidth-2)
		if i == selected && m.focus == focusContent {
			b.WriteString(styles.Selected.Width(width).Render(line))
		} else {
			b.WriteString(styles.Text.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// visibleWindow returns the [start,end) slice of rows to draw so that
// selected stays on screen.
func visibleWindow(selected, count, height int) (int, int) {
	if height <= 0 || count <= height {
		return 0, count
	}
	start := clamp(selected-height/2, 0, count-height)
	return start, start + height
}

func (m Model) renderTitle(title, detail string) string {
	styles := m.theme.Styles()
	out := styles.AccentText.Bold(true).Render(title)
	if detail != "" {
		out += " " + styles.FaintText.Render(detail)
	}
	return out
}

func (m Model) renderPlaceholder(item nav.Item, text string) string {
	styles := m.theme.Styles()
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitle(item.Label, ""),
		"",
		styles.MutedText.Render(text),
	)
}

func (m Model) renderEmptySelection() string {
	return m.theme.Styles().MutedText.Render("Select a destination in the sidebar.")
}
