package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/grocy-tui/internal/nav"
)

// renderSidebar draws the navigation tree at the given height.
func (m Model) renderSidebar(height int) string {
	width := SidebarWidth
	if m.sidebarCollapsed {
		width = SidebarCollapsedWidth
	}
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	selected, hasSelection := m.router.Selected()

	var lines []string
	for _, section := range m.router.Sections() {
		if !m.sidebarCollapsed {
			lines = append(lines, bg.FillLine(bg.Render(strings.ToUpper(section.Label), styles.SectionTitle), width))
		}
		for _, item := range section.Items {
			lines = append(lines, m.renderSidebarItem(item, hasSelection && item.Route == selected, width, styles, bg))
		}
		if !m.sidebarCollapsed {
			lines = append(lines, bg.FillLine("", width))
		}
	}

	border := lipgloss.Color(m.theme.Border)
	if m.focus == focusSidebar {
		border = lipgloss.Color(m.theme.BorderFocus)
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Width(width).
		Height(height).
		MaxHeight(height).
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(border).
		Render(strings.Join(lines, "\n"))
}

func (m Model) renderSidebarItem(item nav.Item, selected bool, width int, styles Styles, bg BgStyle) string {
	label := item.Label
	if m.sidebarCollapsed {
		label = firstRune(item.Label)
	}
	if selected {
		marker := "▌"
		text := truncate(marker+" "+label, width)
		return styles.Selected.Width(width).Render(text)
	}

	style := styles.Text
	if item.Destination == nav.Reserved {
		style = styles.FaintText
	}
	return bg.FillLine(bg.Render("  "+truncate(label, width-2), style), width)
}
