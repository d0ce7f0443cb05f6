package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is a dialog drawn over the main view that owns the keyboard.
// Update returns the updated modal, a command, and whether the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
	// Busy reports an outstanding request; the command bar shows it.
	Busy() bool
}

// placeModal centers a bordered panel on a background-filled screen.
func placeModal(theme Theme, width, height int, body string) string {
	panel := theme.Styles().FocusedPanel.
		Background(lipgloss.Color(theme.SurfaceAlt)).
		BorderBackground(lipgloss.Color(theme.SurfaceAlt)).
		Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, panel,
		lipgloss.WithWhitespaceBackground(lipgloss.Color(theme.Background)))
}
