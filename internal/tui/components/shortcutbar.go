package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wexinc/gantt/internal/tui/styles"
)

// Shortcut is one key and what it does.
type Shortcut struct {
	Key  string
	Desc string
}

// ShortcutBar renders a row of key hints.
type ShortcutBar struct {
	shortcuts []Shortcut
	width     int
}

// NewShortcutBar creates a bar showing shortcuts in order.
func NewShortcutBar(shortcuts ...Shortcut) *ShortcutBar {
	return &ShortcutBar{shortcuts: shortcuts}
}

// SetWidth centers the bar within width columns. Zero disables centering.
func (s *ShortcutBar) SetWidth(width int) {
	s.width = width
}

// View renders the bar.
func (s *ShortcutBar) View() string {
	if len(s.shortcuts) == 0 {
		return ""
	}

	parts := make([]string, 0, len(s.shortcuts))
	for _, sc := range s.shortcuts {
		parts = append(parts, styles.KeyStyle.Render(sc.Key)+styles.HelpStyle.Render(": "+sc.Desc))
	}
	content := strings.Join(parts, styles.HelpStyle.Render(" │ "))

	if s.width > 0 {
		return lipgloss.NewStyle().Width(s.width).Align(lipgloss.Center).Render(content)
	}
	return content
}

// PasteShortcuts are the keys of the paste screen.
var PasteShortcuts = []Shortcut{
	{"Ctrl+S", "import"},
	{"Esc", "cancel"},
}
