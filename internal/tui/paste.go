// Package tui provides the interactive paste screen for gantt.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wexinc/gantt/internal/mermaid"
	"github.com/wexinc/gantt/internal/tui/components"
)

// PasteModel is the Bubble Tea model behind "gantt paste". Submitting parses
// the text; canceling leaves Result nil.
type PasteModel struct {
	paste    *components.SchedulePaste
	parser   *mermaid.Parser
	result   *mermaid.Result
	canceled bool
	width    int
	height   int
}

// NewPasteModel creates a paste screen pre-filled with initial.
func NewPasteModel(parser *mermaid.Parser, threshold float64, initial string) *PasteModel {
	p := components.NewSchedulePaste(threshold)
	if initial != "" {
		p.SetValue(initial)
	}
	return &PasteModel{
		paste:  p,
		parser: parser,
	}
}

// Init focuses the text area.
func (m *PasteModel) Init() tea.Cmd {
	return m.paste.Focus()
}

// Update handles messages and updates the model.
func (m *PasteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.paste.SetWidth(msg.Width)
		m.paste.SetHeight(msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.canceled = true
			return m, tea.Quit
		}

	case components.PasteSubmittedMsg:
		m.result = m.parser.Parse(msg.Content)
		return m, tea.Quit

	case components.PasteCanceledMsg:
		m.canceled = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.paste, cmd = m.paste.Update(msg)
	return m, cmd
}

// View renders the screen.
func (m *PasteModel) View() string {
	if m.result != nil || m.canceled {
		return ""
	}
	return m.paste.View()
}

// Result returns the parse result, or nil if the screen was canceled.
func (m *PasteModel) Result() *mermaid.Result {
	return m.result
}

// Canceled reports whether the user left without submitting.
func (m *PasteModel) Canceled() bool {
	return m.canceled
}

// RunPaste shows the paste screen and returns the parsed text. It returns
// nil with no error when the user cancels.
func RunPaste(ctx context.Context, parser *mermaid.Parser, threshold float64, initial string) (*mermaid.Result, error) {
	model := NewPasteModel(parser, threshold, initial)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	return final.(*PasteModel).Result(), nil
}
