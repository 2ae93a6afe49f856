// Package components provides TUI components for gantt.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wexinc/gantt/internal/detect"
	"github.com/wexinc/gantt/internal/tui/styles"
)

// PasteSubmittedMsg is sent when the user confirms the pasted text.
type PasteSubmittedMsg struct {
	Content string
	Preview detect.Preview
}

// PasteCanceledMsg is sent when the user leaves without submitting.
type PasteCanceledMsg struct{}

// SchedulePaste is a text area that classifies its content as the user types.
type SchedulePaste struct {
	textarea  textarea.Model
	width     int
	height    int
	focused   bool
	threshold float64
	shortcuts *ShortcutBar

	signals detect.Signals
	preview detect.Preview
	likely  bool
}

// NewSchedulePaste creates a paste area that accepts text scoring at least
// threshold.
func NewSchedulePaste(threshold float64) *SchedulePaste {
	ta := textarea.New()
	ta.Placeholder = "Paste a schedule here...\n\nAccepted:\ngantt blocks\n- bullet lists with dates\n1. numbered steps with durations"
	ta.CharLimit = 10000
	ta.SetWidth(60)
	ta.SetHeight(10)
	ta.ShowLineNumbers = false

	p := &SchedulePaste{
		textarea:  ta,
		threshold: threshold,
		shortcuts: NewShortcutBar(PasteShortcuts...),
	}
	p.updatePreview()
	return p
}

// SetWidth sets the component width.
func (p *SchedulePaste) SetWidth(width int) {
	p.width = width
	p.textarea.SetWidth(width - 4)
}

// SetHeight sets the component height, leaving room for the preview.
func (p *SchedulePaste) SetHeight(height int) {
	p.height = height
	taHeight := height - 14
	if taHeight < 5 {
		taHeight = 5
	}
	p.textarea.SetHeight(taHeight)
}

// Focus focuses the text area.
func (p *SchedulePaste) Focus() tea.Cmd {
	p.focused = true
	return p.textarea.Focus()
}

// Blur removes focus from the text area.
func (p *SchedulePaste) Blur() {
	p.focused = false
	p.textarea.Blur()
}

// Value returns the current text.
func (p *SchedulePaste) Value() string {
	return p.textarea.Value()
}

// SetValue replaces the text and refreshes the preview.
func (p *SchedulePaste) SetValue(value string) {
	p.textarea.SetValue(value)
	p.updatePreview()
}

// Preview returns the preview of the current text.
func (p *SchedulePaste) Preview() detect.Preview {
	return p.preview
}

// Signals returns the classifier signals of the current text.
func (p *SchedulePaste) Signals() detect.Signals {
	return p.signals
}

// Likely reports whether the current text passes the classifier.
func (p *SchedulePaste) Likely() bool {
	return p.likely
}

func (p *SchedulePaste) updatePreview() {
	content := p.textarea.Value()
	p.signals = detect.DetectSignals(content)
	p.preview = detect.ExtractPreview(content)
	p.likely = detect.IsLikelySchedule(content, p.threshold)
}

// Update handles key presses. ctrl+s submits and esc cancels; everything
// else goes to the text area.
func (p *SchedulePaste) Update(msg tea.Msg) (*SchedulePaste, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+s":
			if strings.TrimSpace(p.textarea.Value()) == "" {
				return p, nil
			}
			content := p.textarea.Value()
			preview := p.preview
			return p, func() tea.Msg {
				return PasteSubmittedMsg{Content: content, Preview: preview}
			}
		case "esc":
			return p, func() tea.Msg {
				return PasteCanceledMsg{}
			}
		}
	}

	var cmd tea.Cmd
	p.textarea, cmd = p.textarea.Update(msg)
	p.updatePreview()
	return p, cmd
}

// View renders the text area, the live preview and the key help.
func (p *SchedulePaste) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("Paste Schedule"))
	b.WriteString("\n\n")

	box := styles.BoxStyle
	if p.focused {
		box = styles.FocusedBoxStyle
	}
	b.WriteString(box.Render(p.textarea.View()))
	b.WriteString("\n\n")
	b.WriteString(p.previewView())
	b.WriteString("\n")
	b.WriteString(p.shortcuts.View())

	return b.String()
}

func (p *SchedulePaste) previewView() string {
	if strings.TrimSpace(p.textarea.Value()) == "" {
		return styles.MutedTextStyle.Render("Start typing or paste a schedule to see a preview") + "\n"
	}

	var b strings.Builder
	label := styles.LabelStyle.Render

	kind := "plain text"
	if p.preview.IsMermaid {
		kind = "gantt syntax"
	}
	verdict := styles.ErrorTextStyle.Render("not a schedule")
	if p.likely {
		verdict = styles.SuccessTextStyle.Render("looks like a schedule")
	}
	b.WriteString(label("Detected: ") + verdict + styles.MutedTextStyle.Render(" ("+kind+")") + "\n")

	level := p.preview.Confidence
	b.WriteString(label("Confidence: ") +
		styles.ConfidenceStyle(level).Render(fmt.Sprintf("%s (%.2f)", level, p.signals.Confidence)) + "\n")
	b.WriteString(label("Tasks: ") + styles.ValueStyle.Render(fmt.Sprintf("%d", p.preview.TaskCount)) + "\n")

	if len(p.preview.Sections) > 0 {
		b.WriteString(label("Sections: ") + styles.ValueStyle.Render(strings.Join(p.preview.Sections, ", ")) + "\n")
	}
	if r := p.preview.DateRange; r != nil {
		b.WriteString(label("Dates: ") + styles.ValueStyle.Render(r.Start+" to "+r.End) + "\n")
	}
	for _, w := range p.preview.Warnings {
		b.WriteString(styles.WarningTextStyle.Render("⚠ "+w) + "\n")
	}
	return b.String()
}
