// Package styles provides Lip Gloss styles for gantt's terminal output.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/wexinc/gantt/internal/detect"
	"github.com/wexinc/gantt/internal/project"
)

// Color palette.
var (
	Primary     = lipgloss.Color("#7C3AED") // Purple
	Secondary   = lipgloss.Color("#06B6D4") // Cyan
	Success     = lipgloss.Color("#10B981") // Green
	Warning     = lipgloss.Color("#F59E0B") // Amber
	Error       = lipgloss.Color("#EF4444") // Red
	Muted       = lipgloss.Color("#6B7280") // Gray
	MutedLight  = lipgloss.Color("#9CA3AF") // Light Gray
	Foreground  = lipgloss.Color("#F9FAFB") // White
	BorderColor = lipgloss.Color("#374151") // Border Gray
)

var (
	// TitleStyle is for screen and report titles.
	TitleStyle = lipgloss.NewStyle().
			Foreground(Foreground).
			Background(Primary).
			Bold(true).
			Padding(0, 1)

	// SectionStyle is for section headings in listings.
	SectionStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	// LabelStyle is for field labels.
	LabelStyle = lipgloss.NewStyle().
			Foreground(MutedLight)

	// ValueStyle is for field values.
	ValueStyle = lipgloss.NewStyle().
			Foreground(Foreground).
			Bold(true)

	// BoxStyle frames the paste area.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	// FocusedBoxStyle frames the paste area while it has focus.
	FocusedBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)
)

// Text styles.
var (
	MutedTextStyle   = lipgloss.NewStyle().Foreground(Muted)
	ErrorTextStyle   = lipgloss.NewStyle().Foreground(Error)
	SuccessTextStyle = lipgloss.NewStyle().Foreground(Success)
	WarningTextStyle = lipgloss.NewStyle().Foreground(Warning)

	// KeyStyle is for keyboard shortcut keys.
	KeyStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	// HelpStyle is for help text.
	HelpStyle = lipgloss.NewStyle().
			Foreground(Muted)
)

// StatusIcon returns the marker drawn before a task of the given status.
func StatusIcon(status project.Status) string {
	switch status {
	case project.StatusDone:
		return SuccessTextStyle.Render("✓")
	case project.StatusActive:
		return lipgloss.NewStyle().Foreground(Secondary).Render("→")
	case project.StatusCrit:
		return ErrorTextStyle.Render("!")
	case project.StatusMilestone:
		return WarningTextStyle.Render("◆")
	default:
		return MutedTextStyle.Render("○")
	}
}

// ConfidenceStyle colors a classifier confidence level.
func ConfidenceStyle(level detect.Level) lipgloss.Style {
	switch level {
	case detect.LevelHigh:
		return SuccessTextStyle
	case detect.LevelMedium:
		return WarningTextStyle
	default:
		return ErrorTextStyle
	}
}
