package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Color palette
	Primary    = lipgloss.Color("#FF6B9D")
	Secondary  = lipgloss.Color("#C792EA")
	Success    = lipgloss.Color("#C3E88D")
	Warning    = lipgloss.Color("#FFCB6B")
	Error      = lipgloss.Color("#F07178")
	Info       = lipgloss.Color("#82AAFF")
	Muted      = lipgloss.Color("#546E7A")
	Background = lipgloss.Color("#263238")
	Foreground = lipgloss.Color("#EEFFFF")

	// Border styles
	RoundedBorder = lipgloss.RoundedBorder()
	ThickBorder   = lipgloss.ThickBorder()
)

// Base styles
var (
	// Title style for headings
	TitleStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			MarginBottom(1)

	// Section heading inside a screen
	SectionStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	TextStyle = lipgloss.NewStyle().
			Foreground(Foreground)

	MutedStyle = lipgloss.NewStyle().
			Foreground(Muted)

	// Selected list row
	SelectedStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	// Disabled action hints
	DisabledStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Strikethrough(true)

	// Panel around a list
	CardStyle = lipgloss.NewStyle().
			Border(RoundedBorder).
			BorderForeground(Secondary).
			Padding(0, 1)

	// Focused panel
	ActiveCardStyle = lipgloss.NewStyle().
			Border(ThickBorder).
			BorderForeground(Primary).
			Padding(0, 1)

	// Status styles
	StatusBusy = lipgloss.NewStyle().
			Foreground(Info).
			Bold(true)

	StatusOK = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	StatusError = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	StatusWarning = lipgloss.NewStyle().
			Foreground(Warning)

	// Status bar at the bottom of every screen
	StatusBarStyle = lipgloss.NewStyle().
			Border(RoundedBorder, true, false, false, false).
			BorderForeground(Muted).
			MarginTop(1)

	// Tab styles
	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Background(lipgloss.Color("#37474F")).
			Padding(0, 2).
			Bold(true)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(Muted).
				Padding(0, 2)

	// Help text
	HelpStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true).
			MarginTop(1)

	// Input field
	InputStyle = lipgloss.NewStyle().
			Border(RoundedBorder).
			BorderForeground(Secondary).
			Padding(0, 1)

	// Focused input
	FocusedInputStyle = lipgloss.NewStyle().
				Border(RoundedBorder).
				BorderForeground(Primary).
				Padding(0, 1)
)

// StatusStyle picks the style for a status line.
func StatusStyle(status string) lipgloss.Style {
	switch {
	case strings.HasPrefix(status, "Error:"), strings.HasPrefix(status, "Please "):
		return StatusError
	case strings.HasSuffix(status, "..."):
		return StatusBusy
	case status == "Ready":
		return MutedStyle
	default:
		return StatusOK
	}
}

// PhaseStyle picks the style for a fetch phase name.
func PhaseStyle(phase string) lipgloss.Style {
	switch phase {
	case "loading":
		return StatusBusy
	case "success":
		return StatusOK
	case "error":
		return StatusError
	default:
		return MutedStyle
	}
}
