package components

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rurushi/panel/pkg/app/styles"
)

// StatusBar shows the last command status and the phase of every
// resource, with a spinner while anything is in flight.
type StatusBar struct {
	status  string
	phases  map[string]string
	busy    bool
	spinner spinner.Model
	width   int
}

func NewStatusBar(status string) *StatusBar {
	return &StatusBar{
		status:  status,
		phases:  make(map[string]string),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.StatusBusy)),
		width:   80,
	}
}

func (s *StatusBar) SetStatus(status string) { s.status = status }

func (s *StatusBar) Status() string { return s.status }

// SetPhase records a resource's phase name as reported by fetch.Phase.
func (s *StatusBar) SetPhase(resource, phase string) {
	s.phases[resource] = phase
}

// SetBusy marks work outside the fetch controllers, such as a scan.
func (s *StatusBar) SetBusy(busy bool) { s.busy = busy }

func (s *StatusBar) SetWidth(width int) { s.width = width }

func (s *StatusBar) Active() bool {
	if s.busy {
		return true
	}
	for _, p := range s.phases {
		if p == "loading" {
			return true
		}
	}
	return false
}

// Tick starts the spinner.
func (s *StatusBar) Tick() tea.Cmd {
	return s.spinner.Tick
}

func (s *StatusBar) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(spinner.TickMsg); !ok {
		return nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return cmd
}

func (s *StatusBar) View() string {
	indicator := "  "
	if s.Active() {
		indicator = s.spinner.View() + " "
	}
	line := indicator + "Status: " + styles.StatusStyle(s.status).Render(s.status)

	names := make([]string, 0, len(s.phases))
	for name := range s.phases {
		names = append(names, name)
	}
	sort.Strings(names)
	badges := make([]string, 0, len(names))
	for _, name := range names {
		phase := s.phases[name]
		badges = append(badges, fmt.Sprintf("%s %s", name, styles.PhaseStyle(phase).Render(phase)))
	}

	body := line
	if len(badges) > 0 {
		body += "\n" + styles.MutedStyle.Render("  ") + strings.Join(badges, styles.MutedStyle.Render(" • "))
	}
	return styles.StatusBarStyle.Width(s.width).Render(body)
}
