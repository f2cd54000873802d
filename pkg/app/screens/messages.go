package screens

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rurushi/panel/pkg/services"
)

// Session is what every screen shares: the dispatcher holding the fetch
// controllers, and the context remote calls run under.
type Session struct {
	Ctx        context.Context
	Dispatcher *services.Dispatcher
	// FileLimit caps the rows of the file picker. Zero means no cap.
	FileLimit int
}

// Messages
type fetchedMsg struct {
	resource services.Resource
	commit   func() bool
}

type commandDoneMsg struct {
	outcome services.Outcome
}

type SwitchScreenMsg struct {
	Screen string
}

// Commands

// runJob performs a started refetch off the event loop; the commit runs
// back on it when fetchedMsg arrives.
func (s Session) runJob(job services.Job) tea.Cmd {
	return func() tea.Msg {
		return fetchedMsg{resource: job.Resource, commit: job.Run(s.Ctx)}
	}
}

func (s Session) refetch(refetch ...services.Refetch) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(refetch))
	for _, r := range refetch {
		cmds = append(cmds, s.runJob(s.Dispatcher.Start(r)))
	}
	return tea.Batch(cmds...)
}

func (s Session) mount() tea.Cmd {
	jobs := s.Dispatcher.Mount()
	cmds := make([]tea.Cmd, 0, len(jobs))
	for _, j := range jobs {
		cmds = append(cmds, s.runJob(j))
	}
	return tea.Batch(cmds...)
}

func (s Session) reloadAll() tea.Cmd {
	return s.refetch(
		services.Refetch{Resource: services.ResourceConfig},
		services.Refetch{Resource: services.ResourceFiles},
		services.Refetch{Resource: services.ResourceShows},
	)
}

func (s Session) command(cmd func(context.Context) services.Outcome) tea.Cmd {
	return func() tea.Msg {
		return commandDoneMsg{outcome: cmd(s.Ctx)}
	}
}
