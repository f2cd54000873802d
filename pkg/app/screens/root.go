package screens

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rurushi/panel/pkg/app/components"
	"github.com/rurushi/panel/pkg/app/styles"
	"github.com/rurushi/panel/pkg/fetch"
	"github.com/rurushi/panel/pkg/services"
)

type screenType int

const (
	libraryView screenType = iota
	playbackView
	playlistView
	screenCount
)

var screenNames = map[screenType]string{
	libraryView:  "Library",
	playbackView: "Playback",
	playlistView: "Playlist",
}

// screen is a tab. Capturing screens receive every key, including the
// ones the root would otherwise handle.
type screen interface {
	tea.Model
	Capturing() bool
}

type RootScreen struct {
	session Session

	currentView screenType
	library     *LibraryScreen
	playback    *PlaybackScreen
	playlist    *PlaylistScreen
	status      *components.StatusBar

	width  int
	height int
}

func NewRootScreen(session Session) *RootScreen {
	return &RootScreen{
		session:     session,
		currentView: libraryView,
		library:     NewLibraryScreen(session),
		playback:    NewPlaybackScreen(session),
		playlist:    NewPlaylistScreen(session),
		status:      components.NewStatusBar(session.Dispatcher.Status()),
	}
}

func (r *RootScreen) Init() tea.Cmd {
	cmd := r.session.mount()
	r.syncStatus()
	return tea.Batch(cmd, r.status.Tick(), r.library.Init())
}

func (r *RootScreen) screens() []screen {
	return []screen{r.library, r.playback, r.playlist}
}

func (r *RootScreen) active() screen {
	return r.screens()[r.currentView]
}

func (r *RootScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	defer r.syncStatus()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.width = msg.Width
		r.height = msg.Height
		r.status.SetWidth(msg.Width)
		// Every tab keeps its layout current, not only the visible one.
		var cmds []tea.Cmd
		for _, s := range r.screens() {
			_, cmd := s.Update(msg)
			cmds = append(cmds, cmd)
		}
		return r, tea.Batch(cmds...)

	case fetchedMsg:
		// Commit on the event loop, then let every tab pick up the result.
		msg.commit()
		for _, s := range r.screens() {
			s.Update(msg)
		}
		return r, nil

	case commandDoneMsg:
		return r, r.session.refetch(msg.outcome.Refetch...)

	case SwitchScreenMsg:
		for view, name := range screenNames {
			if name == msg.Screen {
				return r, r.switchTo(view)
			}
		}
		return r, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return r, tea.Quit
		}
		if !r.active().Capturing() {
			switch msg.String() {
			case "q":
				return r, tea.Quit
			case "tab":
				return r, r.switchTo((r.currentView + 1) % screenCount)
			case "shift+tab":
				return r, r.switchTo((r.currentView + screenCount - 1) % screenCount)
			}
		}

	default:
		if cmd := r.status.Update(msg); cmd != nil {
			return r, cmd
		}
	}

	// Forward message to active screen
	_, cmd := r.active().Update(msg)
	return r, cmd
}

func (r *RootScreen) switchTo(view screenType) tea.Cmd {
	r.currentView = view
	return r.active().Init()
}

// syncStatus copies the dispatcher's status and the fetch phases into the
// status bar.
func (r *RootScreen) syncStatus() {
	d := r.session.Dispatcher
	r.status.SetStatus(d.Status())
	r.status.SetBusy(d.Scanning())
	r.status.SetPhase(string(services.ResourceConfig), d.Config.State().Phase.String())
	r.status.SetPhase(string(services.ResourceFiles), d.Files.State().Phase.String())
	r.status.SetPhase(string(services.ResourceShows), d.Shows.State().Phase.String())
}

func (r *RootScreen) View() string {
	cfg := r.session.Dispatcher.Config.State()
	switch {
	case !cfg.HasValue && cfg.Phase == fetch.Failed:
		return styles.StatusError.Render(fmt.Sprintf("Error: %s", cfg.Err)) + "\n" +
			styles.HelpStyle.Render("r: retry • q: quit")
	case !cfg.HasValue:
		return "Loading..."
	}

	header := styles.TitleStyle.Render("Rurushi HLS Server") + "\n" +
		styles.MutedStyle.Render("Video streaming control panel")

	return fmt.Sprintf("%s\n\n%s\n\n%s\n%s", header, r.renderTabs(), r.active().View(), r.status.View())
}

func (r *RootScreen) renderTabs() string {
	tabs := make([]string, 0, screenCount)
	for view := libraryView; view < screenCount; view++ {
		style := styles.InactiveTabStyle
		if view == r.currentView {
			style = styles.ActiveTabStyle
		}
		tabs = append(tabs, style.Render(screenNames[view]))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}
