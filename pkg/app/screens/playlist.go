package screens

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rurushi/panel/pkg/api"
	"github.com/rurushi/panel/pkg/app/components"
	"github.com/rurushi/panel/pkg/app/styles"
	"github.com/rurushi/panel/pkg/services"
)

type pane int

const (
	showsPane pane = iota
	playlistPane
)

// PlaylistScreen adds shows to the playlist and reorders it. The order
// shown is always the server's; nothing is reordered locally.
type PlaylistScreen struct {
	session  Session
	shows    *components.List
	playlist *components.List
	items    []api.PlaylistItem
	focus    pane

	// add form, open while adding a show with a range or repeat count
	form    bool
	field   int
	rng     textinput.Model
	repeat  textinput.Model
	formErr string

	width  int
	height int
}

func newFormInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 16
	ti.Width = 20
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

func NewPlaylistScreen(session Session) *PlaylistScreen {
	shows := components.NewList("No shows available - scan videos first")
	shows.Focused = true
	return &PlaylistScreen{
		session:  session,
		shows:    shows,
		playlist: components.NewList("Playlist is empty"),
		rng:      newFormInput("all episodes, or 1-12"),
		repeat:   newFormInput("0"),
	}
}

func (s *PlaylistScreen) Init() tea.Cmd {
	s.sync()
	return nil
}

func (s *PlaylistScreen) Capturing() bool { return s.form }

func (s *PlaylistScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		half := max(msg.Width/2, 20)
		s.shows.Width = half
		s.playlist.Width = half
		s.shows.Height = max(msg.Height-14, 3)
		s.playlist.Height = max(msg.Height-14, 3)

	case fetchedMsg:
		s.sync()

	case tea.KeyMsg:
		if s.form {
			return s, s.updateForm(msg)
		}
		switch msg.String() {
		case "left", "h":
			s.setFocus(showsPane)
		case "right", "l":
			s.setFocus(playlistPane)
		case "up", "k":
			s.active().Prev()
		case "down", "j":
			s.active().Next()
		case "r":
			return s, s.session.refetch(services.Refetch{Resource: services.ResourceConfig},
				services.Refetch{Resource: services.ResourceShows})
		default:
			if s.focus == showsPane {
				return s, s.showsKey(msg.String())
			}
			return s, s.playlistKey(msg.String())
		}
	}

	return s, nil
}

func (s *PlaylistScreen) setFocus(p pane) {
	s.focus = p
	s.shows.Focused = p == showsPane
	s.playlist.Focused = p == playlistPane
}

func (s *PlaylistScreen) active() *components.List {
	if s.focus == playlistPane {
		return s.playlist
	}
	return s.shows
}

func (s *PlaylistScreen) showsKey(key string) tea.Cmd {
	selected := s.shows.Selected()
	if selected == nil {
		return nil
	}
	switch key {
	case "enter", "a":
		return s.add(selected.Value, nil, 0)
	case "o":
		s.openForm()
		return s.rng.Focus()
	}
	return nil
}

func (s *PlaylistScreen) playlistKey(key string) tea.Cmd {
	d := s.session.Dispatcher
	n := len(s.items)
	index := s.playlist.SelectedIndex

	switch key {
	case "K", "shift+up":
		if !services.CanMove(index, n, api.Up) {
			return nil
		}
		s.playlist.SelectedIndex--
		return s.move(index, api.Up)
	case "J", "shift+down":
		if !services.CanMove(index, n, api.Down) {
			return nil
		}
		s.playlist.SelectedIndex++
		return s.move(index, api.Down)
	case "d", "delete", "x":
		if n == 0 {
			return nil
		}
		return s.session.command(func(ctx context.Context) services.Outcome {
			return d.RemoveFromPlaylist(ctx, index)
		})
	case "c":
		if n == 0 {
			return nil
		}
		return s.session.command(d.ClearPlaylist)
	}
	return nil
}

func (s *PlaylistScreen) move(index int, dir api.Direction) tea.Cmd {
	d := s.session.Dispatcher
	return s.session.command(func(ctx context.Context) services.Outcome {
		return d.MovePlaylistItem(ctx, index, dir)
	})
}

func (s *PlaylistScreen) add(show string, rng *api.EpisodeRange, repeat int) tea.Cmd {
	d := s.session.Dispatcher
	return s.session.command(func(ctx context.Context) services.Outcome {
		return d.AddToPlaylist(ctx, show, rng, repeat)
	})
}

func (s *PlaylistScreen) openForm() {
	s.form = true
	s.field = 0
	s.formErr = ""
	s.rng.SetValue("")
	s.repeat.SetValue("")
}

func (s *PlaylistScreen) closeForm() {
	s.form = false
	s.rng.Blur()
	s.repeat.Blur()
}

func (s *PlaylistScreen) updateForm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		s.closeForm()
		return nil
	case "up", "down", "shift+tab":
		s.field = 1 - s.field
		if s.field == 0 {
			s.repeat.Blur()
			return s.rng.Focus()
		}
		s.rng.Blur()
		return s.repeat.Focus()
	case "enter":
		return s.submitForm()
	}

	var cmd tea.Cmd
	if s.field == 0 {
		s.rng, cmd = s.rng.Update(msg)
	} else {
		s.repeat, cmd = s.repeat.Update(msg)
	}
	return cmd
}

func (s *PlaylistScreen) submitForm() tea.Cmd {
	selected := s.shows.Selected()
	if selected == nil {
		s.closeForm()
		return nil
	}

	var rng *api.EpisodeRange
	if v := strings.TrimSpace(s.rng.Value()); v != "" {
		r, err := api.ParseEpisodeRange(v)
		if err != nil {
			s.formErr = err.Error()
			return nil
		}
		rng = &r
	}
	repeat := 0
	if v := strings.TrimSpace(s.repeat.Value()); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.formErr = fmt.Sprintf("invalid repeat count %q", v)
			return nil
		}
		repeat = n
	}

	s.closeForm()
	return s.add(selected.Value, rng, repeat)
}

func (s *PlaylistScreen) sync() {
	d := s.session.Dispatcher

	if shows := d.Shows.State(); shows.HasValue {
		items := make([]components.ListItem, len(shows.Value.Shows))
		for i, name := range shows.Value.Shows {
			items[i] = components.ListItem{Title: "+ " + name, Value: name}
		}
		s.shows.SetItems(items)
	}

	if cfg := d.Config.State(); cfg.HasValue {
		s.items = cfg.Value.Playlist
		items := make([]components.ListItem, len(s.items))
		for i, item := range s.items {
			detail := ""
			if item.RepeatCount > 0 {
				detail = fmt.Sprintf("×%d", item.RepeatCount)
			}
			items[i] = components.ListItem{Title: item.Label(), Detail: detail, Value: item.ShowName}
		}
		s.playlist.SetItems(items)
	}
}

func (s *PlaylistScreen) View() string {
	if s.width == 0 {
		return "Loading..."
	}
	d := s.session.Dispatcher

	header := styles.TitleStyle.Render("🎞 Playlist Editor")

	shows := d.Shows.State()
	left := lipgloss.JoinVertical(lipgloss.Left,
		styles.SectionStyle.Render("Add show to playlist:"),
		resourceNotice(shows.Phase, shows.HasValue, shows.Err)+s.shows.View(),
	)

	cfg := d.Config.State()
	title := fmt.Sprintf("Current Playlist (%d items):", len(s.items))
	if len(s.items) > 0 {
		title += "  " + styles.MutedStyle.Render("c: clear playlist")
	}
	right := lipgloss.JoinVertical(lipgloss.Left,
		styles.SectionStyle.Render(title),
		resourceNotice(cfg.Phase, cfg.HasValue, cfg.Err)+s.playlist.View(),
	)

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)

	if s.form {
		return fmt.Sprintf("%s\n%s\n\n%s", header, body, s.formView())
	}
	return fmt.Sprintf("%s\n%s\n%s", header, body, s.help())
}

func (s *PlaylistScreen) formView() string {
	show := ""
	if selected := s.shows.Selected(); selected != nil {
		show = selected.Value
	}
	rngStyle, repeatStyle := styles.FocusedInputStyle, styles.InputStyle
	if s.field == 1 {
		rngStyle, repeatStyle = styles.InputStyle, styles.FocusedInputStyle
	}
	form := lipgloss.JoinVertical(lipgloss.Left,
		styles.SectionStyle.Render("Add "+show),
		"Episodes "+rngStyle.Render(s.rng.View()),
		"Repeat   "+repeatStyle.Render(s.repeat.View()),
	)
	if s.formErr != "" {
		form += "\n" + styles.StatusError.Render("Error: "+s.formErr)
	}
	return form + "\n" + styles.HelpStyle.Render("enter: add • ↑/↓: switch field • esc: cancel")
}

// help lists the playlist actions; boundary moves are shown disabled.
func (s *PlaylistScreen) help() string {
	if s.focus == showsPane {
		return styles.HelpStyle.Render(
			"↑/k ↓/j: navigate • enter/a: add show • o: add with options • →/l: playlist • r: refresh • tab: switch view • q: quit",
		)
	}
	n := len(s.items)
	index := s.playlist.SelectedIndex
	up, down := "K: move up", "J: move down"
	if !services.CanMove(index, n, api.Up) {
		up = styles.DisabledStyle.Render(up)
	}
	if !services.CanMove(index, n, api.Down) {
		down = styles.DisabledStyle.Render(down)
	}
	parts := []string{"↑/k ↓/j: navigate", up, down}
	if n > 0 {
		parts = append(parts, "d: remove", "c: clear")
	}
	parts = append(parts, "←/h: shows", "tab: switch view", "q: quit")
	return styles.HelpStyle.Render(strings.Join(parts, " • "))
}
