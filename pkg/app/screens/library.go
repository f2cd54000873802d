package screens

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rurushi/panel/pkg/app/components"
	"github.com/rurushi/panel/pkg/app/styles"
	"github.com/rurushi/panel/pkg/fetch"
	"github.com/rurushi/panel/pkg/services"
)

// LibraryScreen holds the videos folder, the scan action and the file
// picker.
type LibraryScreen struct {
	session Session
	input   textinput.Model
	files   *components.List
	// lastFolder is the folder last copied into the input from config.
	lastFolder string
	width      int
	height     int
}

func NewLibraryScreen(session Session) *LibraryScreen {
	ti := textinput.New()
	ti.Placeholder = "Enter videos folder path..."
	ti.CharLimit = 1024
	ti.Width = 60
	ti.Cursor.SetMode(cursor.CursorStatic)

	files := components.NewList("No files available - scan videos first")
	files.Focused = true

	return &LibraryScreen{
		session: session,
		input:   ti,
		files:   files,
	}
}

func (s *LibraryScreen) Init() tea.Cmd {
	s.sync()
	return nil
}

// Capturing reports whether keystrokes belong to the folder input.
func (s *LibraryScreen) Capturing() bool {
	return s.input.Focused()
}

func (s *LibraryScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	d := s.session.Dispatcher

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.files.Width = msg.Width
		s.files.Height = max(msg.Height-18, 3)
		s.input.Width = max(msg.Width-10, 20)

	case fetchedMsg:
		s.sync()

	case tea.KeyMsg:
		if s.input.Focused() {
			switch msg.String() {
			case "enter":
				path := s.input.Value()
				s.blur()
				return s, s.session.command(func(ctx context.Context) services.Outcome {
					return d.SetFolder(ctx, path)
				})
			case "esc":
				s.blur()
				return s, nil
			}
			var cmd tea.Cmd
			s.input, cmd = s.input.Update(msg)
			return s, cmd
		}

		switch msg.String() {
		case "up", "k":
			s.files.Prev()
		case "down", "j":
			s.files.Next()
		case "f", "/":
			s.files.Focused = false
			return s, s.input.Focus()
		case "s":
			if !d.BeginScan() {
				return s, nil
			}
			return s, s.session.command(d.ScanVideos)
		case "r":
			return s, s.session.reloadAll()
		case "enter":
			if selected := s.files.Selected(); selected != nil {
				path := selected.Value
				return s, s.session.command(func(ctx context.Context) services.Outcome {
					return d.PlayFile(ctx, path)
				})
			}
		}
	}

	return s, nil
}

func (s *LibraryScreen) blur() {
	s.input.Blur()
	s.files.Focused = true
}

// sync copies committed state into the widgets. The folder input follows
// config unless the operator is editing it.
func (s *LibraryScreen) sync() {
	d := s.session.Dispatcher

	if cfg := d.Config.State(); cfg.HasValue && !s.input.Focused() {
		if folder := cfg.Value.Folder(); folder != s.lastFolder {
			s.lastFolder = folder
			s.input.SetValue(folder)
		}
	}

	files := d.Files.State()
	if !files.HasValue {
		return
	}
	list := files.Value.Files
	if limit := s.session.FileLimit; limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	items := make([]components.ListItem, len(list))
	for i, f := range list {
		items[i] = components.ListItem{Title: f.DisplayName, Value: f.FilePath}
	}
	s.files.SetItems(items)
}

func (s *LibraryScreen) View() string {
	if s.width == 0 {
		return "Loading..."
	}
	d := s.session.Dispatcher

	header := styles.TitleStyle.Render("📁 Videos Folder")

	inputStyle := styles.InputStyle
	if s.input.Focused() {
		inputStyle = styles.FocusedInputStyle
	}
	inputView := inputStyle.Render(s.input.View())

	scan := "s: scan videos"
	if d.Scanning() {
		scan = styles.StatusBusy.Render("Scanning...")
	}

	var counts string
	if cfg := d.Config.State(); cfg.HasValue {
		counts = styles.MutedStyle.Render(fmt.Sprintf("Videos found: %d • Shows organized: %d",
			cfg.Value.VideoCount, cfg.Value.ShowCount))
	}

	files := d.Files.State()
	title := "Select file to play:"
	if files.HasValue {
		total := len(files.Value.Files)
		if limit := s.session.FileLimit; limit > 0 && total > limit {
			title = fmt.Sprintf("Select file to play (first %d of %d):", limit, total)
		}
	}
	filesView := styles.SectionStyle.Render(title) + "\n" + resourceNotice(files.Phase, files.HasValue, files.Err) + s.files.View()

	help := styles.HelpStyle.Render(
		"↑/k ↓/j: navigate • enter: play • f: edit folder • s: scan • r: refresh • tab: switch view • q: quit",
	)
	if s.input.Focused() {
		help = styles.HelpStyle.Render("enter: save folder • esc: cancel")
	}

	return fmt.Sprintf("%s\n%s\n%s  %s\n\n%s\n%s", header, inputView, scan, counts, filesView, help)
}

// resourceNotice renders the loading or error line above a resource's
// retained content.
func resourceNotice(phase fetch.Phase, hasValue bool, err string) string {
	switch {
	case phase == fetch.Failed:
		return styles.StatusError.Render("Error: "+err) + "\n"
	case phase == fetch.Loading && !hasValue:
		return styles.StatusBusy.Render("Loading...") + "\n"
	}
	return ""
}
