package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/rurushi/panel/pkg/api"
	"github.com/rurushi/panel/pkg/app/styles"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the server configuration",
	Long:  "Display the videos folder, counts, streaming and playback state of the server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := rt.client.GetConfig(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		heading(out, "📺 "+rt.client.BaseURL())
		fmt.Fprintln(out, renderConfig(cfg))
		return nil
	},
}

func renderConfig(cfg api.ConfigResponse) string {
	folder := cfg.Folder()
	if folder == "" {
		folder = "(not set)"
	}
	streaming := "Start Streaming"
	if cfg.IsStreaming {
		streaming = "Streaming Active ✓"
	}
	playing := "Not playing - Test card active"
	if p := cfg.NowPlaying(); p != "" {
		playing = "Now Playing: " + p
	}

	keyStyle := lipgloss.NewStyle().Foreground(styles.Secondary).Bold(true).Padding(0, 1)
	valueStyle := lipgloss.NewStyle().Padding(0, 1)

	t := ltable.New().
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return keyStyle
			}
			return valueStyle
		}).
		Row("Videos folder", folder).
		Row("Videos found", strconv.Itoa(cfg.VideoCount)).
		Row("Shows organized", strconv.Itoa(cfg.ShowCount)).
		Row("Subtitle mode", string(cfg.SubtitleMode)).
		Row("Streaming", streaming).
		Row("Playback", playing).
		Row("Playlist", fmt.Sprintf("%d items", len(cfg.Playlist)))
	return t.String()
}

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List the files available for playback",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := rt.client.GetFiles(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(list.Files) == 0 {
			fmt.Fprintln(out, "📂 No files available - scan videos first")
			return nil
		}

		all, _ := cmd.Flags().GetBool("all")
		files := list.Files
		if limit := rt.cfg.UI.FileLimit; !all && limit > 0 && len(files) > limit {
			files = files[:limit]
		}

		columns := []table.Column{
			{Title: "#", Width: 4},
			{Title: "Name", Width: 50},
			{Title: "Path", Width: 60},
		}
		rows := make([]table.Row, 0, len(files))
		for i, f := range files {
			rows = append(rows, table.Row{
				strconv.Itoa(i + 1),
				truncateString(f.DisplayName, 48),
				truncateString(f.FilePath, 58),
			})
		}

		heading(out, fmt.Sprintf("🎬 Files (%d of %d)", len(files), len(list.Files)))
		fmt.Fprintln(out, renderTable(columns, rows))
		return nil
	},
}

var showsCmd = &cobra.Command{
	Use:   "shows",
	Short: "List the shows found by the last scan",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := rt.client.GetShows(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(list.Shows) == 0 {
			fmt.Fprintln(out, "📂 No shows available - scan videos first")
			return nil
		}

		columns := []table.Column{
			{Title: "#", Width: 4},
			{Title: "Show", Width: 60},
		}
		rows := make([]table.Row, 0, len(list.Shows))
		for i, name := range list.Shows {
			rows = append(rows, table.Row{strconv.Itoa(i + 1), truncateString(name, 58)})
		}

		heading(out, fmt.Sprintf("📚 Shows (%d)", len(list.Shows)))
		fmt.Fprintln(out, renderTable(columns, rows))
		return nil
	},
}

// renderTable draws a static bubbles table.
func renderTable(columns []table.Column, rows []table.Row) string {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+2),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Cell
	t.SetStyles(s)
	return t.View()
}

func init() {
	filesCmd.Flags().Bool("all", false, "list every file instead of the first ui.file_limit")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(showsCmd)
}
