package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/rurushi/panel/pkg/api"
	"github.com/rurushi/panel/pkg/services"
	"github.com/spf13/cobra"
)

var playlistCmd = &cobra.Command{
	Use:   "playlist",
	Short: "Show and edit the playlist",
	Args:  cobra.NoArgs,
	RunE:  listPlaylist,
}

var playlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the playlist in server order",
	Args:  cobra.NoArgs,
	RunE:  listPlaylist,
}

func listPlaylist(cmd *cobra.Command, args []string) error {
	items, err := rt.client.GetPlaylist(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(items) == 0 {
		fmt.Fprintln(out, "🎞  Playlist is empty")
		return nil
	}

	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Show", Width: 50},
		{Title: "Repeat", Width: 8},
	}
	rows := make([]table.Row, 0, len(items))
	for i, item := range items {
		rows = append(rows, table.Row{
			strconv.Itoa(i),
			truncateString(item.Label(), 48),
			strconv.Itoa(item.RepeatCount),
		})
	}

	heading(out, fmt.Sprintf("🎞  Current Playlist (%d items)", len(items)))
	fmt.Fprintln(out, renderTable(columns, rows))
	return nil
}

var playlistAddCmd = &cobra.Command{
	Use:   "add [show-name]",
	Short: "Append a show to the playlist",
	Long:  "Append a show to the playlist, optionally limited to an episode range (--range 1-12) and repeated",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		show := strings.Join(args, " ")
		rangeFlag, _ := cmd.Flags().GetString("range")
		repeat, _ := cmd.Flags().GetInt("repeat")
		if repeat < 0 {
			return fmt.Errorf("--repeat must not be negative")
		}

		var rng *api.EpisodeRange
		if rangeFlag != "" {
			r, err := api.ParseEpisodeRange(rangeFlag)
			if err != nil {
				return err
			}
			rng = &r
		}

		_, err := dispatch(cmd.Context(), cmd.OutOrStdout(), func(ctx context.Context) services.Outcome {
			return rt.dispatcher.AddToPlaylist(ctx, show, rng, repeat)
		})
		return err
	},
}

var playlistRemoveCmd = &cobra.Command{
	Use:   "remove [index]",
	Short: "Remove the item at a zero-based position",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid index %q: %w", args[0], err)
		}
		_, err = dispatch(cmd.Context(), cmd.OutOrStdout(), func(ctx context.Context) services.Outcome {
			return rt.dispatcher.RemoveFromPlaylist(ctx, index)
		})
		return err
	},
}

var playlistMoveCmd = &cobra.Command{
	Use:       "move [index] [up|down]",
	Short:     "Swap an item with its neighbour",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{string(api.Up), string(api.Down)},
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid index %q: %w", args[0], err)
		}
		dir, err := api.ParseDirection(args[1])
		if err != nil {
			return err
		}
		_, err = dispatch(cmd.Context(), cmd.OutOrStdout(), func(ctx context.Context) services.Outcome {
			return rt.dispatcher.MovePlaylistItem(ctx, index, dir)
		})
		return err
	},
}

var playlistClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every item from the playlist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := dispatch(cmd.Context(), cmd.OutOrStdout(), rt.dispatcher.ClearPlaylist)
		return err
	},
}

func init() {
	playlistAddCmd.Flags().StringP("range", "r", "", "episode range, e.g. 1-12 (default: every episode)")
	playlistAddCmd.Flags().IntP("repeat", "n", 0, "repeat count")

	playlistCmd.AddCommand(playlistListCmd)
	playlistCmd.AddCommand(playlistAddCmd)
	playlistCmd.AddCommand(playlistRemoveCmd)
	playlistCmd.AddCommand(playlistMoveCmd)
	playlistCmd.AddCommand(playlistClearCmd)

	rootCmd.AddCommand(playlistCmd)
}
