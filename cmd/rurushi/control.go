package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/rurushi/panel/pkg/api"
	"github.com/rurushi/panel/pkg/services"
	"github.com/spf13/cobra"
)

var folderCmd = &cobra.Command{
	Use:   "folder [path]",
	Short: "Set the videos folder",
	Long:  "Save the folder the server scans for videos, then wait for the server to report it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := strings.Join(args, " ")
		_, err := dispatch(cmd.Context(), cmd.OutOrStdout(), func(ctx context.Context) services.Outcome {
			return rt.dispatcher.SetFolder(ctx, path)
		})
		return err
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the videos folder",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		printStatus(out, "Scanning videos...")
		_, err := dispatch(cmd.Context(), out, rt.dispatcher.ScanVideos)
		return err
	},
}

var playCmd = &cobra.Command{
	Use:   "play [file-path]",
	Short: "Play a file",
	Long:  "Play a file by its path as listed by 'rurushi files'",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := dispatch(cmd.Context(), cmd.OutOrStdout(), func(ctx context.Context) services.Outcome {
			return rt.dispatcher.PlayFile(ctx, args[0])
		})
		return err
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop playback and show the test card",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := dispatch(cmd.Context(), cmd.OutOrStdout(), rt.dispatcher.StopPlayback)
		return err
	},
}

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Start streaming",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		_, err := dispatch(cmd.Context(), out, rt.dispatcher.StartStreaming)
		if err != nil {
			return err
		}
		if st := rt.dispatcher.Config.State(); st.HasValue && !st.Value.IsStreaming {
			fmt.Fprintln(out, "⚠️  The server does not report streaming yet")
		}
		return nil
	},
}

var subtitlesCmd = &cobra.Command{
	Use:       "subtitles [None|Smart]",
	Short:     "Set the subtitle mode",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(api.SubtitleNone), string(api.SubtitleSmart)},
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := api.ParseSubtitleMode(args[0])
		if err != nil {
			return err
		}
		_, err = dispatch(cmd.Context(), cmd.OutOrStdout(), func(ctx context.Context) services.Outcome {
			return rt.dispatcher.SetSubtitleMode(ctx, mode)
		})
		return err
	},
}

func init() {
	rootCmd.AddCommand(folderCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(streamCmd)
	rootCmd.AddCommand(subtitlesCmd)
}
