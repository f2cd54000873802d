package cmd

import (
	"bytes"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rurushi/panel/pkg/api"
	"github.com/rurushi/panel/pkg/devserver"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(devserver.New(devserver.WithShows(map[string][]api.Episode{
		"X": {{ID: 1, Name: "X 01", FilePath: "/v/X/X 01.mkv", ShowName: "X"}},
		"Y": {{ID: 2, Name: "Y 01", FilePath: "/v/Y/Y 01.mkv", ShowName: "Y"}},
	})).Handler())
	t.Cleanup(srv.Close)
	return srv.URL
}

// run executes the CLI against url and returns its output.
func run(t *testing.T, url string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("RURUSHI_API_URL", "")

	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{
		"--config", filepath.Join(t.TempDir(), "missing.yaml"),
		"--api-url", url,
		"--log-level", "error",
	}, args...))
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	if rt != nil {
		rt.close()
		rt = nil
	}
	return out.String(), err
}

// resetFlags undoes flag values left behind by earlier runs of the
// shared command tree.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func TestStatusCommand(t *testing.T) {
	url := newServer(t)

	out, err := run(t, url, "status")
	require.NoError(t, err)
	assert.Contains(t, out, url)
	assert.Contains(t, out, "(not set)")
	assert.Contains(t, out, "Not playing - Test card active")
	assert.Contains(t, out, "Start Streaming")
}

func TestListingCommands(t *testing.T) {
	url := newServer(t)

	out, err := run(t, url, "files")
	require.NoError(t, err)
	assert.Contains(t, out, "Files (2 of 2)")
	assert.Contains(t, out, "X / X 01")

	out, err = run(t, url, "shows")
	require.NoError(t, err)
	assert.Contains(t, out, "Shows (2)")
	assert.Contains(t, out, "Y")
}

func TestPlaybackCommands(t *testing.T) {
	url := newServer(t)

	out, err := run(t, url, "play", "/v/X/X 01.mkv")
	require.NoError(t, err)
	assert.Contains(t, out, "Playing: /v/X/X 01.mkv")

	out, err = run(t, url, "subtitles", "smart")
	require.NoError(t, err)
	assert.Contains(t, out, "Subtitle mode set to Smart")

	out, err = run(t, url, "stop")
	require.NoError(t, err)
	assert.Contains(t, out, "Playback stopped - Test card active")
}

func TestPlaylistCommands(t *testing.T) {
	url := newServer(t)

	_, err := run(t, url, "playlist", "add", "X")
	require.NoError(t, err)
	out, err := run(t, url, "playlist", "add", "Y", "--range", "1-5", "--repeat", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Added Y to playlist")

	out, err = run(t, url, "playlist", "move", "1", "up")
	require.NoError(t, err)
	assert.Contains(t, out, "Playlist order updated")

	out, err = run(t, url, "playlist")
	require.NoError(t, err)
	assert.Contains(t, out, "Current Playlist (2 items)")
	assert.Contains(t, out, "Y - Episodes 1-5")

	out, err = run(t, url, "playlist", "remove", "7")
	assert.ErrorIs(t, err, errCommandFailed)
	assert.Contains(t, out, "Error: Index out of range")

	out, err = run(t, url, "playlist", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Playlist cleared")

	out, err = run(t, url, "playlist", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Playlist is empty")
}

func TestFolderRequiresPath(t *testing.T) {
	url := newServer(t)

	out, err := run(t, url, "folder")
	assert.ErrorIs(t, err, errCommandFailed)
	assert.Contains(t, out, "Please enter a folder path")
}

func TestUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()

	out, err := run(t, url, "scan")
	assert.Error(t, err)
	assert.Contains(t, out, "Scanning videos...")
	assert.Contains(t, out, "Error: ")
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "a long ...", truncateString("a long string here", 10))
}
