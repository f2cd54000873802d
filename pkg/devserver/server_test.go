package devserver

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rurushi/panel/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeVideos(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
}

func newClient(t *testing.T, opts ...Option) (*api.Client, *Server) {
	t.Helper()
	s := New(opts...)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL), s
}

func TestEpisodeNumber(t *testing.T) {
	tests := []struct {
		base string
		want int
		ok   bool
	}{
		{"Show.S01E05.1080p", 5, true},
		{"[Group] Show - 12 [1080p]", 12, true},
		{"Show - 03v2", 3, true},
		{"Show Episode 7", 7, true},
		{"Show E09 final", 9, true},
		{"Show 01", 1, true},
		{"Opening Credits", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			got := episodeNumber(tt.base)
			if !tt.ok {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestScanFolderGroupsByDirectory(t *testing.T) {
	root := t.TempDir()
	writeVideos(t, root,
		"Alpha/Alpha - 02.mkv",
		"Alpha/Alpha - 01.mkv",
		"Alpha/notes.txt",
		"Beta/Season 1/Beta.S01E01.mp4",
		".hidden/secret.mkv",
	)

	shows, err := scanFolder(root)
	require.NoError(t, err)

	require.Len(t, shows, 2)
	require.Len(t, shows["Alpha"], 2)
	assert.Equal(t, "Alpha - 01", shows["Alpha"][0].Name)
	assert.Equal(t, 1, shows["Alpha"][0].ID)
	assert.Equal(t, 2, shows["Alpha"][1].ID)
	require.Len(t, shows["Season 1"], 1)
	assert.Equal(t, "Season 1", shows["Season 1"][0].ShowName)
}

func TestScanCountsMatchMapping(t *testing.T) {
	root := t.TempDir()
	writeVideos(t, root, "X/X 01.mkv", "X/X 02.mkv", "Y/Y 01.mp4")

	c, _ := newClient(t)
	ctx := context.Background()
	require.NoError(t, c.SetFolder(ctx, root))

	res, err := c.ScanVideos(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, res.VideoCount)
	assert.Equal(t, 2, res.ShowCount)
	assert.True(t, res.CountsMatch())

	files, err := c.GetFiles(ctx)
	require.NoError(t, err)
	assert.Len(t, files.Files, 3)
	assert.Equal(t, "X / X 01", files.Files[0].DisplayName)

	shows, err := c.GetShows(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"X", "Y"}, shows.Shows)
}

func TestScanWithoutFolder(t *testing.T) {
	c, _ := newClient(t)
	_, err := c.ScanVideos(context.Background())
	require.Error(t, err)
	assert.Equal(t, errFolderNotSet, err.Error())
}

func TestSetFolderRejectsMissingDirectory(t *testing.T) {
	c, _ := newClient(t)
	err := c.SetFolder(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Folder does not exist")
}

func TestPlaylistScenario(t *testing.T) {
	c, _ := newClient(t, WithShows(map[string][]api.Episode{
		"X": {{ID: 1, Name: "X 01", ShowName: "X"}},
		"Y": {{ID: 2, Name: "Y 01", ShowName: "Y"}},
	}))
	ctx := context.Background()

	playlist := func() []api.PlaylistItem {
		items, err := c.GetPlaylist(ctx)
		require.NoError(t, err)
		return items
	}

	assert.Empty(t, playlist())

	require.NoError(t, c.AddToPlaylist(ctx, "X", nil, 0))
	assert.Equal(t, []api.PlaylistItem{{ShowName: "X"}}, playlist())

	rng := api.EpisodeRange{1, 5}
	require.NoError(t, c.AddToPlaylist(ctx, "Y", &rng, 0))
	items := playlist()
	require.Len(t, items, 2)
	assert.Equal(t, "Y", items[1].ShowName)

	require.NoError(t, c.MovePlaylistItem(ctx, 1, api.Up))
	items = playlist()
	assert.Equal(t, "Y", items[0].ShowName)
	assert.Equal(t, "X", items[1].ShowName)

	require.NoError(t, c.RemoveFromPlaylist(ctx, 0))
	assert.Equal(t, []api.PlaylistItem{{ShowName: "X"}}, playlist())

	require.NoError(t, c.ClearPlaylist(ctx))
	assert.Empty(t, playlist())
	require.NoError(t, c.ClearPlaylist(ctx), "clearing an empty playlist is not an error")
	assert.Empty(t, playlist())
}

func TestPlaylistBoundaries(t *testing.T) {
	c, _ := newClient(t, WithShows(map[string][]api.Episode{"X": nil, "Y": nil}))
	ctx := context.Background()
	require.NoError(t, c.AddToPlaylist(ctx, "X", nil, 0))
	require.NoError(t, c.AddToPlaylist(ctx, "Y", nil, 2))

	// boundary moves are accepted and change nothing
	require.NoError(t, c.MovePlaylistItem(ctx, 0, api.Up))
	require.NoError(t, c.MovePlaylistItem(ctx, 1, api.Down))
	items, err := c.GetPlaylist(ctx)
	require.NoError(t, err)
	assert.Equal(t, "X", items[0].ShowName)
	assert.Equal(t, "Y", items[1].ShowName)
	assert.Equal(t, 2, items[1].RepeatCount)

	err = c.MovePlaylistItem(ctx, 5, api.Up)
	require.Error(t, err)
	assert.Equal(t, errIndexOutOfRange, err.Error())

	err = c.RemoveFromPlaylist(ctx, 2)
	require.Error(t, err)
	assert.Equal(t, errIndexOutOfRange, err.Error())

	err = c.AddToPlaylist(ctx, "Z", nil, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Show not found")
}

func TestPlaybackState(t *testing.T) {
	c, _ := newClient(t, WithShows(map[string][]api.Episode{
		"X": {{ID: 1, Name: "X 01", FilePath: "/v/X/X 01.mkv", ShowName: "X"}},
	}))
	ctx := context.Background()

	require.NoError(t, c.PlayVideo(ctx, "/v/X/X 01.mkv"))
	cfg, err := c.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/v/X/X 01.mkv", cfg.NowPlaying())

	require.Error(t, c.PlayVideo(ctx, "/v/unknown.mkv"))

	require.NoError(t, c.StopPlayback(ctx))
	cfg, err = c.GetConfig(ctx)
	require.NoError(t, err)
	assert.Nil(t, cfg.CurrentPlaying)
}

func TestSettleLag(t *testing.T) {
	c, _ := newClient(t, WithSettleLag(50*time.Millisecond))
	ctx := context.Background()

	require.NoError(t, c.SetSubtitleMode(ctx, api.SubtitleSmart))
	require.NoError(t, c.StartStreaming(ctx))

	cfg, err := c.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, api.SubtitleNone, cfg.SubtitleMode, "change is not visible before the lag")
	assert.False(t, cfg.IsStreaming)

	assert.Eventually(t, func() bool {
		cfg, err := c.GetConfig(ctx)
		return err == nil && cfg.SubtitleMode == api.SubtitleSmart && cfg.IsStreaming
	}, time.Second, 10*time.Millisecond)
}

func TestRejectsUnknownSubtitleMode(t *testing.T) {
	c, _ := newClient(t)
	err := c.SetSubtitleMode(context.Background(), api.SubtitleMode("Forced"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown subtitle mode")
}
