package api

import (
	"context"
	"fmt"
	"net/http"
)

// Config endpoints

func (c *Client) GetConfig(ctx context.Context) (ConfigResponse, error) {
	return request[ConfigResponse](ctx, c, call{method: http.MethodGet, path: "/api/config"})
}

func (c *Client) SetFolder(ctx context.Context, path string) error {
	_, err := request[ack](ctx, c, call{
		method: http.MethodPost,
		path:   "/api/folder",
		body:   FolderRequest{Path: path},
	})
	return err
}

func (c *Client) ScanVideos(ctx context.Context) (ScanResponse, error) {
	return request[ScanResponse](ctx, c, call{method: http.MethodPost, path: "/api/scan"})
}

// File endpoints

func (c *Client) GetFiles(ctx context.Context) (FileListResponse, error) {
	return request[FileListResponse](ctx, c, call{method: http.MethodGet, path: "/api/files"})
}

func (c *Client) GetShows(ctx context.Context) (ShowListResponse, error) {
	return request[ShowListResponse](ctx, c, call{method: http.MethodGet, path: "/api/shows"})
}

// Playback endpoints

func (c *Client) PlayVideo(ctx context.Context, filePath string) error {
	_, err := request[ack](ctx, c, call{
		method: http.MethodPost,
		path:   "/api/play",
		body:   PlayRequest{FilePath: filePath},
	})
	return err
}

func (c *Client) StopPlayback(ctx context.Context) error {
	_, err := request[ack](ctx, c, call{method: http.MethodPost, path: "/api/stop"})
	return err
}

func (c *Client) StartStreaming(ctx context.Context) error {
	_, err := request[ack](ctx, c, call{method: http.MethodPost, path: "/api/start-streaming"})
	return err
}

func (c *Client) SetSubtitleMode(ctx context.Context, mode SubtitleMode) error {
	_, err := request[ack](ctx, c, call{
		method: http.MethodPost,
		path:   "/api/subtitle-mode",
		body:   SubtitleModeRequest{Mode: mode},
	})
	return err
}

// Playlist endpoints

func (c *Client) GetPlaylist(ctx context.Context) ([]PlaylistItem, error) {
	return request[[]PlaylistItem](ctx, c, call{method: http.MethodGet, path: "/api/playlist"})
}

// AddToPlaylist appends a show to the tail of the playlist. A nil range
// means every episode; repeatCount 0 leaves repetition to the server.
func (c *Client) AddToPlaylist(ctx context.Context, showName string, episodeRange *EpisodeRange, repeatCount int) error {
	_, err := request[ack](ctx, c, call{
		method: http.MethodPost,
		path:   "/api/playlist/add",
		body: PlaylistAddRequest{
			ShowName:     showName,
			EpisodeRange: episodeRange,
			RepeatCount:  repeatCount,
		},
	})
	return err
}

// RemoveFromPlaylist deletes the item at index. Bounds are checked by the
// server.
func (c *Client) RemoveFromPlaylist(ctx context.Context, index int) error {
	_, err := request[ack](ctx, c, call{
		method: http.MethodDelete,
		path:   fmt.Sprintf("/api/playlist/%d", index),
		route:  "/api/playlist/{index}",
	})
	return err
}

// MovePlaylistItem swaps the item at index with its neighbour in dir.
// No clamping is done here.
func (c *Client) MovePlaylistItem(ctx context.Context, index int, dir Direction) error {
	_, err := request[ack](ctx, c, call{
		method: http.MethodPost,
		path:   "/api/playlist/move",
		body:   PlaylistMoveRequest{Index: index, Direction: dir},
	})
	return err
}

func (c *Client) ClearPlaylist(ctx context.Context) error {
	_, err := request[ack](ctx, c, call{method: http.MethodDelete, path: "/api/playlist"})
	return err
}
