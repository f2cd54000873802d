package services

import (
	"context"

	"github.com/rurushi/panel/pkg/api"
)

// Playlist commands never reorder anything locally. Each one sends the
// mutation and refetches the configuration, which carries the playlist.

// AddToPlaylist appends show to the tail of the playlist.
func (d *Dispatcher) AddToPlaylist(ctx context.Context, show string, episodeRange *api.EpisodeRange, repeatCount int) Outcome {
	err := d.remote.AddToPlaylist(ctx, show, episodeRange, repeatCount)
	return d.finish("playlist-add", "Added "+show+" to playlist", err, Refetch{Resource: ResourceConfig})
}

// RemoveFromPlaylist removes the item at index. The index is not checked
// here; the server rejects out-of-range positions.
func (d *Dispatcher) RemoveFromPlaylist(ctx context.Context, index int) Outcome {
	err := d.remote.RemoveFromPlaylist(ctx, index)
	return d.finish("playlist-remove", "Removed from playlist", err, Refetch{Resource: ResourceConfig})
}

// MovePlaylistItem swaps the item at index with its neighbour. Views use
// CanMove to disable the boundary moves, but the command itself passes
// any index through unchanged.
func (d *Dispatcher) MovePlaylistItem(ctx context.Context, index int, dir api.Direction) Outcome {
	err := d.remote.MovePlaylistItem(ctx, index, dir)
	return d.finish("playlist-move", "Playlist order updated", err, Refetch{Resource: ResourceConfig})
}

func (d *Dispatcher) ClearPlaylist(ctx context.Context) Outcome {
	err := d.remote.ClearPlaylist(ctx)
	return d.finish("playlist-clear", "Playlist cleared", err, Refetch{Resource: ResourceConfig})
}

// CanMove reports whether moving index in dir stays inside a list of
// length n.
func CanMove(index, n int, dir api.Direction) bool {
	if index < 0 || index >= n {
		return false
	}
	switch dir {
	case api.Up:
		return index > 0
	case api.Down:
		return index < n-1
	}
	return false
}
