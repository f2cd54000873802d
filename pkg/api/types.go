package api

import (
	"fmt"
	"strings"
)

type Episode struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	FilePath      string `json:"file_path"`
	ShowName      string `json:"show_name"`
	EpisodeNumber *int   `json:"episode_number"` // nil when the filename has no number
}

// EpisodeRange is an inclusive [start, end] pair of episode numbers.
type EpisodeRange [2]int

func (r EpisodeRange) Start() int { return r[0] }
func (r EpisodeRange) End() int   { return r[1] }

func (r EpisodeRange) String() string {
	return fmt.Sprintf("%d-%d", r[0], r[1])
}

// ParseEpisodeRange reads "a-b" as an inclusive range.
func ParseEpisodeRange(s string) (EpisodeRange, error) {
	var r EpisodeRange
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return r, fmt.Errorf("invalid episode range %q, expected start-end", s)
	}
	if _, err := fmt.Sscanf(parts[0]+" "+parts[1], "%d %d", &r[0], &r[1]); err != nil {
		return r, fmt.Errorf("invalid episode range %q: %w", s, err)
	}
	if r[0] > r[1] {
		return r, fmt.Errorf("invalid episode range %q: start after end", s)
	}
	return r, nil
}

type PlaylistItem struct {
	ShowName     string        `json:"show_name"`
	EpisodeRange *EpisodeRange `json:"episode_range"` // nil means every episode of the show
	RepeatCount  int           `json:"repeat_count"`
}

// Label is the human readable form used by the playlist views.
func (p PlaylistItem) Label() string {
	if p.EpisodeRange == nil {
		return p.ShowName
	}
	return fmt.Sprintf("%s - Episodes %d-%d", p.ShowName, p.EpisodeRange.Start(), p.EpisodeRange.End())
}

type SubtitleMode string

const (
	SubtitleNone  SubtitleMode = "None"
	SubtitleSmart SubtitleMode = "Smart"
)

// ParseSubtitleMode accepts the mode names case-insensitively.
func ParseSubtitleMode(s string) (SubtitleMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return SubtitleNone, nil
	case "smart":
		return SubtitleSmart, nil
	}
	return "", fmt.Errorf("unknown subtitle mode %q (want None or Smart)", s)
}

// Direction is the neighbour a playlist item is swapped with.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case Up:
		return Up, nil
	case Down:
		return Down, nil
	}
	return "", fmt.Errorf("unknown direction %q (want up or down)", s)
}

type ConfigResponse struct {
	VideosFolder   *string              `json:"videos_folder"`
	VideoCount     int                  `json:"video_count"`
	ShowCount      int                  `json:"show_count"`
	Shows          map[string][]Episode `json:"shows"`
	Playlist       []PlaylistItem       `json:"playlist"`
	SubtitleMode   SubtitleMode         `json:"subtitle_mode"`
	IsStreaming    bool                 `json:"is_streaming"`
	CurrentPlaying *string              `json:"current_playing"` // nil while the test card is shown
}

// Folder returns the configured videos folder or "".
func (c *ConfigResponse) Folder() string {
	if c == nil || c.VideosFolder == nil {
		return ""
	}
	return *c.VideosFolder
}

// NowPlaying returns the playing file path or "" when idle.
func (c *ConfigResponse) NowPlaying() string {
	if c == nil || c.CurrentPlaying == nil {
		return ""
	}
	return *c.CurrentPlaying
}

type ScanResponse struct {
	VideoCount int                  `json:"video_count"`
	ShowCount  int                  `json:"show_count"`
	Shows      map[string][]Episode `json:"shows"`
}

// CountsMatch reports whether the counts agree with the show mapping.
func (s *ScanResponse) CountsMatch() bool {
	episodes := 0
	for _, eps := range s.Shows {
		episodes += len(eps)
	}
	return s.VideoCount == episodes && s.ShowCount == len(s.Shows)
}

type FileInfo struct {
	DisplayName string `json:"display_name"`
	FilePath    string `json:"file_path"`
	ShowName    string `json:"show_name"`
}

type FileListResponse struct {
	Files []FileInfo `json:"files"`
}

type ShowListResponse struct {
	Shows []string `json:"shows"`
}

// Envelope is the wrapper every server reply uses.
type Envelope[T any] struct {
	Success bool    `json:"success"`
	Data    *T      `json:"data"`
	Error   *string `json:"error"`
}

// Request bodies.

type FolderRequest struct {
	Path string `json:"path"`
}

type PlayRequest struct {
	FilePath string `json:"file_path"`
}

type SubtitleModeRequest struct {
	Mode SubtitleMode `json:"mode"`
}

type PlaylistAddRequest struct {
	ShowName     string        `json:"show_name"`
	EpisodeRange *EpisodeRange `json:"episode_range"`
	RepeatCount  int           `json:"repeat_count"`
}

type PlaylistMoveRequest struct {
	Index     int       `json:"index"`
	Direction Direction `json:"direction"`
}
