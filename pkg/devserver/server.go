// Package devserver is an in-memory stand-in for the streaming server. It
// speaks the same HTTP contract and is used by the tests and by
// `rurushi devserver` for local work without the real backend.
package devserver

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rurushi/panel/pkg/api"
)

const (
	errIndexOutOfRange = "Index out of range"
	errFolderNotSet    = "Videos folder not set"
)

type Server struct {
	router *gin.Engine
	log    *slog.Logger

	// lag delays the side effects of folder, streaming and subtitle
	// changes, like the real server does.
	lag time.Duration

	mu       sync.Mutex
	folder   *string
	shows    map[string][]api.Episode
	playlist []api.PlaylistItem
	subtitle api.SubtitleMode
	stream   bool
	playing  *string
}

type Option func(*Server)

// WithShows seeds the catalog as if a scan had already run.
func WithShows(shows map[string][]api.Episode) Option {
	return func(s *Server) {
		s.shows = shows
	}
}

// WithSettleLag applies asynchronous state changes after d.
func WithSettleLag(d time.Duration) Option {
	return func(s *Server) { s.lag = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

func New(opts ...Option) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		router:   gin.New(),
		log:      slog.Default(),
		shows:    map[string][]api.Episode{},
		playlist: []api.PlaylistItem{},
		subtitle: api.SubtitleNone,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "devserver")

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	})
}

func (s *Server) setupRoutes() {
	r := s.router.Group("/api")

	r.GET("/config", s.getConfig)
	r.POST("/folder", s.setFolder)
	r.POST("/scan", s.scan)
	r.GET("/files", s.listFiles)
	r.GET("/shows", s.listShows)

	r.POST("/play", s.play)
	r.POST("/stop", s.stop)
	r.POST("/start-streaming", s.startStreaming)
	r.POST("/subtitle-mode", s.setSubtitleMode)

	r.GET("/playlist", s.getPlaylist)
	r.POST("/playlist/add", s.addToPlaylist)
	r.POST("/playlist/move", s.movePlaylistItem)
	r.DELETE("/playlist/:index", s.removeFromPlaylist)
	r.DELETE("/playlist", s.clearPlaylist)
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data, "error": nil})
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "data": nil, "error": msg})
}

// later runs fn under the lock, after the configured lag.
func (s *Server) later(fn func()) {
	apply := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		fn()
	}
	if s.lag <= 0 {
		apply()
		return
	}
	time.AfterFunc(s.lag, apply)
}

func (s *Server) getConfig(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok(c, s.configLocked())
}

func (s *Server) configLocked() api.ConfigResponse {
	videos := 0
	shows := make(map[string][]api.Episode, len(s.shows))
	for name, eps := range s.shows {
		videos += len(eps)
		shows[name] = append([]api.Episode(nil), eps...)
	}
	return api.ConfigResponse{
		VideosFolder:   s.folder,
		VideoCount:     videos,
		ShowCount:      len(s.shows),
		Shows:          shows,
		Playlist:       append([]api.PlaylistItem{}, s.playlist...),
		SubtitleMode:   s.subtitle,
		IsStreaming:    s.stream,
		CurrentPlaying: s.playing,
	}
}

func (s *Server) setFolder(c *gin.Context) {
	var req api.FolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}
	info, err := os.Stat(req.Path)
	if err != nil || !info.IsDir() {
		fail(c, http.StatusBadRequest, fmt.Sprintf("Folder does not exist: %s", req.Path))
		return
	}
	path := req.Path
	s.later(func() { s.folder = &path })
	ok(c, "ok")
}

func (s *Server) scan(c *gin.Context) {
	s.mu.Lock()
	folder := s.folder
	s.mu.Unlock()
	if folder == nil {
		fail(c, http.StatusBadRequest, errFolderNotSet)
		return
	}

	shows, err := scanFolder(*folder)
	if err != nil {
		fail(c, http.StatusInternalServerError, fmt.Sprintf("Scan failed: %v", err))
		return
	}

	videos := 0
	for _, eps := range shows {
		videos += len(eps)
	}

	s.mu.Lock()
	s.shows = shows
	s.mu.Unlock()

	s.log.Info("scan complete", "folder", *folder, "videos", videos, "shows", len(shows))
	ok(c, api.ScanResponse{VideoCount: videos, ShowCount: len(shows), Shows: shows})
}

func (s *Server) listFiles(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	files := []api.FileInfo{}
	for _, show := range sortedKeys(s.shows) {
		for _, ep := range s.shows[show] {
			files = append(files, api.FileInfo{
				DisplayName: fmt.Sprintf("%s / %s", show, ep.Name),
				FilePath:    ep.FilePath,
				ShowName:    show,
			})
		}
	}
	ok(c, api.FileListResponse{Files: files})
}

func (s *Server) listShows(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok(c, api.ShowListResponse{Shows: sortedKeys(s.shows)})
}

func (s *Server) play(c *gin.Context) {
	var req api.PlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.knownFileLocked(req.FilePath) {
		fail(c, http.StatusNotFound, fmt.Sprintf("File not found: %s", req.FilePath))
		return
	}
	path := req.FilePath
	s.playing = &path
	ok(c, "ok")
}

func (s *Server) knownFileLocked(path string) bool {
	for _, eps := range s.shows {
		for _, ep := range eps {
			if ep.FilePath == path {
				return true
			}
		}
	}
	return false
}

func (s *Server) stop(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = nil
	ok(c, "ok")
}

func (s *Server) startStreaming(c *gin.Context) {
	s.later(func() { s.stream = true })
	ok(c, "ok")
}

func (s *Server) setSubtitleMode(c *gin.Context) {
	var req api.SubtitleModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}
	if req.Mode != api.SubtitleNone && req.Mode != api.SubtitleSmart {
		fail(c, http.StatusBadRequest, fmt.Sprintf("Unknown subtitle mode: %s", req.Mode))
		return
	}
	mode := req.Mode
	s.later(func() { s.subtitle = mode })
	ok(c, "ok")
}

func (s *Server) getPlaylist(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok(c, append([]api.PlaylistItem{}, s.playlist...))
}

func (s *Server) addToPlaylist(c *gin.Context) {
	var req api.PlaylistAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}
	if req.EpisodeRange != nil && req.EpisodeRange.Start() > req.EpisodeRange.End() {
		fail(c, http.StatusBadRequest, "Invalid episode range")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.shows[req.ShowName]; !exists {
		fail(c, http.StatusNotFound, fmt.Sprintf("Show not found: %s", req.ShowName))
		return
	}
	s.playlist = append(s.playlist, api.PlaylistItem{
		ShowName:     req.ShowName,
		EpisodeRange: req.EpisodeRange,
		RepeatCount:  req.RepeatCount,
	})
	ok(c, "ok")
}

func (s *Server) removeFromPlaylist(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		fail(c, http.StatusBadRequest, fmt.Sprintf("Invalid index: %s", c.Param("index")))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.playlist) {
		fail(c, http.StatusBadRequest, errIndexOutOfRange)
		return
	}
	s.playlist = append(s.playlist[:index], s.playlist[index+1:]...)
	ok(c, "ok")
}

// movePlaylistItem swaps with the neighbour. Moving past either end is a
// successful no-op; an index outside the list is rejected.
func (s *Server) movePlaylistItem(c *gin.Context) {
	var req api.PlaylistMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if req.Index < 0 || req.Index >= len(s.playlist) {
		fail(c, http.StatusBadRequest, errIndexOutOfRange)
		return
	}

	var other int
	switch req.Direction {
	case api.Up:
		other = req.Index - 1
	case api.Down:
		other = req.Index + 1
	default:
		fail(c, http.StatusBadRequest, fmt.Sprintf("Invalid direction: %s", req.Direction))
		return
	}
	if other >= 0 && other < len(s.playlist) {
		s.playlist[req.Index], s.playlist[other] = s.playlist[other], s.playlist[req.Index]
	}
	ok(c, "ok")
}

func (s *Server) clearPlaylist(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playlist = []api.PlaylistItem{}
	ok(c, "ok")
}
