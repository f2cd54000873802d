package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/rurushi/panel/pkg/api"
	"github.com/rurushi/panel/pkg/fetch"
	"github.com/rurushi/panel/pkg/metrics"
)

// Remote is the subset of the API client the dispatcher drives.
type Remote interface {
	GetConfig(ctx context.Context) (api.ConfigResponse, error)
	GetFiles(ctx context.Context) (api.FileListResponse, error)
	GetShows(ctx context.Context) (api.ShowListResponse, error)

	SetFolder(ctx context.Context, path string) error
	ScanVideos(ctx context.Context) (api.ScanResponse, error)
	PlayVideo(ctx context.Context, filePath string) error
	StopPlayback(ctx context.Context) error
	StartStreaming(ctx context.Context) error
	SetSubtitleMode(ctx context.Context, mode api.SubtitleMode) error

	AddToPlaylist(ctx context.Context, showName string, episodeRange *api.EpisodeRange, repeatCount int) error
	RemoveFromPlaylist(ctx context.Context, index int) error
	MovePlaylistItem(ctx context.Context, index int, dir api.Direction) error
	ClearPlaylist(ctx context.Context) error
}

type Resource string

const (
	ResourceConfig Resource = "config"
	ResourceFiles  Resource = "files"
	ResourceShows  Resource = "shows"
)

const StatusReady = "Ready"

// ErrFolderRequired is reported when set-folder is given a blank path.
var ErrFolderRequired = errors.New("Please enter a folder path")

// Refetch names a resource to reload after a command. Settle asks for
// the configuration read to wait for the server; Until is the state the
// poll settler waits for.
type Refetch struct {
	Resource Resource
	Settle   bool
	Until    func(api.ConfigResponse) bool
}

// Outcome is the result of one command. Refetch is empty on failure.
type Outcome struct {
	Command string
	Status  string
	Err     error
	Refetch []Refetch
}

func (o Outcome) OK() bool { return o.Err == nil }

// Job is a started refetch. Run performs the read off the event loop and
// returns the function that commits it.
type Job struct {
	Resource Resource
	run      func(ctx context.Context) func() bool
}

func (j Job) Run(ctx context.Context) func() bool { return j.run(ctx) }

// Dispatcher turns operator actions into one remote mutation, a status
// line and the refetches the mutation calls for.
type Dispatcher struct {
	remote  Remote
	settle  Settler
	log     *slog.Logger
	metrics *metrics.Metrics

	Config *fetch.Controller[api.ConfigResponse]
	Files  *fetch.Controller[api.FileListResponse]
	Shows  *fetch.Controller[api.ShowListResponse]

	mu       sync.Mutex
	status   string
	scanning bool
}

type Options struct {
	Settler Settler
	Policy  fetch.Policy
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

func NewDispatcher(remote Remote, opts Options) *Dispatcher {
	if opts.Settler == nil {
		opts.Settler = DelaySettler{Delay: DefaultSettleDelay}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	fopts := []fetch.Option{
		fetch.WithPolicy(opts.Policy),
		fetch.WithLogger(opts.Logger),
		fetch.WithMetrics(opts.Metrics),
	}
	return &Dispatcher{
		remote:  remote,
		settle:  opts.Settler,
		log:     opts.Logger.With("component", "dispatcher"),
		metrics: opts.Metrics,
		Config:  fetch.New[api.ConfigResponse](string(ResourceConfig), remote.GetConfig, fopts...),
		Files:   fetch.New[api.FileListResponse](string(ResourceFiles), remote.GetFiles, fopts...),
		Shows:   fetch.New[api.ShowListResponse](string(ResourceShows), remote.GetShows, fopts...),
		status:  StatusReady,
	}
}

// Status is the last status line.
func (d *Dispatcher) Status() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

func (d *Dispatcher) setStatus(s string) {
	d.mu.Lock()
	d.status = s
	d.mu.Unlock()
}

// Mount starts the initial load of every resource.
func (d *Dispatcher) Mount() []Job {
	return []Job{
		d.Start(Refetch{Resource: ResourceConfig}),
		d.Start(Refetch{Resource: ResourceFiles}),
		d.Start(Refetch{Resource: ResourceShows}),
	}
}

// Close detaches every controller; in-flight results are dropped.
func (d *Dispatcher) Close() {
	d.Config.Close()
	d.Files.Close()
	d.Shows.Close()
}

// Start puts the resource's controller into Loading and returns the job
// that completes the refetch.
func (d *Dispatcher) Start(r Refetch) Job {
	switch r.Resource {
	case ResourceFiles:
		seq := d.Files.Begin()
		return Job{Resource: r.Resource, run: func(ctx context.Context) func() bool {
			res := d.Files.Run(ctx, seq)
			return func() bool { return d.Files.Commit(res) }
		}}
	case ResourceShows:
		seq := d.Shows.Begin()
		return Job{Resource: r.Resource, run: func(ctx context.Context) func() bool {
			res := d.Shows.Run(ctx, seq)
			return func() bool { return d.Shows.Commit(res) }
		}}
	default:
		seq := d.Config.Begin()
		return Job{Resource: ResourceConfig, run: func(ctx context.Context) func() bool {
			res := d.loadConfig(ctx, seq, r)
			return func() bool { return d.Config.Commit(res) }
		}}
	}
}

func (d *Dispatcher) loadConfig(ctx context.Context, seq uint64, r Refetch) fetch.Result[api.ConfigResponse] {
	load := func(ctx context.Context) fetch.Result[api.ConfigResponse] {
		return d.Config.Run(ctx, seq)
	}
	if !r.Settle {
		return load(ctx)
	}
	res := d.settle.Settle(ctx, load, r.Until)
	res.Resource = string(ResourceConfig)
	res.Seq = seq
	return res
}

// Resync performs the outcome's refetches inline, in order.
func (d *Dispatcher) Resync(ctx context.Context, o Outcome) {
	for _, r := range o.Refetch {
		commit := d.Start(r).Run(ctx)
		commit()
	}
}

// Do runs a command and its refetches inline and returns the outcome.
func (d *Dispatcher) Do(ctx context.Context, cmd func(context.Context) Outcome) Outcome {
	o := cmd(ctx)
	d.Resync(ctx, o)
	return o
}

func (d *Dispatcher) finish(command, success string, err error, refetch ...Refetch) Outcome {
	if err != nil {
		status := "Error: " + err.Error()
		d.setStatus(status)
		d.metrics.ObserveCommand(command, "error")
		d.log.Warn("command failed", "command", command, "error", err)
		return Outcome{Command: command, Status: status, Err: err}
	}
	d.setStatus(success)
	d.metrics.ObserveCommand(command, "success")
	d.log.Info("command succeeded", "command", command, "status", success)
	return Outcome{Command: command, Status: success, Refetch: refetch}
}

func (d *Dispatcher) SetFolder(ctx context.Context, path string) Outcome {
	if strings.TrimSpace(path) == "" {
		d.setStatus(ErrFolderRequired.Error())
		return Outcome{Command: "set-folder", Status: ErrFolderRequired.Error(), Err: ErrFolderRequired}
	}
	err := d.remote.SetFolder(ctx, path)
	return d.finish("set-folder", "Folder saved successfully", err, Refetch{
		Resource: ResourceConfig,
		Settle:   true,
		Until:    func(c api.ConfigResponse) bool { return c.Folder() == path },
	})
}

// BeginScan marks a scan as running. It returns false if one already is.
func (d *Dispatcher) BeginScan() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.scanning {
		return false
	}
	d.scanning = true
	d.status = "Scanning videos..."
	return true
}

func (d *Dispatcher) Scanning() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.scanning
}

func (d *Dispatcher) ScanVideos(ctx context.Context) Outcome {
	d.BeginScan()
	defer func() {
		d.mu.Lock()
		d.scanning = false
		d.mu.Unlock()
	}()

	res, err := d.remote.ScanVideos(ctx)
	if err == nil && !res.CountsMatch() {
		d.log.Warn("scan counts disagree with show mapping",
			"video_count", res.VideoCount,
			"show_count", res.ShowCount,
			"shows", len(res.Shows),
		)
	}
	return d.finish("scan", fmt.Sprintf("Found %d videos in %d shows", res.VideoCount, res.ShowCount), err,
		Refetch{Resource: ResourceConfig},
		Refetch{Resource: ResourceFiles},
		Refetch{Resource: ResourceShows},
	)
}

func (d *Dispatcher) PlayFile(ctx context.Context, filePath string) Outcome {
	err := d.remote.PlayVideo(ctx, filePath)
	return d.finish("play", "Playing: "+filePath, err, Refetch{Resource: ResourceConfig})
}

func (d *Dispatcher) StopPlayback(ctx context.Context) Outcome {
	err := d.remote.StopPlayback(ctx)
	return d.finish("stop", "Playback stopped - Test card active", err, Refetch{Resource: ResourceConfig})
}

func (d *Dispatcher) StartStreaming(ctx context.Context) Outcome {
	err := d.remote.StartStreaming(ctx)
	return d.finish("start-streaming", "Streaming started", err, Refetch{
		Resource: ResourceConfig,
		Settle:   true,
		Until:    func(c api.ConfigResponse) bool { return c.IsStreaming },
	})
}

func (d *Dispatcher) SetSubtitleMode(ctx context.Context, mode api.SubtitleMode) Outcome {
	err := d.remote.SetSubtitleMode(ctx, mode)
	return d.finish("subtitle-mode", fmt.Sprintf("Subtitle mode set to %s", mode), err, Refetch{
		Resource: ResourceConfig,
		Settle:   true,
		Until:    func(c api.ConfigResponse) bool { return c.SubtitleMode == mode },
	})
}
