// Package fetch holds the per-resource load/refetch state machine.
//
// A Controller is driven in three steps so that the rendering layer can
// run the network call wherever it likes (a bubbletea command, a goroutine
// or inline):
//
//	seq := c.Begin()          // enter Loading, issue a sequence number
//	res := c.Run(ctx, seq)    // perform the remote read, no state change
//	c.Commit(res)             // apply the result if the policy allows it
//
// Refetch does all three inline.
package fetch

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rurushi/panel/pkg/metrics"
)

type Phase int

const (
	Idle Phase = iota
	Loading
	Success
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Failed:
		return "error"
	}
	return "unknown"
}

// Policy decides which of several overlapping results is kept.
type Policy int

const (
	// LatestIssued commits a result only if it answers the most recently
	// issued fetch. Older results are dropped.
	LatestIssued Policy = iota
	// LastResolved commits every result, so whichever resolves last wins
	// regardless of issue order.
	LastResolved
)

// ParsePolicy maps the config names "latest" and "last-resolved".
func ParsePolicy(s string) (Policy, bool) {
	switch s {
	case "", "latest":
		return LatestIssued, true
	case "last-resolved":
		return LastResolved, true
	}
	return LatestIssued, false
}

// Loader performs the remote read for one resource.
type Loader[T any] func(ctx context.Context) (T, error)

// State is a snapshot of a controller. Value survives failed refetches;
// HasValue is false until the first success.
type State[T any] struct {
	Phase    Phase
	Value    T
	HasValue bool
	Err      string
	// Pending counts fetches issued but not yet resolved, stale ones
	// included.
	Pending int
}

func (s State[T]) Loading() bool { return s.Phase == Loading }

// Result carries a finished remote read back to its controller.
type Result[T any] struct {
	Resource string
	Seq      uint64
	Value    T
	Err      error
}

type Controller[T any] struct {
	name    string
	load    Loader[T]
	policy  Policy
	log     *slog.Logger
	metrics *metrics.Metrics

	mu     sync.Mutex
	seq    uint64
	state  State[T]
	closed bool
}

type Option func(*options)

type options struct {
	policy  Policy
	log     *slog.Logger
	metrics *metrics.Metrics
}

func WithPolicy(p Policy) Option {
	return func(o *options) { o.policy = p }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// New creates a controller in the Idle phase. Callers start the first
// fetch right away; nothing is loaded until then.
func New[T any](name string, load Loader[T], opts ...Option) *Controller[T] {
	o := options{policy: LatestIssued, log: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Controller[T]{
		name:    name,
		load:    load,
		policy:  o.policy,
		log:     o.log.With("component", "fetch", "resource", name),
		metrics: o.metrics,
	}
}

func (c *Controller[T]) Name() string { return c.name }

// State returns the current snapshot.
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Begin moves the controller to Loading and returns the sequence number
// the eventual result must carry.
func (c *Controller[T]) Begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.state.Pending++
	c.state.Phase = Loading
	return c.seq
}

// Run performs the remote read for seq. It does not touch state and is
// safe to call from any goroutine.
func (c *Controller[T]) Run(ctx context.Context, seq uint64) Result[T] {
	v, err := c.load(ctx)
	return Result[T]{Resource: c.name, Seq: seq, Value: v, Err: err}
}

// Commit applies r and reports whether it changed the snapshot. Results
// for a closed controller, and stale results under LatestIssued, are
// dropped.
func (c *Controller[T]) Commit(r Result[T]) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		c.log.Debug("result after close dropped", "seq", r.Seq)
		c.metrics.ObserveFetch(c.name, "closed")
		return false
	}
	if c.state.Pending > 0 {
		c.state.Pending--
	}
	if c.policy == LatestIssued && r.Seq != c.seq {
		c.log.Debug("stale result dropped", "seq", r.Seq, "latest", c.seq)
		c.metrics.ObserveFetch(c.name, "stale")
		return false
	}

	if r.Err != nil {
		c.state.Err = r.Err.Error()
		c.state.Phase = Failed
		c.metrics.ObserveFetch(c.name, "error")
		c.log.Warn("fetch failed", "seq", r.Seq, "error", r.Err)
	} else {
		c.state.Value = r.Value
		c.state.HasValue = true
		c.state.Err = ""
		c.state.Phase = Success
		c.metrics.ObserveFetch(c.name, "success")
	}
	// Under LastResolved another fetch may still be in flight.
	if c.policy == LastResolved && c.state.Pending > 0 {
		c.state.Phase = Loading
	}
	return true
}

// Refetch runs a full fetch inline and reports whether it was committed.
func (c *Controller[T]) Refetch(ctx context.Context) bool {
	seq := c.Begin()
	return c.Commit(c.Run(ctx, seq))
}

// Close detaches the controller from its consumer. Results that arrive
// afterwards are dropped.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}
