package services

import (
	"context"
	"time"

	"github.com/rurushi/panel/pkg/api"
	"github.com/rurushi/panel/pkg/fetch"
)

const (
	DefaultSettleDelay       = 100 * time.Millisecond
	DefaultSettleMaxAttempts = 20
)

// ConfigLoad performs one configuration read.
type ConfigLoad func(ctx context.Context) fetch.Result[api.ConfigResponse]

// A Settler waits for the server to reflect a mutation whose side effects
// land asynchronously, and returns the configuration read to commit.
// until may be nil when the command has no observable end state.
type Settler interface {
	Settle(ctx context.Context, load ConfigLoad, until func(api.ConfigResponse) bool) fetch.Result[api.ConfigResponse]
}

// DelaySettler sleeps a fixed time before a single read. The delay is a
// heuristic; the server may still be catching up after it.
type DelaySettler struct {
	Delay time.Duration
}

func (s DelaySettler) Settle(ctx context.Context, load ConfigLoad, _ func(api.ConfigResponse) bool) fetch.Result[api.ConfigResponse] {
	if err := sleep(ctx, s.Delay); err != nil {
		return fetch.Result[api.ConfigResponse]{Err: err}
	}
	return load(ctx)
}

// PollSettler reads the configuration every Interval until until holds,
// a read fails, or MaxAttempts reads were made. The last read is returned.
type PollSettler struct {
	Interval    time.Duration
	MaxAttempts int
}

func (s PollSettler) Settle(ctx context.Context, load ConfigLoad, until func(api.ConfigResponse) bool) fetch.Result[api.ConfigResponse] {
	attempts := s.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	var res fetch.Result[api.ConfigResponse]
	for i := 0; i < attempts; i++ {
		if err := sleep(ctx, s.Interval); err != nil {
			return fetch.Result[api.ConfigResponse]{Err: err}
		}
		res = load(ctx)
		if res.Err != nil || until == nil || until(res.Value) {
			return res
		}
	}
	return res
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
