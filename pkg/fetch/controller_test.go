package fetch

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rurushi/panel/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted returns the queued results in order, one per call.
type scripted struct {
	mu      sync.Mutex
	results []Result[string]
	calls   int
}

func (s *scripted) load(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.results[s.calls]
	s.calls++
	return r.Value, r.Err
}

func TestNewControllerIsIdle(t *testing.T) {
	c := New[string]("config", func(ctx context.Context) (string, error) { return "v", nil })

	st := c.State()
	assert.Equal(t, Idle, st.Phase)
	assert.False(t, st.HasValue)
	assert.False(t, st.Loading())
	assert.Equal(t, "config", c.Name())
}

func TestRefetchSuccessAndFailure(t *testing.T) {
	s := &scripted{results: []Result[string]{
		{Value: "first"},
		{Err: errors.New("server down")},
		{Value: "third"},
	}}
	c := New[string]("files", s.load)

	require.True(t, c.Refetch(context.Background()))
	st := c.State()
	assert.Equal(t, Success, st.Phase)
	assert.Equal(t, "first", st.Value)
	assert.Empty(t, st.Err)

	require.True(t, c.Refetch(context.Background()))
	st = c.State()
	assert.Equal(t, Failed, st.Phase)
	assert.Equal(t, "server down", st.Err)
	// last good value is kept across the failure
	assert.True(t, st.HasValue)
	assert.Equal(t, "first", st.Value)

	require.True(t, c.Refetch(context.Background()))
	st = c.State()
	assert.Equal(t, Success, st.Phase)
	assert.Equal(t, "third", st.Value)
	assert.Empty(t, st.Err, "success clears the error")
}

func TestBeginEntersLoadingFromAnyPhase(t *testing.T) {
	c := New[string]("shows", func(ctx context.Context) (string, error) { return "", errors.New("boom") })

	c.Begin()
	assert.True(t, c.State().Loading())

	c.Refetch(context.Background())
	require.Equal(t, Failed, c.State().Phase)

	c.Begin()
	st := c.State()
	assert.True(t, st.Loading())
	assert.Equal(t, "boom", st.Err, "error stays visible while reloading")
}

// Fetch A is issued before fetch B, but B resolves first.
func TestOutOfOrderLastResolvedWins(t *testing.T) {
	c := New[string]("config", nil, WithPolicy(LastResolved))

	seqA := c.Begin()
	seqB := c.Begin()

	assert.True(t, c.Commit(Result[string]{Seq: seqB, Value: "B"}))
	st := c.State()
	assert.Equal(t, "B", st.Value)
	assert.True(t, st.Loading(), "A is still outstanding")

	assert.True(t, c.Commit(Result[string]{Seq: seqA, Value: "A"}))
	st = c.State()
	assert.Equal(t, "A", st.Value)
	assert.Equal(t, Success, st.Phase)
	assert.Zero(t, st.Pending)
}

func TestOutOfOrderLatestIssuedKeepsNewest(t *testing.T) {
	c := New[string]("config", nil)

	seqA := c.Begin()
	seqB := c.Begin()

	assert.True(t, c.Commit(Result[string]{Seq: seqB, Value: "B"}))
	st := c.State()
	assert.Equal(t, Success, st.Phase)
	assert.Equal(t, "B", st.Value)

	assert.False(t, c.Commit(Result[string]{Seq: seqA, Value: "A"}))
	st = c.State()
	assert.Equal(t, "B", st.Value)
	assert.Equal(t, Success, st.Phase)
	assert.Zero(t, st.Pending)
}

func TestLatestIssuedDropsStaleError(t *testing.T) {
	c := New[string]("files", nil)

	seqA := c.Begin()
	seqB := c.Begin()

	c.Commit(Result[string]{Seq: seqB, Value: "fresh"})
	assert.False(t, c.Commit(Result[string]{Seq: seqA, Err: errors.New("late failure")}))

	st := c.State()
	assert.Empty(t, st.Err)
	assert.Equal(t, "fresh", st.Value)
}

func TestCloseDropsLateResults(t *testing.T) {
	for _, p := range []Policy{LatestIssued, LastResolved} {
		c := New[string]("config", nil, WithPolicy(p))
		seq := c.Begin()
		c.Close()

		assert.False(t, c.Commit(Result[string]{Seq: seq, Value: "late"}))
		assert.False(t, c.Commit(Result[string]{Seq: seq, Err: errors.New("late")}))

		st := c.State()
		assert.False(t, st.HasValue)
		assert.Empty(t, st.Err)
	}
}

func TestRunDoesNotTouchState(t *testing.T) {
	c := New[string]("shows", func(ctx context.Context) (string, error) { return "x", nil })
	seq := c.Begin()

	res := c.Run(context.Background(), seq)
	assert.Equal(t, "shows", res.Resource)
	assert.Equal(t, seq, res.Seq)
	assert.Equal(t, "x", res.Value)
	assert.True(t, c.State().Loading())
}

func TestConcurrentRefetches(t *testing.T) {
	c := New[int]("files", func(ctx context.Context) (int, error) { return 1, nil })

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Refetch(context.Background())
		}()
	}
	wg.Wait()

	st := c.State()
	assert.Equal(t, Success, st.Phase)
	assert.Equal(t, 1, st.Value)
	assert.Zero(t, st.Pending)
}

func TestFetchMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	c := New[string]("config", nil, WithMetrics(m))

	a := c.Begin()
	b := c.Begin()
	c.Commit(Result[string]{Seq: b, Value: "ok"})
	c.Commit(Result[string]{Seq: a, Value: "old"})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchResults.WithLabelValues("config", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchResults.WithLabelValues("config", "stale")))
}

func TestParsePolicy(t *testing.T) {
	p, ok := ParsePolicy("last-resolved")
	assert.True(t, ok)
	assert.Equal(t, LastResolved, p)

	p, ok = ParsePolicy("")
	assert.True(t, ok)
	assert.Equal(t, LatestIssued, p)

	_, ok = ParsePolicy("fastest")
	assert.False(t, ok)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "error", Failed.String())
}
