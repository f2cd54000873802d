package metrics

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerExposesPanelMetrics(t *testing.T) {
	reg := NewRegistry()
	m := New(reg)
	m.ObserveCommand("scan", "success")
	m.ObserveFetch("config", "stale")
	m.ObserveRequest("/api/config", http.MethodGet, "success", 20*time.Millisecond)

	srv := NewServer("127.0.0.1:0", reg)
	addr, err := srv.Listen()
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	resp, err := http.Get("http://" + addr + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, `rurushi_dispatcher_commands_total{command="scan",outcome="success"} 1`)
	assert.Contains(t, text, `rurushi_fetch_results_total{resource="config",result="stale"} 1`)
	assert.Contains(t, text, `rurushi_api_request_duration_seconds_count{endpoint="/api/config"} 1`)
	assert.Contains(t, text, "go_goroutines")
}

func TestNilMetricsRecordNothing(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveCommand("scan", "success")
		m.ObserveFetch("config", "success")
		m.ObserveRequest("/api/config", http.MethodGet, "success", time.Millisecond)
	})
}
