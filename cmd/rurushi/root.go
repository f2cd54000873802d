package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rurushi/panel/pkg/api"
	"github.com/rurushi/panel/pkg/app"
	"github.com/rurushi/panel/pkg/config"
	"github.com/rurushi/panel/pkg/logging"
	"github.com/rurushi/panel/pkg/metrics"
	"github.com/rurushi/panel/pkg/services"
	"github.com/spf13/cobra"
)

var (
	configPath  string
	apiURL      string
	logLevel    string
	metricsAddr string
)

// rt is built by the root's PersistentPreRunE and released by Execute.
var rt *runtime

type runtime struct {
	cfg        *config.Config
	log        *slog.Logger
	closeLog   func() error
	registry   *prometheus.Registry
	metrics    *metrics.Metrics
	metricsSrv *metrics.Server
	client     *api.Client
	dispatcher *services.Dispatcher
}

var rootCmd = &cobra.Command{
	Use:   "rurushi",
	Short: "Control panel for the rurushi HLS streaming server",
	Long:  "Pick the videos folder, scan, play, stream and edit the playlist of a rurushi server, from a TUI or one command at a time",
	Args:  cobra.NoArgs,
	// Command failures are reported through the status line, not usage.
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The TUI owns the terminal, so it only logs to a file.
		var w io.Writer = os.Stderr
		if cmd == cmd.Root() {
			w = nil
		}
		r, err := newRuntime(cmd, w)
		if err != nil {
			return err
		}
		rt = r
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Launch TUI by default
		a := app.NewApp(rt.dispatcher, rt.cfg.UI.FileLimit)
		return a.Run(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "server base address (overrides api.base_url)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides log.level)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (overrides metrics.addr)")
}

func newRuntime(cmd *cobra.Command, w io.Writer) (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.API.BaseURL = apiURL
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("metrics-addr") {
		cfg.Metrics.Addr = metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, closeLog, err := logging.Setup(cfg.Log, w)
	if err != nil {
		return nil, err
	}

	r := &runtime{
		cfg:      cfg,
		log:      logger,
		closeLog: closeLog,
		registry: metrics.NewRegistry(),
	}
	r.metrics = metrics.New(r.registry)
	if cfg.Metrics.Addr != "" {
		r.metricsSrv = metrics.NewServer(cfg.Metrics.Addr, r.registry)
		if _, err := r.metricsSrv.Listen(); err != nil {
			closeLog()
			return nil, fmt.Errorf("failed to start metrics server: %w", err)
		}
	}

	r.client = api.NewClient(cfg.API.BaseURL, api.WithLogger(logger), api.WithMetrics(r.metrics))
	r.dispatcher = services.NewDispatcher(r.client, services.Options{
		Settler: cfg.Settler(),
		Policy:  cfg.Policy(),
		Logger:  logger,
		Metrics: r.metrics,
	})
	logger.Debug("runtime ready", "api", cfg.API.BaseURL, "settle", cfg.Settle.Mode, "policy", cfg.Fetch.Policy)
	return r, nil
}

func (r *runtime) close() {
	if r.metricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := r.metricsSrv.Shutdown(ctx); err != nil {
			r.log.Warn("metrics server shutdown", "error", err)
		}
	}
	r.closeLog()
}

func Execute() {
	err := rootCmd.Execute()
	if rt != nil {
		rt.close()
	}
	if err != nil {
		os.Exit(1)
	}
}
