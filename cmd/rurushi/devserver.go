package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rurushi/panel/pkg/devserver"
	"github.com/spf13/cobra"
)

var devserverCmd = &cobra.Command{
	Use:   "devserver",
	Short: "Run an in-memory stand-in for the streaming server",
	Long:  "Serve the rurushi HTTP API from memory, scanning a local folder, for trying the panel without the real server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		lag, _ := cmd.Flags().GetDuration("lag")

		srv := devserver.New(devserver.WithSettleLag(lag), devserver.WithLogger(rt.log))
		httpServer := &http.Server{
			Addr:              addr,
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			rt.log.Info("starting devserver", "addr", addr, "lag", lag)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()
		fmt.Fprintf(cmd.OutOrStdout(), "🛰  devserver listening on %s (Ctrl+C to stop)\n", addr)

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("devserver: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		rt.log.Info("shutting down devserver")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	},
}

func init() {
	devserverCmd.Flags().String("addr", ":8080", "listen address")
	devserverCmd.Flags().Duration("lag", 50*time.Millisecond, "delay before folder, streaming and subtitle changes take effect")

	rootCmd.AddCommand(devserverCmd)
}
