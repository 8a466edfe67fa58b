package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tap30/beacon-go/internal/collector"
)

func newCollectorCmd(opts *rootOptions) *cobra.Command {
	var addr string
	var validate bool

	cmd := &cobra.Command{
		Use:   "collector",
		Short: "Run a local collector that decodes incoming beacons",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				opts.cfg.CollectorAddr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			c := collector.New(opts.logger, collector.Options{Validate: validate})
			server := &http.Server{
				Addr:              opts.cfg.CollectorAddr,
				Handler:           c.Routes(),
				ReadHeaderTimeout: 5 * time.Second,
			}
			return serve(ctx, server, opts)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&validate, "validate", true, "validate received parameters")
	return cmd
}

func serve(ctx context.Context, server *http.Server, opts *rootOptions) error {
	errCh := make(chan error, 1)
	go func() {
		opts.logger.Info().Str("addr", server.Addr).Msg("collector listening on /api/v1/{apiKey}/{messageType}/")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("collector failed: %w", err)
	case <-ctx.Done():
	}

	opts.logger.Info().Msg("shutting down collector")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
