package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/algoquest/internal/api"
	"github.com/abhisek/algoquest/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve step histories and progress over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		env, err := openEnvironment(cmd, nil)
		if err != nil {
			return err
		}
		defer env.Close()

		shutdownTracing, err := telemetry.Setup(ctx, env.cfg.OTLPEndpoint)
		if err != nil {
			env.logger.Warn("tracing disabled", "error", err)
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracing(sctx); err != nil {
				env.logger.Warn("flush traces", "error", err)
			}
		}()

		c, closeCache, err := historyCache(ctx, env.cfg)
		if err != nil {
			return err
		}
		defer closeCache()

		addr := env.cfg.HTTPAddr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}

		srv := &http.Server{
			Addr: addr,
			Handler: api.NewServer(
				api.WithCache(c),
				api.WithLearner(env.learner),
				api.WithLogger(env.logger),
			).Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			env.logger.Info("http server listening", "addr", addr, "redis", env.cfg.RedisURL != "")
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		env.logger.Info("shutting down http server")
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default ALGOQUEST_HTTP_ADDR or 127.0.0.1:8080)")
}
