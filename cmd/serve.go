package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/nunajera/mistral-chat/internal/api"
	"github.com/nunajera/mistral-chat/internal/session"
)

var debugGin bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP chat API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !debugGin {
			gin.SetMode(gin.ReleaseMode)
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		gw, err := newGateway(cfg, offline, reg)
		if err != nil {
			return err
		}
		limit, err := cfg.UploadLimit()
		if err != nil {
			return err
		}
		ttl, err := cfg.TTL()
		if err != nil {
			return err
		}

		registry := session.NewRegistry(gw, cfg.Mistral.DefaultModel)
		router := api.NewRouter(api.Options{
			Registry:    registry,
			Provider:    gw.Provider(),
			UploadLimit: limit,
			CORSOrigin:  cfg.Server.CORSOrigin,
			Metrics:     reg,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		go sweepSessions(ctx, registry, ttl)

		srv := &http.Server{
			Addr:              cfg.ListenAddr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}
		errCh := make(chan error, 1)
		go func() {
			slog.Info("listening", "addr", srv.Addr, "provider", gw.Provider(), "default_model", cfg.Mistral.DefaultModel)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		slog.Info("shutting_down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

// sweepSessions ends idle sessions until ctx is done.
func sweepSessions(ctx context.Context, r *session.Registry, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := r.Sweep(ttl); n > 0 {
				slog.Info("sessions_expired", "count", n, "live", r.Len())
			}
		}
	}
}

func init() {
	serveCmd.Flags().BoolVar(&offline, "offline", false, "answer with the mock provider instead of calling Mistral")
	serveCmd.Flags().BoolVar(&debugGin, "debug", false, "run gin in debug mode")
	rootCmd.AddCommand(serveCmd)
}
