package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/thanhvo/shiftdesk/internal/api"
	"github.com/thanhvo/shiftdesk/internal/auth"
	"github.com/thanhvo/shiftdesk/internal/config"
	"github.com/thanhvo/shiftdesk/internal/metrics"
	"github.com/thanhvo/shiftdesk/internal/sheets"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the shiftdesk server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	m := metrics.New()

	client := sheets.New(cfg.Backend.URL, cfg.Backend.Timeout, cfg.Backend.Retries)
	client.SetMetrics(m)

	sessions := auth.NewSessionStore(cfg.Auth.SessionTTL)
	m.RegisterSessionsCollector(sessions.Active)

	router := api.NewRouter(api.RouterDeps{
		Backend:        client,
		Sessions:       sessions,
		Metrics:        m,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Expired sessions pile up between logins; sweep them periodically.
	pruneCtx, prunerCancel := context.WithCancel(context.Background())
	defer prunerCancel()
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-pruneCtx.Done():
				return
			case <-ticker.C:
				if n := sessions.PruneExpired(); n > 0 {
					slog.Info("pruned expired sessions", "count", n)
				}
			}
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", cfg.Addr(), "backend", cfg.Backend.URL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-sigCh
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return srv.Shutdown(shutdownCtx)
}
