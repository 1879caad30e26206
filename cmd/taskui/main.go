// Command taskui serves the task list page. The tasks endpoint it talks to
// is tasklist.Endpoint, set at build time.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/s1natex/tasklist-GO/internal/config"
	"github.com/s1natex/tasklist-GO/internal/logging"
	"github.com/s1natex/tasklist-GO/internal/middleware"
	"github.com/s1natex/tasklist-GO/internal/tasklist"
	"github.com/s1natex/tasklist-GO/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New(os.Stderr, "info").Error("config_error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := logging.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.TraceExporter, "taskui")
	if err != nil {
		logger.Error("telemetry_error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	component := tasklist.NewComponent(tasklist.NewClient(tasklist.Endpoint), logger)
	srv := &http.Server{
		Addr:              cfg.UIAddr,
		Handler:           newRouter(component, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("server_listen", slog.String("addr", cfg.UIAddr), slog.String("endpoint", tasklist.Endpoint))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server_error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newRouter(c *tasklist.Component, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.TracingMiddleware)
	r.Use(middleware.MetricsMiddleware)
	r.Use(middleware.RequestLogger(logger))

	r.Handle("/metrics", middleware.MetricsHandler())
	tasklist.RegisterRoutes(r, c, logger)
	return r
}
