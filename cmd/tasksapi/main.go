// Command tasksapi hosts the task handler over plain HTTP for local
// development, standing in for the serverless runtime.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	"github.com/s1natex/tasklist-GO/internal/config"
	"github.com/s1natex/tasklist-GO/internal/logging"
	"github.com/s1natex/tasklist-GO/internal/middleware"
	"github.com/s1natex/tasklist-GO/internal/tasks"
	"github.com/s1natex/tasklist-GO/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New(os.Stderr, "info").Error("config_error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := logging.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger) // for third-party packages that use slog

	if err := run(cfg, logger); err != nil {
		logger.Error("server_error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.TraceExporter, "tasksapi")
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	repo, closeRepo, err := openRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(tasks.NewHandler(repo, logger), cfg, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_listen", slog.String("addr", cfg.Addr), slog.String("store", cfg.Store))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("server_shutdown")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// newRouter wires the health endpoint, task routes, and middleware stack
func newRouter(h *tasks.Handler, cfg config.Config, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// RequestID first so the logger and tracer can pick it up
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(15 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID", "Trace-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Use(middleware.TracingMiddleware)
	r.Use(middleware.MetricsMiddleware)
	r.Use(middleware.RequestLogger(logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", middleware.MetricsHandler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitMiddleware(middleware.NewLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)))
		tasks.RegisterRoutes(r, h)
	})

	return r
}

func openRepository(ctx context.Context, cfg config.Config) (tasks.Repository, func(), error) {
	switch cfg.Store {
	case config.StoreSQLite:
		dsn, err := tasks.SQLiteFileDSN(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		repo, err := tasks.NewSQLiteRepo(dsn)
		if err != nil {
			return nil, nil, err
		}
		if err := repo.ApplyMigrations(ctx); err != nil {
			_ = repo.Close()
			return nil, nil, fmt.Errorf("sqlite migrations: %w", err)
		}
		return repo, func() { _ = repo.Close() }, nil

	case config.StoreRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		repo := tasks.NewRedisRepo(rdb, cfg.RedisPrefix)
		return repo, func() { _ = repo.Close() }, nil

	case config.StoreMongo:
		repo, err := tasks.NewMongoRepo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { _ = repo.Close(context.Background()) }, nil

	default:
		return tasks.NewInMemoryRepo(), func() {}, nil
	}
}
