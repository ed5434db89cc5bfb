package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"reconnect/migrations"
	"reconnect/pkg/cache"
	"reconnect/pkg/config"
	"reconnect/pkg/database"
	"reconnect/pkg/logger"
	"reconnect/pkg/metrics"
	"reconnect/pkg/ratelimit"
	"reconnect/pkg/telemetry"

	"reconnect/services/planner-svc/internal/handlers"
	"reconnect/services/planner-svc/internal/repository"
	"reconnect/services/planner-svc/internal/service"
)

func main() {
	if err := run(); err != nil {
		logger.Fatal("service failed", "error", err)
	}
}

func run() error {
	cfg, err := config.NewLoader().Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.InitWithConfig(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})
	logger.Log.Info("starting planner service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.Tracing.ServiceName,
		Version:     cfg.App.Version,
		Environment: cfg.App.Environment,
		SampleRate:  cfg.Tracing.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("failed to init tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Log.Warn("tracer shutdown failed", "error", err)
		}
	}()

	m := metrics.InitMetrics(cfg.Metrics.Namespace, cfg.Metrics.Subsystem)
	m.SetServiceInfo(cfg.App.Version, cfg.App.Environment)
	prometheus.MustRegister(metrics.NewRuntimeCollector(cfg.Metrics.Namespace, cfg.Metrics.Subsystem))

	var repo repository.Repository
	if cfg.Database.Enabled {
		db, err := database.NewPostgresDB(ctx, &cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		if err := database.RunMigrations(ctx, db.Pool(), &cfg.Database, migrations.PostgresMigrations, "postgres"); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		repo = repository.NewPostgresRepository(db)
	} else {
		logger.Log.Info("plan history disabled, running without a database")
	}

	var resultCache cache.Cache
	if cfg.Cache.Enabled {
		resultCache, err = cache.New(cache.FromConfig(&cfg.Cache))
		if err != nil {
			return fmt.Errorf("failed to init cache: %w", err)
		}
		defer resultCache.Close()
	}

	svc, err := service.New(cfg.Planning, resultCache, repo)
	if err != nil {
		return fmt.Errorf("failed to init service: %w", err)
	}

	mux := handlers.New(svc).Routes()
	if cfg.Metrics.Enabled {
		mux.Handle("GET "+cfg.Metrics.Path, metrics.Handler())
	}

	var handler http.Handler = mux
	if cfg.Limits.Enabled {
		limiter, err := ratelimit.New(ratelimit.FromConfig(&cfg.Limits))
		if err != nil {
			return fmt.Errorf("failed to init rate limiter: %w", err)
		}
		defer limiter.Close()
		handler = ratelimit.HTTPMiddleware(limiter, "/healthz", cfg.Metrics.Path)(handler)
	}
	handler = metrics.HTTPMiddleware(m, handler)
	handler = telemetry.HTTPMiddleware(handler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Log.Info("stopped")
	return nil
}
