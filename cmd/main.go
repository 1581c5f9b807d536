package main

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/patient-window-scheduler/internal/config"
	"github.com/KasumiMercury/patient-window-scheduler/internal/handler"
	"github.com/KasumiMercury/patient-window-scheduler/internal/health"
	"github.com/KasumiMercury/patient-window-scheduler/internal/infra/repository"
	"github.com/KasumiMercury/patient-window-scheduler/internal/infra/windowrecorder"
	"github.com/KasumiMercury/patient-window-scheduler/internal/observability/logging"
	"github.com/KasumiMercury/patient-window-scheduler/internal/observability/metrics"
	"github.com/KasumiMercury/patient-window-scheduler/internal/observability/middleware"
	"github.com/KasumiMercury/patient-window-scheduler/internal/service/schedule"
	"github.com/KasumiMercury/patient-window-scheduler/internal/service/sequence"
)

// Version is set via ldflags at build time
var Version = "dev"

const serviceModule = logging.Module("window-scheduler")

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	// The log level comes from configuration, so observability starts after it.
	obs, err := initObservability(ctx, cfg.LogLevel)
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return 1
	}

	windowMetrics, err := metrics.NewWindowMetrics()
	if err != nil {
		slog.Error("failed to initialize window metrics", slog.String("error", err.Error()))
		return 1
	}

	// InfluxDB locally, BigQuery under gcloud
	recorder, err := windowrecorder.NewRecorder(ctx, windowrecorder.LoadConfig())
	if err != nil {
		slog.Error("failed to initialize window recorder", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := recorder.Close(); err != nil {
			slog.Warn("failed to close window recorder", slog.String("error", err.Error()))
		}
	}()

	taskQueue, cleanup, err := initTaskQueue(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize task queue", slog.String("error", err.Error()))
		return 1
	}
	if cleanup != nil {
		defer func() {
			if err := cleanup(); err != nil {
				slog.Error("task queue cleanup error", slog.String("error", err.Error()))
			}
		}()
	}

	redisOpts := &redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	if cfg.Redis.TLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOpts)

	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		slog.Error("failed to instrument redis tracing",
			slog.String("event", "redis.otel.tracing.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisotel.InstrumentMetrics(redisClient); err != nil {
		slog.Error("failed to instrument redis metrics",
			slog.String("event", "redis.otel.metrics.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect redis",
			slog.String("event", "redis.connect.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Warn("failed to close redis client", slog.String("error", err.Error()))
		}
	}()

	slog.Info("redis connected",
		slog.String("addr", cfg.Redis.Addr),
	)

	overrideRepo := repository.NewOverrideRepository(redisClient)

	generator := sequence.NewGenerator(cfg.Window.MaxIterations, windowMetrics)
	scheduler := schedule.NewService(
		cfg.Window.Policy(),
		generator,
		overrideRepo,
		taskQueue,
		recorder,
		windowMetrics,
	)

	windowHandler := handler.NewWindowHandler(generator, cfg.Window.Bounds, windowMetrics)
	scheduleHandler := handler.NewScheduleHandler(scheduler, overrideRepo)

	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:   []string{"/health", "/health/live", "/health/ready", "/metrics"},
		Module:      serviceModule,
		TracerName:  "github.com/KasumiMercury/patient-window-scheduler/internal/observability/middleware",
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())

	healthChecker := health.NewChecker(Version, health.RedisProbe(redisClient)...)
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	handler.RegisterRoutes(r, windowHandler, scheduleHandler)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.String("bounds", cfg.Window.Bounds.String()),
			slog.Bool("lookback", cfg.Window.Lookback),
			slog.Bool("individual_window", cfg.Window.Scoped),
			slog.String("controls_method", string(cfg.Window.ControlsMethod)),
			slog.String("step", cfg.Window.Step.String()),
			slog.Bool("dispatch", taskQueue != nil),
		)
		serverErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}
