//go:build !gcloud

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/KasumiMercury/patient-window-scheduler/internal/config"
	"github.com/KasumiMercury/patient-window-scheduler/internal/infra/taskqueue"
	"github.com/KasumiMercury/patient-window-scheduler/internal/observability"
	"github.com/KasumiMercury/patient-window-scheduler/internal/observability/logging"
)

func initTaskQueue(_ context.Context, cfg *config.Config) (taskqueue.TaskQueue, func() error, error) {
	if !cfg.TaskQueue.DispatchEnabled() {
		slog.Warn("TASK_QUEUE_URL not set, slice dispatch disabled")

		return nil, nil, nil
	}

	tq := taskqueue.NewHTTPTasksClient(taskqueue.HTTPTasksConfig{
		BaseURL:    cfg.TaskQueue.TasksURL,
		QueueName:  cfg.TaskQueue.QueueName,
		TargetURL:  cfg.TaskQueue.TargetURL,
		MaxRetries: cfg.TaskQueue.MaxRetries,
	})

	slog.Info("task queue initialized",
		slog.String("type", "http_tasks"),
		slog.String("url", cfg.TaskQueue.TasksURL),
		slog.String("queue", cfg.TaskQueue.QueueName),
	)

	return tq, nil, nil
}

func initObservability(ctx context.Context, level slog.Level) (*observability.Resources, error) {
	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "window-scheduler"
	}

	env := logging.EnvDev
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	obs, err := observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     serviceName,
			Version:  Version,
			Revision: "",
		},
		Environment:   env,
		GCPProjectID:  "",
		SamplingRate:  1.0,
		DefaultModule: serviceModule,
		LogLevel:      level,
	})
	if err != nil {
		return nil, err
	}

	return obs, nil
}
