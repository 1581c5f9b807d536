package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/KasumiMercury/patient-window-scheduler/internal/observability/logging"
)

type Config struct {
	Port      string
	Version   string
	LogLevel  slog.Level
	Window    *WindowConfig
	TaskQueue TaskQueueConfig
	Redis     *RedisConfig
}

// TaskQueueConfig holds both dispatch backends. Which one is used depends on
// the build.
type TaskQueueConfig struct {
	TasksURL  string
	QueueName string
	TargetURL string

	GCloudProjectID      string
	GCloudLocationID     string
	GCloudQueueID        string
	GCloudTargetURL      string
	GCloudServiceAccount string

	MaxRetries int
}

func Load() (*Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	version := os.Getenv("SERVICE_VERSION")
	if version == "" {
		version = "dev"
	}

	queueName := os.Getenv("TASK_QUEUE_NAME")
	if queueName == "" {
		queueName = "default"
	}

	maxRetries := 3
	if v := os.Getenv("TASK_QUEUE_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			maxRetries = parsed
		}
	}

	windowConfig, err := LoadWindowConfig()
	if err != nil {
		return nil, err
	}

	redisConfig, err := LoadRedisConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:     port,
		Version:  version,
		LogLevel: logging.LevelFor(windowConfig.Verbosity, os.Getenv("LOG_LEVEL")),
		Window:   windowConfig,
		TaskQueue: TaskQueueConfig{
			TasksURL:  os.Getenv("TASK_QUEUE_URL"),
			QueueName: queueName,
			TargetURL: os.Getenv("SLICE_TARGET_URL"),

			GCloudProjectID:      os.Getenv("GCLOUD_PROJECT_ID"),
			GCloudLocationID:     os.Getenv("GCLOUD_LOCATION_ID"),
			GCloudQueueID:        os.Getenv("GCLOUD_QUEUE_ID"),
			GCloudTargetURL:      os.Getenv("GCLOUD_TARGET_URL"),
			GCloudServiceAccount: os.Getenv("GCLOUD_SERVICE_ACCOUNT_EMAIL"),

			MaxRetries: maxRetries,
		},
		Redis: redisConfig,
	}, nil
}
