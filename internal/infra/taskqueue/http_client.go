package taskqueue

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/KasumiMercury/patient-window-scheduler/internal/observability/logging"
	"github.com/KasumiMercury/patient-window-scheduler/internal/observability/tracing"
)

// HTTPTasksClient talks to a task queue exposing the Cloud Tasks style REST
// shape over plain HTTP.
type HTTPTasksClient struct {
	baseURL    string
	queueName  string
	targetURL  string
	httpClient *http.Client
	maxRetries int
}

type HTTPTasksConfig struct {
	BaseURL    string
	QueueName  string
	TargetURL  string
	MaxRetries int
}

func NewHTTPTasksClient(cfg HTTPTasksConfig) *HTTPTasksClient {
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	return &HTTPTasksClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		queueName:  cfg.QueueName,
		targetURL:  cfg.TargetURL,
		httpClient: newHTTPClient(cfg.BaseURL),
		maxRetries: maxRetries,
	}
}

func (c *HTTPTasksClient) queueURL() string {
	if c.queueName != "" && c.queueName != "default" {
		return fmt.Sprintf("%s/tasks/%s", c.baseURL, c.queueName)
	}
	return fmt.Sprintf("%s/tasks", c.baseURL)
}

func (c *HTTPTasksClient) EnqueueSlice(ctx context.Context, task *SliceTask) (*TaskResponse, error) {
	payload, err := json.Marshal(task)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal slice task: %w", err)
	}

	headers := map[string]string{
		"Content-Type": "application/json",
	}
	if c.targetURL != "" {
		headers["X-Target-URL"] = c.targetURL
	}

	taskReq := HTTPTaskRequest{
		Task: HTTPTask{
			Name: task.TaskID(),
			HTTPRequest: HTTPTaskPayload{
				Body:    base64.StdEncoding.EncodeToString(payload),
				Headers: headers,
			},
		},
	}
	if !task.ScheduleAt.IsZero() {
		taskReq.Task.ScheduleTime = task.ScheduleAt.Format(time.RFC3339)
	}

	reqBody, err := json.Marshal(taskReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task request: %w", err)
	}

	url := c.queueURL()

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			slog.DebugContext(ctx, "retrying slice enqueue",
				slog.String("entity_id", task.EntityID),
				slog.Int("slice_index", task.SliceIndex),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoffFor(attempt)),
			)
			if err := waitBackoff(ctx, attempt); err != nil {
				return nil, err
			}
		}

		resp, err := c.doRequest(ctx, url, reqBody, task)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}

	slog.ErrorContext(ctx, "all retries exhausted for slice enqueue",
		slog.String("entity_id", task.EntityID),
		slog.Int("slice_index", task.SliceIndex),
		slog.Int("max_retries", c.maxRetries),
		slog.String("error", lastErr.Error()),
	)
	return nil, fmt.Errorf("failed to enqueue slice after %d retries: %w", c.maxRetries, lastErr)
}

func (c *HTTPTasksClient) doRequest(ctx context.Context, url string, reqBody []byte, task *SliceTask) (*TaskResponse, error) {
	ctx, span := tracing.StartExternalAPISpan(ctx, "enqueue_slice", url)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-request-id", logging.ValidateAndExtractRequestID(logging.RequestIDFromContext(ctx)))
	tracing.InjectToHTTPRequest(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "failed to send request to task queue",
			slog.String("entity_id", task.EntityID),
			slog.Int("slice_index", task.SliceIndex),
			slog.String("error", err.Error()),
		)
		tracing.RecordExternalAPIResult(span, 0, err)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		slog.WarnContext(ctx, "unexpected status code from task queue",
			slog.String("entity_id", task.EntityID),
			slog.Int("slice_index", task.SliceIndex),
			slog.Int("status_code", resp.StatusCode),
		)
		tracing.RecordExternalAPIResult(span, resp.StatusCode, err)
		return nil, err
	}

	var taskResp HTTPTaskResponse
	if err := json.NewDecoder(resp.Body).Decode(&taskResp); err != nil {
		tracing.RecordExternalAPIResult(span, resp.StatusCode, err)
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	tracing.RecordExternalAPIResult(span, resp.StatusCode, nil)

	scheduleTime, _ := time.Parse(time.RFC3339, taskResp.ScheduleTime)
	createTime, _ := time.Parse(time.RFC3339, taskResp.CreateTime)

	slog.DebugContext(ctx, "slice task enqueued",
		slog.String("task_name", taskResp.Name),
		slog.String("entity_id", task.EntityID),
		slog.Int("slice_index", task.SliceIndex),
	)

	return &TaskResponse{
		Name:         taskResp.Name,
		ScheduleTime: scheduleTime,
		CreateTime:   createTime,
	}, nil
}

// DeleteTask removes a queued slice task. A task that no longer exists is not
// an error.
func (c *HTTPTasksClient) DeleteTask(ctx context.Context, taskID string) error {
	url := fmt.Sprintf("%s/%s", c.queueURL(), taskID)

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := waitBackoff(ctx, attempt); err != nil {
				return err
			}
		}

		err := c.doDelete(ctx, url, taskID)
		if err == nil {
			return nil
		}
		lastErr = err
	}

	slog.ErrorContext(ctx, "all retries exhausted for task deletion",
		slog.String("task_id", taskID),
		slog.Int("max_retries", c.maxRetries),
		slog.String("error", lastErr.Error()),
	)
	return fmt.Errorf("failed to delete task after %d retries: %w", c.maxRetries, lastErr)
}

func (c *HTTPTasksClient) doDelete(ctx context.Context, url, taskID string) error {
	ctx, span := tracing.StartExternalAPISpan(ctx, "delete_task", url)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-request-id", logging.ValidateAndExtractRequestID(logging.RequestIDFromContext(ctx)))
	tracing.InjectToHTTPRequest(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		tracing.RecordExternalAPIResult(span, 0, err)
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		slog.InfoContext(ctx, "task deleted", slog.String("task_id", taskID))
	case http.StatusNotFound:
		slog.InfoContext(ctx, "task not found in queue (may have been processed)", slog.String("task_id", taskID))
	default:
		err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		tracing.RecordExternalAPIResult(span, resp.StatusCode, err)
		return err
	}

	tracing.RecordExternalAPIResult(span, resp.StatusCode, nil)
	return nil
}
