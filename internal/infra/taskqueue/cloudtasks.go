//go:build gcloud

package taskqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	cloudtasks "cloud.google.com/go/cloudtasks/apiv2"
	taskspb "cloud.google.com/go/cloudtasks/apiv2/cloudtaskspb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"
)

type CloudTasksClient struct {
	client              *cloudtasks.Client
	projectID           string
	locationID          string
	queueID             string
	targetURL           string
	serviceAccountEmail string
	maxRetries          int
}

type CloudTasksConfig struct {
	ProjectID           string
	LocationID          string
	QueueID             string
	TargetURL           string
	ServiceAccountEmail string
	MaxRetries          int
}

func NewCloudTasksClient(ctx context.Context, cfg CloudTasksConfig) (*CloudTasksClient, error) {
	client, err := cloudtasks.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud tasks client: %w", err)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	return &CloudTasksClient{
		client:              client,
		projectID:           cfg.ProjectID,
		locationID:          cfg.LocationID,
		queueID:             cfg.QueueID,
		targetURL:           cfg.TargetURL,
		serviceAccountEmail: cfg.ServiceAccountEmail,
		maxRetries:          maxRetries,
	}, nil
}

func (c *CloudTasksClient) queuePath() string {
	return fmt.Sprintf("projects/%s/locations/%s/queues/%s", c.projectID, c.locationID, c.queueID)
}

func (c *CloudTasksClient) EnqueueSlice(ctx context.Context, task *SliceTask) (*TaskResponse, error) {
	payload, err := json.Marshal(task)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal slice task: %w", err)
	}

	httpReq := &taskspb.HttpRequest{
		HttpMethod: taskspb.HttpMethod_POST,
		Url:        c.targetURL,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: payload,
	}
	if c.serviceAccountEmail != "" {
		httpReq.AuthorizationHeader = &taskspb.HttpRequest_OidcToken{
			OidcToken: &taskspb.OidcToken{
				ServiceAccountEmail: c.serviceAccountEmail,
				Audience:            c.targetURL,
			},
		}
	}

	cloudTask := &taskspb.Task{
		Name:        fmt.Sprintf("%s/tasks/%s", c.queuePath(), task.TaskID()),
		MessageType: &taskspb.Task_HttpRequest{HttpRequest: httpReq},
	}
	if !task.ScheduleAt.IsZero() {
		cloudTask.ScheduleTime = timestamppb.New(task.ScheduleAt)
	}

	req := &taskspb.CreateTaskRequest{
		Parent: c.queuePath(),
		Task:   cloudTask,
	}

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

		resp, err := c.createTask(ctx, req, task)
		if err == nil {
			return resp, nil
		}
		if status.Code(err) == codes.AlreadyExists {
			slog.InfoContext(ctx, "slice task already enqueued",
				slog.String("task_name", cloudTask.Name),
			)
			return &TaskResponse{Name: cloudTask.Name}, nil
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

func (c *CloudTasksClient) createTask(ctx context.Context, req *taskspb.CreateTaskRequest, task *SliceTask) (*TaskResponse, error) {
	createdTask, err := c.client.CreateTask(ctx, req)
	if err != nil {
		slog.WarnContext(ctx, "failed to create cloud task",
			slog.String("entity_id", task.EntityID),
			slog.Int("slice_index", task.SliceIndex),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	slog.DebugContext(ctx, "slice task registered to Cloud Tasks",
		slog.String("task_name", createdTask.Name),
		slog.String("entity_id", task.EntityID),
	)

	resp := &TaskResponse{Name: createdTask.Name}
	if createdTask.ScheduleTime != nil {
		resp.ScheduleTime = createdTask.ScheduleTime.AsTime()
	}
	if createdTask.CreateTime != nil {
		resp.CreateTime = createdTask.CreateTime.AsTime()
	}
	return resp, nil
}

func (c *CloudTasksClient) Close() error {
	return c.client.Close()
}

func (c *CloudTasksClient) DeleteTask(ctx context.Context, taskID string) error {
	taskPath := fmt.Sprintf("%s/tasks/%s", c.queuePath(), taskID)

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := waitBackoff(ctx, attempt); err != nil {
				return err
			}
		}

		err := c.client.DeleteTask(ctx, &taskspb.DeleteTaskRequest{Name: taskPath})
		if err == nil {
			slog.InfoContext(ctx, "task deleted from Cloud Tasks", slog.String("task_id", taskID))
			return nil
		}
		if status.Code(err) == codes.NotFound {
			slog.InfoContext(ctx, "task not found in Cloud Tasks (may have been processed)",
				slog.String("task_id", taskID),
			)
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
