//go:build !gcloud

package config

import (
	"errors"
	"fmt"
)

// DispatchEnabled reports whether an HTTP task queue is configured.
func (c *TaskQueueConfig) DispatchEnabled() bool {
	return c.TasksURL != ""
}

func (c *TaskQueueConfig) Validate() error {
	if !c.DispatchEnabled() {
		return nil
	}
	if c.TargetURL == "" {
		return fmt.Errorf("task queue configuration errors: %w", errors.New("SLICE_TARGET_URL is required"))
	}
	return nil
}
