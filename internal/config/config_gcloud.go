//go:build gcloud

package config

import (
	"errors"
	"fmt"
)

// DispatchEnabled reports whether a Cloud Tasks queue is configured.
func (c *TaskQueueConfig) DispatchEnabled() bool {
	return c.GCloudQueueID != ""
}

func (c *TaskQueueConfig) Validate() error {
	if !c.DispatchEnabled() {
		return nil
	}

	var errs []error

	if c.GCloudProjectID == "" {
		errs = append(errs, errors.New("GCLOUD_PROJECT_ID is required"))
	}
	if c.GCloudLocationID == "" {
		errs = append(errs, errors.New("GCLOUD_LOCATION_ID is required"))
	}
	if c.GCloudTargetURL == "" {
		errs = append(errs, errors.New("GCLOUD_TARGET_URL is required"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("task queue configuration errors: %w", errors.Join(errs...))
	}

	return nil
}
