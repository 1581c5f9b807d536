package taskqueue

import (
	"fmt"
	"strings"
	"time"
)

// SliceTask asks the feature-extraction worker to process one slice of one
// entity's window sequence.
type SliceTask struct {
	ScheduleAt time.Time `json:"-"`

	RunID       string    `json:"run_id"`
	EntityID    string    `json:"entity_id"`
	SliceIndex  int       `json:"slice_index"`
	SliceStart  string    `json:"slice_start"` // YYYY-MM-DD
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
	Source      string    `json:"source"`
}

// TaskID is stable for a (run, entity, slice) triple so a retried run does not
// enqueue the same slice twice.
func (t *SliceTask) TaskID() string {
	return fmt.Sprintf("%s-%s-%05d", sanitizeID(t.RunID), sanitizeID(t.EntityID), t.SliceIndex)
}

// sanitizeID keeps the characters task names accept.
func sanitizeID(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}

type TaskResponse struct {
	Name         string    `json:"name"`
	ScheduleTime time.Time `json:"schedule_time"`
	CreateTime   time.Time `json:"create_time"`
}

type HTTPTaskRequest struct {
	Task HTTPTask `json:"task"`
}

type HTTPTask struct {
	Name         string          `json:"name,omitempty"`
	HTTPRequest  HTTPTaskPayload `json:"httpRequest"`
	ScheduleTime string          `json:"scheduleTime,omitempty"`
}

type HTTPTaskPayload struct {
	Body    string            `json:"body"`
	Headers map[string]string `json:"headers,omitempty"`
}

type HTTPTaskResponse struct {
	Name         string `json:"name"`
	ScheduleTime string `json:"scheduleTime"`
	CreateTime   string `json:"createTime"`
}
