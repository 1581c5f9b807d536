package schedule

import (
	"github.com/KasumiMercury/patient-window-scheduler/internal/domain"
)

// EntityAnchor names an entity and, optionally, its date of interest.
type EntityAnchor struct {
	EntityID string
	Anchor   domain.CalendarDate
}

type Request struct {
	RunID    string
	Entities []EntityAnchor
}

type EntityResult struct {
	EntityID   string              `json:"entity_id"`
	Source     string              `json:"source,omitempty"`
	Slices     [][3]int            `json:"slices"`
	Windows    []domain.TimeWindow `json:"windows,omitempty"`
	Dispatched int                 `json:"dispatched_count"`
	Failed     int                 `json:"failed_count"`
	Skipped    bool                `json:"skipped"`
	SkipReason string              `json:"skip_reason,omitempty"`
	Error      string              `json:"error,omitempty"`
}

type Response struct {
	RunID           string         `json:"run_id"`
	ResolvedCount   int            `json:"resolved_count"`
	SkippedCount    int            `json:"skipped_count"`
	DispatchedCount int            `json:"dispatched_count"`
	FailedCount     int            `json:"failed_count"`
	Entities        []EntityResult `json:"entities"`
}
