package handler

import (
	"encoding/json"
	"time"

	"github.com/KasumiMercury/patient-window-scheduler/internal/domain"
)

// DateComponents carries the six raw components. Each may be a JSON number or
// a string of digits.
type DateComponents struct {
	StartYear  json.RawMessage `json:"start_year"`
	StartMonth json.RawMessage `json:"start_month"`
	StartDay   json.RawMessage `json:"start_day"`
	EndYear    json.RawMessage `json:"end_year"`
	EndMonth   json.RawMessage `json:"end_month"`
	EndDay     json.RawMessage `json:"end_day"`
}

func (d DateComponents) IsZero() bool {
	return d.StartYear == nil && d.StartMonth == nil && d.StartDay == nil &&
		d.EndYear == nil && d.EndMonth == nil && d.EndDay == nil
}

// Values returns the components in start-then-end order.
func (d DateComponents) Values() [6]any {
	return [6]any{
		component(d.StartYear), component(d.StartMonth), component(d.StartDay),
		component(d.EndYear), component(d.EndMonth), component(d.EndDay),
	}
}

// component keeps number literals as their digit text so that 1.5 or 1e3
// fail validation instead of being rounded.
func component(raw json.RawMessage) any {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

type ResolveIntervalRequest struct {
	Anchor   string                  `json:"anchor" binding:"required"`
	Duration domain.RelativeDuration `json:"duration"`
}

type ResolveIntervalResponse struct {
	StartYear  int               `json:"start_year"`
	StartMonth int               `json:"start_month"`
	EndYear    int               `json:"end_year"`
	EndMonth   int               `json:"end_month"`
	StartDay   int               `json:"start_day"`
	EndDay     int               `json:"end_day"`
	Window     domain.TimeWindow `json:"window"`
}

type BoundsRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type SequenceRequest struct {
	Anchor   string                   `json:"anchor" binding:"required"`
	Span     domain.Span              `json:"span"`
	Step     *domain.RelativeDuration `json:"step,omitempty"`
	Lookback bool                     `json:"lookback"`
	Bounds   *BoundsRequest           `json:"bounds,omitempty"`
}

type SequenceResponse struct {
	Slices [][3]int            `json:"slices"`
	Count  int                 `json:"count"`
	Bounds domain.GlobalBounds `json:"bounds"`
}

type WindowRequest struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type FilterRequest struct {
	Table       domain.Table   `json:"table"`
	Column      string         `json:"column" binding:"required"`
	DropMissing bool           `json:"drop_missing"`
	Window      *WindowRequest `json:"window,omitempty"`
	DateComponents
}

type FilterResponse struct {
	Table    domain.Table `json:"table"`
	Kept     int          `json:"kept"`
	Excluded int          `json:"excluded"`
}

type ScheduleEntity struct {
	EntityID string `json:"entity_id" binding:"required"`
	Anchor   string `json:"anchor,omitempty"`
}

type ScheduleRequest struct {
	RunID    string           `json:"run_id"`
	Entities []ScheduleEntity `json:"entities" binding:"required,dive"`
}

type OverrideRequest struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}
