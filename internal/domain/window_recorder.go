package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=window_recorder.go -destination=window_recorder_mock.go -package=domain

// ResolutionRecord summarises how one entity was resolved and dispatched.
type ResolutionRecord struct {
	RunID           string
	EntityID        string
	Source          string
	FirstSlice      time.Time
	LastSlice       time.Time
	SliceCount      int
	DispatchedCount int
	FailedCount     int
	Skipped         bool
	SkipReason      string
}

type WindowRecorder interface {
	RecordResolutions(ctx context.Context, records []ResolutionRecord) error
	Flush(ctx context.Context) error
	Close() error
}
