package windowrecorder

import (
	"context"

	"github.com/KasumiMercury/patient-window-scheduler/internal/domain"
)

type noopRecorder struct{}

func NewNoopRecorder() domain.WindowRecorder {
	return &noopRecorder{}
}

func (n *noopRecorder) RecordResolutions(_ context.Context, _ []domain.ResolutionRecord) error {
	return nil
}

func (n *noopRecorder) Flush(_ context.Context) error {
	return nil
}

func (n *noopRecorder) Close() error {
	return nil
}
