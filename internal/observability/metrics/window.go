package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	windowMeterName = "window.service"
)

type WindowMetrics struct {
	sequencesGenerated  metric.Int64Counter
	sequenceLength      metric.Int64Histogram
	iterationCapReached metric.Int64Counter
	generationDuration  metric.Float64Histogram
	entitiesResolved    metric.Int64Counter
	slicesDispatched    metric.Int64Counter
	recordsFiltered     metric.Int64Counter
	scheduleDuration    metric.Float64Histogram
}

func NewWindowMetrics() (*WindowMetrics, error) {
	meter := otel.Meter(windowMeterName)

	sequencesGenerated, err := meter.Int64Counter(
		"window_sequences_total",
		metric.WithDescription("Total number of window sequences generated"),
		metric.WithUnit("{sequence}"),
	)
	if err != nil {
		return nil, err
	}

	sequenceLength, err := meter.Int64Histogram(
		"window_sequence_length",
		metric.WithDescription("Number of slices in a generated window sequence"),
		metric.WithUnit("{slice}"),
		metric.WithExplicitBucketBoundaries(
			0, 1, 5, 10, 30, 90, 365, 1000, 5000, 10000,
		),
	)
	if err != nil {
		return nil, err
	}

	iterationCapReached, err := meter.Int64Counter(
		"window_iteration_cap_reached_total",
		metric.WithDescription("Number of generations truncated by the iteration cap"),
		metric.WithUnit("{sequence}"),
	)
	if err != nil {
		return nil, err
	}

	generationDuration, err := meter.Float64Histogram(
		"window_generation_duration_seconds",
		metric.WithDescription("Time spent generating a window sequence"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1,
		),
	)
	if err != nil {
		return nil, err
	}

	entitiesResolved, err := meter.Int64Counter(
		"window_entities_resolved_total",
		metric.WithDescription("Entity window resolutions by source and outcome"),
		metric.WithUnit("{entity}"),
	)
	if err != nil {
		return nil, err
	}

	slicesDispatched, err := meter.Int64Counter(
		"window_slices_dispatched_total",
		metric.WithDescription("Slice tasks handed to the task queue"),
		metric.WithUnit("{slice}"),
	)
	if err != nil {
		return nil, err
	}

	recordsFiltered, err := meter.Int64Counter(
		"window_records_filtered_total",
		metric.WithDescription("Records evaluated by the timestamp range filter"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, err
	}

	scheduleDuration, err := meter.Float64Histogram(
		"window_schedule_duration_seconds",
		metric.WithDescription("Batch scheduling duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60,
		),
	)
	if err != nil {
		return nil, err
	}

	return &WindowMetrics{
		sequencesGenerated:  sequencesGenerated,
		sequenceLength:      sequenceLength,
		iterationCapReached: iterationCapReached,
		generationDuration:  generationDuration,
		entitiesResolved:    entitiesResolved,
		slicesDispatched:    slicesDispatched,
		recordsFiltered:     recordsFiltered,
		scheduleDuration:    scheduleDuration,
	}, nil
}

func (m *WindowMetrics) RecordSequenceGenerated(ctx context.Context, path string, length int, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("path", path))
	m.sequencesGenerated.Add(ctx, 1, attrs)
	m.sequenceLength.Record(ctx, int64(length), attrs)
	m.generationDuration.Record(ctx, duration.Seconds(), attrs)
}

func (m *WindowMetrics) RecordIterationCapReached(ctx context.Context, path string) {
	m.iterationCapReached.Add(ctx, 1, metric.WithAttributes(
		attribute.String("path", path),
	))
}

func (m *WindowMetrics) RecordEntityResolved(ctx context.Context, source, outcome string) {
	m.entitiesResolved.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("outcome", outcome),
	))
}

func (m *WindowMetrics) RecordSliceDispatched(ctx context.Context, outcome string) {
	m.slicesDispatched.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func (m *WindowMetrics) RecordRecordsFiltered(ctx context.Context, kept, excluded int) {
	m.recordsFiltered.Add(ctx, int64(kept), metric.WithAttributes(attribute.String("outcome", "kept")))
	m.recordsFiltered.Add(ctx, int64(excluded), metric.WithAttributes(attribute.String("outcome", "excluded")))
}

func (m *WindowMetrics) RecordScheduleDuration(ctx context.Context, duration time.Duration) {
	m.scheduleDuration.Record(ctx, duration.Seconds())
}
