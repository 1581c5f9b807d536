package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/KasumiMercury/patient-window-scheduler/internal/domain"
)

const windowTracerName = "github.com/KasumiMercury/patient-window-scheduler/internal/service"

func WindowTracer() trace.Tracer {
	return otel.Tracer(windowTracerName)
}

func StartGenerateSpan(ctx context.Context, anchor domain.CalendarDate, span domain.Span, step domain.RelativeDuration, lookback bool) (context.Context, trace.Span) {
	return WindowTracer().Start(ctx, "window.generate",
		trace.WithAttributes(
			attribute.String("window.anchor", anchor.String()),
			attribute.String("window.span", span.Duration().String()),
			attribute.String("window.step", step.String()),
			attribute.Bool("window.lookback", lookback),
		),
	)
}

func StartResolveSpan(ctx context.Context, entityID string) (context.Context, trace.Span) {
	return WindowTracer().Start(ctx, "window.resolve_entity",
		trace.WithAttributes(
			attribute.String("entity_id", entityID),
		),
	)
}

func StartScheduleSpan(ctx context.Context, runID string, entityCount int) (context.Context, trace.Span) {
	return WindowTracer().Start(ctx, "window.schedule",
		trace.WithAttributes(
			attribute.String("run_id", runID),
			attribute.Int("schedule.entity_count", entityCount),
		),
	)
}

func StartFilterSpan(ctx context.Context, column string, window domain.TimeWindow, rows int) (context.Context, trace.Span) {
	return WindowTracer().Start(ctx, "window.filter_records",
		trace.WithAttributes(
			attribute.String("filter.column", column),
			attribute.String("filter.window", window.String()),
			attribute.Int("filter.input_rows", rows),
		),
	)
}

func StartExternalAPISpan(ctx context.Context, operation, url string) (context.Context, trace.Span) {
	return WindowTracer().Start(ctx, "window.external_api."+operation,
		trace.WithAttributes(
			attribute.String("url", url),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func StartRedisOperationSpan(ctx context.Context, operation, key string) (context.Context, trace.Span) {
	return WindowTracer().Start(ctx, "window.redis."+operation,
		trace.WithAttributes(
			attribute.String("db.system", "redis"),
			attribute.String("db.operation", operation),
			attribute.String("db.key", key),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordGenerateResult(span trace.Span, length int, capped bool, err error) {
	span.SetAttributes(
		attribute.Int("window.sequence_length", length),
		attribute.Bool("window.capped", capped),
	)
	recordStatus(span, err)
}

func RecordResolveResult(span trace.Span, source string, length int, err error) {
	span.SetAttributes(
		attribute.String("resolve.source", source),
		attribute.Int("resolve.sequence_length", length),
	)
	recordStatus(span, err)
}

func RecordScheduleResult(span trace.Span, resolvedCount, skippedCount, dispatchedCount, failedCount int, err error) {
	span.SetAttributes(
		attribute.Int("schedule.resolved_count", resolvedCount),
		attribute.Int("schedule.skipped_count", skippedCount),
		attribute.Int("schedule.dispatched_count", dispatchedCount),
		attribute.Int("schedule.failed_count", failedCount),
	)
	recordStatus(span, err)
}

func RecordFilterResult(span trace.Span, kept, missing int, err error) {
	span.SetAttributes(
		attribute.Int("filter.kept_rows", kept),
		attribute.Int("filter.missing_rows", missing),
	)
	recordStatus(span, err)
}

func recordStatus(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}
