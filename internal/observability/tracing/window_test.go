package tracing

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/KasumiMercury/patient-window-scheduler/internal/domain"
)

func TestGenerateSpanRecordsResult(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	_, span := StartGenerateSpan(context.Background(), domain.MustCalendarDate(2021, 1, 1), domain.Span{Days: 4}, domain.Days(1), false)
	RecordGenerateResult(span, 5, false, nil)
	span.End()

	_, failed := StartResolveSpan(context.Background(), "patient-a")
	RecordResolveResult(failed, "override", 0, errors.New("boom"))
	failed.End()

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("recorded %d spans, want 2", len(spans))
	}
	if spans[0].Name() != "window.generate" || spans[0].Status().Code != codes.Ok {
		t.Errorf("span 0 = %s %v, want window.generate Ok", spans[0].Name(), spans[0].Status())
	}
	if spans[1].Status().Code != codes.Error {
		t.Errorf("span 1 status = %v, want Error", spans[1].Status())
	}
}

func TestInjectToHTTPRequest(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	provider := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	ctx, span := WindowTracer().Start(context.Background(), "parent")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "http://example.invalid/tasks", nil)
	if err != nil {
		t.Fatalf("NewRequest() error: %v", err)
	}
	InjectToHTTPRequest(ctx, req)

	if req.Header.Get("traceparent") == "" {
		t.Error("traceparent header not injected")
	}

	extracted := ExtractFromHTTPRequest(context.Background(), req)
	if got := trace.SpanContextFromContext(extracted).TraceID(); got != span.SpanContext().TraceID() {
		t.Errorf("extracted trace id = %s, want %s", got, span.SpanContext().TraceID())
	}
}
