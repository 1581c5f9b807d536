// Package sequence expands an anchor date, a span and a step into the ordered
// list of slice start dates, clamped to global bounds.
package sequence

import (
	"context"
	"log/slog"
	"time"

	"github.com/KasumiMercury/patient-window-scheduler/internal/domain"
	"github.com/KasumiMercury/patient-window-scheduler/internal/observability/metrics"
	"github.com/KasumiMercury/patient-window-scheduler/internal/observability/tracing"
)

const (
	DefaultMaxIterations = 10000

	pathAnalytic  = "analytic"
	pathIterative = "iterative"
)

// DefaultStep is one calendar day.
var DefaultStep = domain.Days(1)

type Request struct {
	Anchor   domain.CalendarDate
	Span     domain.Span
	Step     domain.RelativeDuration
	Lookback bool
	Bounds   domain.GlobalBounds
}

// NewRequest builds a request stepping one day at a time.
func NewRequest(anchor domain.CalendarDate, span domain.Span, lookback bool, bounds domain.GlobalBounds) Request {
	return Request{
		Anchor:   anchor,
		Span:     span,
		Step:     DefaultStep,
		Lookback: lookback,
		Bounds:   bounds,
	}
}

type Generator struct {
	maxIterations int
	metrics       *metrics.WindowMetrics
}

// NewGenerator returns a generator emitting at most maxIterations slices per
// sequence. A non-positive value selects DefaultMaxIterations.
func NewGenerator(maxIterations int, windowMetrics *metrics.WindowMetrics) *Generator {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	return &Generator{
		maxIterations: maxIterations,
		metrics:       windowMetrics,
	}
}

func (g *Generator) MaxIterations() int {
	return g.maxIterations
}

// Generate returns the ascending slice starts for req. A range that falls
// entirely outside the bounds yields an empty sequence and no error. A span
// with a negative component is rejected before anything else.
func (g *Generator) Generate(ctx context.Context, req Request) (domain.WindowSequence, error) {
	ctx, span := tracing.StartGenerateSpan(ctx, req.Anchor, req.Span, req.Step, req.Lookback)
	defer span.End()

	started := time.Now()

	if req.Span.IsNegative() {
		err := &domain.SpanError{Span: req.Span}
		tracing.RecordGenerateResult(span, 0, false, err)
		return nil, err
	}

	start, end := chronologicalRange(req.Anchor, req.Span.Duration(), req.Lookback)
	start, end = req.Bounds.Clamp(start, end)

	if start.After(end) {
		slog.DebugContext(ctx, "requested range lies outside bounds",
			slog.String("anchor", req.Anchor.String()),
			slog.String("start", start.String()),
			slog.String("end", end.String()),
			slog.String("bounds", req.Bounds.String()),
		)
		tracing.RecordGenerateResult(span, 0, false, nil)
		return domain.WindowSequence{}, nil
	}

	if !req.Step.IsPositive() {
		err := &domain.IntervalError{Interval: req.Step}
		tracing.RecordGenerateResult(span, 0, false, err)
		return nil, err
	}

	var (
		seq    domain.WindowSequence
		capped bool
		path   string
	)
	if req.Step.DaysOnly() {
		path = pathAnalytic
		seq, capped = g.stepDays(start, end, req.Step.Days)
	} else {
		path = pathIterative
		seq, capped = g.stepCalendar(start, end, req.Step)
	}

	if capped {
		slog.WarnContext(ctx, "window generation reached iteration cap, returning partial sequence",
			slog.Int("max_iterations", g.maxIterations),
			slog.String("path", path),
			slog.String("start", start.String()),
			slog.String("end", end.String()),
			slog.String("step", req.Step.String()),
		)
		if g.metrics != nil {
			g.metrics.RecordIterationCapReached(ctx, path)
		}
	}

	if g.metrics != nil {
		g.metrics.RecordSequenceGenerated(ctx, path, len(seq), time.Since(started))
	}

	slog.DebugContext(ctx, "window sequence generated",
		slog.String("start", start.String()),
		slog.String("end", end.String()),
		slog.Int("slices", len(seq)),
		slog.String("path", path),
	)

	tracing.RecordGenerateResult(span, len(seq), capped, nil)

	return seq, nil
}

// stepDays counts the slices up front; every slice is start + i*step days.
func (g *Generator) stepDays(start, end domain.CalendarDate, step int) (domain.WindowSequence, bool) {
	count := start.DaysUntil(end)/step + 1

	capped := false
	if count > g.maxIterations {
		count = g.maxIterations
		capped = true
	}

	base := start.Time()
	seq := make(domain.WindowSequence, count)
	for i := range count {
		seq[i] = domain.DateOf(base.AddDate(0, 0, i*step))
	}
	return seq, capped
}

// stepCalendar advances cumulatively, so month clamping carries forward
// (Jan 31, Feb 28, Mar 28, ...).
func (g *Generator) stepCalendar(start, end domain.CalendarDate, step domain.RelativeDuration) (domain.WindowSequence, bool) {
	seq := make(domain.WindowSequence, 0)
	current := start
	for !current.After(end) {
		if len(seq) == g.maxIterations {
			return seq, true
		}
		seq = append(seq, current)

		next, err := current.AddDuration(step)
		if err != nil {
			break
		}
		current = next
	}
	return seq, false
}

// chronologicalRange returns the range ending at anchor under lookback and
// starting at it otherwise. total is non-negative. Results beyond the
// representable range saturate at the calendar limits.
func chronologicalRange(anchor domain.CalendarDate, total domain.RelativeDuration, lookback bool) (domain.CalendarDate, domain.CalendarDate) {
	if lookback {
		return shift(anchor, total.Negate()), anchor
	}
	return anchor, shift(anchor, total)
}

func shift(d domain.CalendarDate, by domain.RelativeDuration) domain.CalendarDate {
	out, err := d.AddDuration(by)
	if err == nil {
		return out
	}
	if by.Years*366+by.Months*31+by.Days < 0 {
		return domain.FirstCalendarDate()
	}
	return domain.LastCalendarDate()
}
