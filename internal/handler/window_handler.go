package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/patient-window-scheduler/internal/domain"
	"github.com/KasumiMercury/patient-window-scheduler/internal/observability/metrics"
	"github.com/KasumiMercury/patient-window-scheduler/internal/service/calendar"
	"github.com/KasumiMercury/patient-window-scheduler/internal/service/rangefilter"
	"github.com/KasumiMercury/patient-window-scheduler/internal/service/sequence"
)

// WindowHandler serves the stateless windowing operations.
type WindowHandler struct {
	generator     *sequence.Generator
	defaultBounds domain.GlobalBounds
	windowMetrics *metrics.WindowMetrics
}

func NewWindowHandler(generator *sequence.Generator, defaultBounds domain.GlobalBounds, windowMetrics *metrics.WindowMetrics) *WindowHandler {
	return &WindowHandler{
		generator:     generator,
		defaultBounds: defaultBounds,
		windowMetrics: windowMetrics,
	}
}

func (h *WindowHandler) HandleValidateDates(c *gin.Context) {
	ctx := c.Request.Context()

	var req DateComponents
	if !bindJSON(c, &req) {
		return
	}

	v := req.Values()
	dates, err := calendar.ValidateComponents(v[0], v[1], v[2], v[3], v[4], v[5])
	if err != nil {
		slog.DebugContext(ctx, "date components rejected", slog.String("error", err.Error()))
		respondDomainError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, dates)
}

func (h *WindowHandler) HandleResolveInterval(c *gin.Context) {
	ctx := c.Request.Context()

	var req ResolveIntervalRequest
	if !bindJSON(c, &req) {
		return
	}

	anchor, err := domain.ParseCalendarDate(req.Anchor)
	if err != nil {
		respondDomainError(ctx, c, err)
		return
	}

	bounds, err := calendar.ResolveInterval(anchor, req.Duration)
	if err != nil {
		respondDomainError(ctx, c, err)
		return
	}

	sy, sm, ey, em, sd, ed := bounds.Components()
	c.JSON(http.StatusOK, ResolveIntervalResponse{
		StartYear:  sy,
		StartMonth: sm,
		EndYear:    ey,
		EndMonth:   em,
		StartDay:   sd,
		EndDay:     ed,
		Window:     bounds.Window(),
	})
}

func (h *WindowHandler) HandleGenerateSequence(c *gin.Context) {
	ctx := c.Request.Context()

	var req SequenceRequest
	if !bindJSON(c, &req) {
		return
	}

	anchor, err := domain.ParseCalendarDate(req.Anchor)
	if err != nil {
		respondDomainError(ctx, c, err)
		return
	}

	bounds := h.defaultBounds
	if req.Bounds != nil {
		bounds, err = parseBounds(*req.Bounds)
		if err != nil {
			respondDomainError(ctx, c, err)
			return
		}
	}

	seqReq := sequence.NewRequest(anchor, req.Span, req.Lookback, bounds)
	if req.Step != nil {
		seqReq.Step = *req.Step
	}

	seq, err := h.generator.Generate(ctx, seqReq)
	if err != nil {
		respondDomainError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, SequenceResponse{
		Slices: seq.Tuples(),
		Count:  len(seq),
		Bounds: bounds,
	})
}

func (h *WindowHandler) HandleFilterRecords(c *gin.Context) {
	ctx := c.Request.Context()

	var req FilterRequest
	if !bindJSON(c, &req) {
		return
	}

	opts := rangefilter.Options{Column: req.Column, DropMissing: req.DropMissing}

	var (
		out domain.Table
		err error
	)
	switch {
	case req.Window != nil:
		out, err = rangefilter.Filter(ctx, req.Table, domain.NewTimeWindow(req.Window.Start, req.Window.End), opts)
	case !req.DateComponents.IsZero():
		v := req.DateComponents.Values()
		out, err = rangefilter.FilterByComponents(ctx, req.Table, v[0], v[1], v[2], v[3], v[4], v[5], opts)
	default:
		respondError(c, http.StatusBadRequest, errCodeValidation, "either window or date components are required")
		return
	}
	if err != nil {
		respondDomainError(ctx, c, err)
		return
	}

	excluded := req.Table.Len() - out.Len()
	if h.windowMetrics != nil {
		h.windowMetrics.RecordRecordsFiltered(ctx, out.Len(), excluded)
	}

	c.JSON(http.StatusOK, FilterResponse{
		Table:    out,
		Kept:     out.Len(),
		Excluded: excluded,
	})
}

func parseBounds(b BoundsRequest) (domain.GlobalBounds, error) {
	start, err := domain.ParseCalendarDate(b.Start)
	if err != nil {
		return domain.GlobalBounds{}, &domain.DateError{Which: calendar.WhichStart, Value: b.Start, Err: err}
	}
	end, err := domain.ParseCalendarDate(b.End)
	if err != nil {
		return domain.GlobalBounds{}, &domain.DateError{Which: calendar.WhichEnd, Value: b.End, Err: err}
	}
	if end.Before(start) {
		return domain.GlobalBounds{}, fmt.Errorf("bounds end %s before start %s: %w", end, start, domain.ErrInvalidDate)
	}
	return domain.GlobalBounds{Start: start, End: end}, nil
}
