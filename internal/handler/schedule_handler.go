package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/patient-window-scheduler/internal/domain"
	"github.com/KasumiMercury/patient-window-scheduler/internal/service/schedule"
)

const runIDHeader = "X-Run-ID"

// ScheduleHandler serves batch scheduling and the stateful override and slice
// endpoints.
type ScheduleHandler struct {
	scheduler *schedule.Service
	overrides domain.OverrideRepository
}

func NewScheduleHandler(scheduler *schedule.Service, overrides domain.OverrideRepository) *ScheduleHandler {
	return &ScheduleHandler{
		scheduler: scheduler,
		overrides: overrides,
	}
}

func (h *ScheduleHandler) HandleScheduleEntities(c *gin.Context) {
	ctx := c.Request.Context()

	var req ScheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	runID := req.RunID
	if runID == "" {
		runID = c.GetHeader(runIDHeader)
	}

	entities := make([]schedule.EntityAnchor, 0, len(req.Entities))
	for _, e := range req.Entities {
		ea := schedule.EntityAnchor{EntityID: e.EntityID}
		if e.Anchor != "" {
			anchor, err := domain.ParseCalendarDate(e.Anchor)
			if err != nil {
				respondDomainError(ctx, c, &domain.DateError{Which: "anchor", Value: e.Anchor, Err: err})
				return
			}
			ea.Anchor = anchor
		}
		entities = append(entities, ea)
	}

	resp, err := h.scheduler.ScheduleEntities(ctx, schedule.Request{RunID: runID, Entities: entities})
	if err != nil {
		slog.ErrorContext(ctx, "scheduling interrupted",
			slog.String("run_id", runID),
			slog.String("error", err.Error()),
		)
		respondDomainError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ScheduleHandler) HandlePutOverride(c *gin.Context) {
	ctx := c.Request.Context()
	entityID := c.Param("id")

	if h.overrides == nil {
		respondError(c, http.StatusServiceUnavailable, errCodeUnavailable, "override store is not configured")
		return
	}

	var req OverrideRequest
	if !bindJSON(c, &req) {
		return
	}

	start, err := domain.ParseCalendarDate(req.Start)
	if err != nil {
		respondDomainError(ctx, c, &domain.DateError{Which: "start", Value: req.Start, Err: err})
		return
	}
	end, err := domain.ParseCalendarDate(req.End)
	if err != nil {
		respondDomainError(ctx, c, &domain.DateError{Which: "end", Value: req.End, Err: err})
		return
	}

	spec := domain.EntityWindowSpec{EntityID: entityID, Start: start, End: end}
	if err := h.overrides.SaveOverride(ctx, spec); err != nil {
		respondDomainError(ctx, c, err)
		return
	}

	slog.InfoContext(ctx, "override saved",
		slog.String("entity_id", entityID),
		slog.String("start", start.String()),
		slog.String("end", end.String()),
	)

	c.JSON(http.StatusOK, spec)
}

func (h *ScheduleHandler) HandleDeleteOverride(c *gin.Context) {
	ctx := c.Request.Context()
	entityID := c.Param("id")

	if h.overrides == nil {
		respondError(c, http.StatusServiceUnavailable, errCodeUnavailable, "override store is not configured")
		return
	}

	if err := h.overrides.DeleteOverride(ctx, entityID); err != nil {
		if errors.Is(err, domain.ErrOverrideNotFound) {
			respondError(c, http.StatusNotFound, errCodeNotFound, err.Error())
			return
		}
		respondDomainError(ctx, c, err)
		return
	}

	slog.InfoContext(ctx, "override deleted", slog.String("entity_id", entityID))

	c.Status(http.StatusNoContent)
}

func (h *ScheduleHandler) HandleCancelSlice(c *gin.Context) {
	ctx := c.Request.Context()
	taskID := c.Param("task_id")

	slog.InfoContext(ctx, "handling slice cancel request",
		slog.String("task_id", taskID),
	)

	if err := h.scheduler.CancelSlice(ctx, taskID); err != nil {
		if errors.Is(err, schedule.ErrDispatchDisabled) {
			respondError(c, http.StatusServiceUnavailable, errCodeUnavailable, err.Error())
			return
		}
		slog.ErrorContext(ctx, "failed to cancel slice",
			slog.String("task_id", taskID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, errCodeInternal, "failed to cancel slice")
		return
	}

	c.Status(http.StatusNoContent)
}
