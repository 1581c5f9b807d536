// Package schedule runs the per-entity loop: resolve each entity's windows,
// dispatch one task per slice and record what happened.
package schedule

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/KasumiMercury/patient-window-scheduler/internal/domain"
	"github.com/KasumiMercury/patient-window-scheduler/internal/infra/taskqueue"
	"github.com/KasumiMercury/patient-window-scheduler/internal/observability/metrics"
	"github.com/KasumiMercury/patient-window-scheduler/internal/observability/tracing"
	"github.com/KasumiMercury/patient-window-scheduler/internal/service/entity"
	"github.com/KasumiMercury/patient-window-scheduler/internal/service/sequence"
)

var ErrDispatchDisabled = errors.New("slice dispatch is not configured")

type Service struct {
	policy    entity.Policy
	generator *sequence.Generator
	overrides domain.OverrideRepository
	taskQueue taskqueue.TaskQueue
	recorder  domain.WindowRecorder
	metrics   *metrics.WindowMetrics
}

// NewService wires the scheduler. overrides, taskQueue and recorder may be
// nil: without a task queue entities are only resolved.
func NewService(
	policy entity.Policy,
	generator *sequence.Generator,
	overrides domain.OverrideRepository,
	taskQueue taskqueue.TaskQueue,
	recorder domain.WindowRecorder,
	windowMetrics *metrics.WindowMetrics,
) *Service {
	return &Service{
		policy:    policy,
		generator: generator,
		overrides: overrides,
		taskQueue: taskQueue,
		recorder:  recorder,
		metrics:   windowMetrics,
	}
}

func (s *Service) Policy() entity.Policy {
	return s.policy
}

// ScheduleEntities processes the entities in order. An entity that cannot be
// resolved or dispatched is reported and the batch moves on.
func (s *Service) ScheduleEntities(ctx context.Context, req Request) (*Response, error) {
	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	ctx, span := tracing.StartScheduleSpan(ctx, runID, len(req.Entities))
	defer span.End()

	started := time.Now()

	slog.InfoContext(ctx, "scheduling entities",
		slog.String("run_id", runID),
		slog.Int("entity_count", len(req.Entities)),
		slog.Bool("scoped", s.policy.Scoped),
		slog.Bool("lookback", s.policy.Lookback),
		slog.Bool("dispatch", s.taskQueue != nil),
	)

	// One resolver per run so the shared global sequence and the override
	// pool are read once and never leak into another run.
	resolver := entity.NewResolver(s.policy, s.generator, s.overrides, s.metrics)

	resp := &Response{
		RunID:    runID,
		Entities: make([]EntityResult, 0, len(req.Entities)),
	}
	records := make([]domain.ResolutionRecord, 0, len(req.Entities))

	var runErr error
	for _, ea := range req.Entities {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		result, record := s.processEntity(ctx, runID, resolver, ea)
		resp.Entities = append(resp.Entities, result)
		records = append(records, record)

		if result.Skipped {
			resp.SkippedCount++
		} else {
			resp.ResolvedCount++
		}
		resp.DispatchedCount += result.Dispatched
		resp.FailedCount += result.Failed
	}

	if s.recorder != nil && len(records) > 0 {
		if err := s.recorder.RecordResolutions(ctx, records); err != nil {
			slog.WarnContext(ctx, "failed to record window resolutions",
				slog.String("run_id", runID),
				slog.String("error", err.Error()),
			)
		}
	}

	if s.metrics != nil {
		s.metrics.RecordScheduleDuration(ctx, time.Since(started))
	}

	tracing.RecordScheduleResult(span, resp.ResolvedCount, resp.SkippedCount, resp.DispatchedCount, resp.FailedCount, runErr)

	slog.InfoContext(ctx, "scheduling finished",
		slog.String("run_id", runID),
		slog.Int("resolved_count", resp.ResolvedCount),
		slog.Int("skipped_count", resp.SkippedCount),
		slog.Int("dispatched_count", resp.DispatchedCount),
		slog.Int("failed_count", resp.FailedCount),
		slog.Duration("elapsed", time.Since(started)),
	)

	if runErr != nil {
		return resp, runErr
	}
	return resp, nil
}

func (s *Service) processEntity(ctx context.Context, runID string, resolver *entity.Resolver, ea EntityAnchor) (EntityResult, domain.ResolutionRecord) {
	result := EntityResult{EntityID: ea.EntityID, Slices: [][3]int{}}
	record := domain.ResolutionRecord{RunID: runID, EntityID: ea.EntityID}

	res, err := resolver.Resolve(ctx, ea.EntityID, ea.Anchor)
	result.Source = res.Source.String()
	record.Source = res.Source.String()
	if err != nil {
		result.Skipped = true
		result.Error = err.Error()
		var skip *domain.SkipError
		if errors.As(err, &skip) {
			result.SkipReason = skip.Reason
		}
		record.Skipped = true
		record.SkipReason = result.SkipReason
		return result, record
	}

	result.Slices = res.Sequence.Tuples()
	result.Windows = res.Windows
	record.SliceCount = len(res.Sequence)
	if len(res.Windows) > 0 {
		record.FirstSlice = res.Windows[0].Start
		record.LastSlice = res.Windows[len(res.Windows)-1].Start
	}

	if s.taskQueue == nil {
		return result, record
	}

	for i, w := range res.Windows {
		task := &taskqueue.SliceTask{
			RunID:       runID,
			EntityID:    ea.EntityID,
			SliceIndex:  i,
			SliceStart:  res.Sequence[i].String(),
			WindowStart: w.Start,
			WindowEnd:   w.End,
			Source:      res.Source.String(),
		}

		outcome := "dispatched"
		if _, err := s.taskQueue.EnqueueSlice(ctx, task); err != nil {
			outcome = "failed"
			result.Failed++
			slog.WarnContext(ctx, "failed to dispatch slice",
				slog.String("run_id", runID),
				slog.String("entity_id", ea.EntityID),
				slog.Int("slice_index", i),
				slog.String("error", err.Error()),
			)
		} else {
			result.Dispatched++
		}
		if s.metrics != nil {
			s.metrics.RecordSliceDispatched(ctx, outcome)
		}
	}

	record.DispatchedCount = result.Dispatched
	record.FailedCount = result.Failed

	return result, record
}

// CancelSlice removes a previously dispatched slice task.
func (s *Service) CancelSlice(ctx context.Context, taskID string) error {
	if s.taskQueue == nil {
		return ErrDispatchDisabled
	}
	return s.taskQueue.DeleteTask(ctx, taskID)
}
