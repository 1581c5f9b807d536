package entity

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/KasumiMercury/patient-window-scheduler/internal/domain"
	"github.com/KasumiMercury/patient-window-scheduler/internal/observability/metrics"
	"github.com/KasumiMercury/patient-window-scheduler/internal/observability/tracing"
	"github.com/KasumiMercury/patient-window-scheduler/internal/service/calendar"
	"github.com/KasumiMercury/patient-window-scheduler/internal/service/sequence"
)

// Resolution is the window an entity will be processed over.
type Resolution struct {
	EntityID string
	Source   domain.WindowSource
	Bounds   domain.GlobalBounds
	Sequence domain.WindowSequence
	Windows  []domain.TimeWindow
}

type Resolver struct {
	policy    Policy
	generator *sequence.Generator
	overrides domain.OverrideRepository
	metrics   *metrics.WindowMetrics

	fallback    Fallback
	fallbackErr error

	globalOnce sync.Once
	global     domain.WindowSequence
	globalErr  error

	poolOnce sync.Once
	pool     []domain.EntityWindowSpec
	poolErr  error
}

// NewResolver binds a policy snapshot to its collaborators. overrides may be
// nil, in which case every scoped entity is a control entity.
func NewResolver(
	policy Policy,
	generator *sequence.Generator,
	overrides domain.OverrideRepository,
	windowMetrics *metrics.WindowMetrics,
) *Resolver {
	r := &Resolver{
		policy:    policy,
		generator: generator,
		overrides: overrides,
		metrics:   windowMetrics,
	}
	if policy.Scoped {
		r.fallback, r.fallbackErr = NewFallback(policy.Fallback, policy.Bounds, policy.Seed, r.loadPool)
	}
	return r
}

func (r *Resolver) Policy() Policy {
	return r.policy
}

// Resolve returns the entity's sequence, or a *domain.SkipError when the
// entity cannot be processed. anchor is only consulted in unscoped mode; a
// zero anchor selects the sequence shared by every entity.
func (r *Resolver) Resolve(ctx context.Context, entityID string, anchor domain.CalendarDate) (Resolution, error) {
	ctx, span := tracing.StartResolveSpan(ctx, entityID)
	defer span.End()

	res, err := r.resolve(ctx, entityID, anchor)

	outcome := "resolved"
	if err != nil {
		outcome = "skipped"
		slog.WarnContext(ctx, "skipping entity",
			slog.String("entity_id", entityID),
			slog.String("error", err.Error()),
		)
	}
	if r.metrics != nil {
		r.metrics.RecordEntityResolved(ctx, res.Source.String(), outcome)
	}
	tracing.RecordResolveResult(span, res.Source.String(), len(res.Sequence), err)

	return res, err
}

func (r *Resolver) resolve(ctx context.Context, entityID string, anchor domain.CalendarDate) (Resolution, error) {
	if !r.policy.Scoped {
		return r.resolveUnscoped(ctx, entityID, anchor)
	}

	spec, found, err := r.lookupOverride(ctx, entityID)
	if err != nil {
		return Resolution{EntityID: entityID, Source: domain.WindowSourceOverride}, err
	}
	if found {
		return r.resolveSpec(ctx, spec, domain.WindowSourceOverride)
	}

	if r.fallbackErr != nil {
		return Resolution{EntityID: entityID}, &domain.SkipError{
			EntityID: entityID,
			Reason:   domain.SkipReasonUnknownPolicy,
			Err:      r.fallbackErr,
		}
	}

	source := r.fallback.Source()
	spec, err = r.fallback.Select(ctx, entityID)
	if err != nil {
		reason := domain.SkipReasonRepository
		if errors.Is(err, domain.ErrEmptyOverridePool) {
			reason = domain.SkipReasonEmptyPool
		}
		return Resolution{EntityID: entityID, Source: source}, &domain.SkipError{
			EntityID: entityID,
			Reason:   reason,
			Err:      err,
		}
	}

	return r.resolveSpec(ctx, spec, source)
}

func (r *Resolver) resolveUnscoped(ctx context.Context, entityID string, anchor domain.CalendarDate) (Resolution, error) {
	var (
		seq domain.WindowSequence
		err error
	)
	if anchor.IsZero() {
		seq, err = r.globalSequence(ctx)
	} else {
		seq, err = r.generator.Generate(ctx, sequence.Request{
			Anchor:   anchor,
			Span:     r.policy.Span,
			Step:     r.policy.Step,
			Lookback: r.policy.Lookback,
			Bounds:   r.policy.Bounds,
		})
	}

	res := Resolution{EntityID: entityID, Source: domain.WindowSourceGlobal, Bounds: r.policy.Bounds}
	if err != nil {
		return res, &domain.SkipError{EntityID: entityID, Reason: domain.SkipReasonGeneration, Err: err}
	}
	return r.withWindows(res, seq)
}

// globalSequence is generated once per resolver. Each caller gets its own
// copy so the cached sequence is never written through.
func (r *Resolver) globalSequence(ctx context.Context) (domain.WindowSequence, error) {
	r.globalOnce.Do(func() {
		anchor := r.policy.Bounds.Start
		if r.policy.Lookback {
			anchor = r.policy.Bounds.End
		}
		r.global, r.globalErr = r.generator.Generate(ctx, sequence.Request{
			Anchor:   anchor,
			Span:     r.policy.Span,
			Step:     r.policy.Step,
			Lookback: r.policy.Lookback,
			Bounds:   r.policy.Bounds,
		})
	})
	if r.globalErr != nil {
		return nil, r.globalErr
	}
	return slices.Clone(r.global), nil
}

// resolveSpec generates a sequence covering exactly [spec.Start, spec.End].
func (r *Resolver) resolveSpec(ctx context.Context, spec domain.EntityWindowSpec, source domain.WindowSource) (Resolution, error) {
	res := Resolution{EntityID: spec.EntityID, Source: source}

	if spec.Start.IsZero() || spec.End.IsZero() {
		return res, &domain.SkipError{
			EntityID: spec.EntityID,
			Reason:   domain.SkipReasonInvalidOverride,
			Err:      domain.ErrInvalidDate,
		}
	}

	bounds := spec.Bounds()
	res.Bounds = bounds

	anchor := bounds.Start
	if r.policy.Lookback {
		anchor = bounds.End
	}

	seq, err := r.generator.Generate(ctx, sequence.Request{
		Anchor:   anchor,
		Span:     domain.Span{Days: bounds.Start.DaysUntil(bounds.End)},
		Step:     r.policy.Step,
		Lookback: r.policy.Lookback,
		Bounds:   bounds,
	})
	if err != nil {
		return res, &domain.SkipError{EntityID: spec.EntityID, Reason: domain.SkipReasonGeneration, Err: err}
	}

	slog.DebugContext(ctx, "entity window resolved",
		slog.String("entity_id", spec.EntityID),
		slog.String("source", source.String()),
		slog.String("bounds", bounds.String()),
		slog.Int("slices", len(seq)),
	)

	return r.withWindows(res, seq)
}

// withWindows resolves every slice into a concrete time window.
func (r *Resolver) withWindows(res Resolution, seq domain.WindowSequence) (Resolution, error) {
	windows := make([]domain.TimeWindow, 0, len(seq))
	for _, start := range seq {
		w, err := calendar.ResolveWindow(start, r.policy.Step)
		if err != nil {
			return res, &domain.SkipError{EntityID: res.EntityID, Reason: domain.SkipReasonGeneration, Err: err}
		}
		windows = append(windows, w)
	}
	res.Sequence = seq
	res.Windows = windows
	return res, nil
}

func (r *Resolver) lookupOverride(ctx context.Context, entityID string) (domain.EntityWindowSpec, bool, error) {
	if r.overrides == nil {
		return domain.EntityWindowSpec{}, false, nil
	}

	spec, err := r.overrides.GetOverride(ctx, entityID)
	switch {
	case errors.Is(err, domain.ErrOverrideNotFound):
		return domain.EntityWindowSpec{}, false, nil
	case errors.Is(err, domain.ErrInvalidDate):
		return domain.EntityWindowSpec{}, false, &domain.SkipError{
			EntityID: entityID,
			Reason:   domain.SkipReasonInvalidOverride,
			Err:      err,
		}
	case err != nil:
		return domain.EntityWindowSpec{}, false, &domain.SkipError{
			EntityID: entityID,
			Reason:   domain.SkipReasonRepository,
			Err:      err,
		}
	case spec == nil:
		return domain.EntityWindowSpec{}, false, nil
	}

	out := *spec
	out.EntityID = entityID
	return out, true, nil
}

// loadPool reads the override pool once per resolver, ordered by entity ID.
func (r *Resolver) loadPool(ctx context.Context) ([]domain.EntityWindowSpec, error) {
	r.poolOnce.Do(func() {
		if r.overrides == nil {
			return
		}
		pool, err := r.overrides.ListOverrides(ctx)
		if err != nil {
			r.poolErr = err
			return
		}
		slices.SortFunc(pool, func(a, b domain.EntityWindowSpec) int {
			return cmp.Compare(a.EntityID, b.EntityID)
		})
		r.pool = pool
	})
	return r.pool, r.poolErr
}
