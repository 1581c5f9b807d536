package entity

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"math/rand/v2"

	"github.com/KasumiMercury/patient-window-scheduler/internal/domain"
)

// Fallback picks a window for a control entity, one without an override.
type Fallback interface {
	Source() domain.WindowSource
	Select(ctx context.Context, entityID string) (domain.EntityWindowSpec, error)
}

// PoolLoader returns the overrides a random fallback may borrow from.
type PoolLoader func(ctx context.Context) ([]domain.EntityWindowSpec, error)

// NewFallback returns the fallback for method.
func NewFallback(method FallbackMethod, bounds domain.GlobalBounds, seed int64, pool PoolLoader) (Fallback, error) {
	switch method {
	case FallbackFull:
		slog.Debug("using full control fallback")
		return NewFullFallback(bounds), nil
	case FallbackRandom:
		slog.Debug("using random control fallback", slog.Int64("seed", seed))
		return NewRandomFallback(seed, pool), nil
	default:
		return nil, fmt.Errorf("%q: %w", method, domain.ErrUnknownFallbackPolicy)
	}
}

// FullFallback gives every control entity the global bounds.
type FullFallback struct {
	bounds domain.GlobalBounds
}

func NewFullFallback(bounds domain.GlobalBounds) *FullFallback {
	return &FullFallback{bounds: bounds}
}

func (f *FullFallback) Source() domain.WindowSource {
	return domain.WindowSourceControlFull
}

func (f *FullFallback) Select(_ context.Context, entityID string) (domain.EntityWindowSpec, error) {
	return domain.EntityWindowSpec{EntityID: entityID, Start: f.bounds.Start, End: f.bounds.End}, nil
}

// RandomFallback borrows one override from the pool. The draw depends only on
// the seed and the entity ID, never on the order entities are processed in.
type RandomFallback struct {
	seed int64
	pool PoolLoader
}

func NewRandomFallback(seed int64, pool PoolLoader) *RandomFallback {
	return &RandomFallback{seed: seed, pool: pool}
}

func (f *RandomFallback) Source() domain.WindowSource {
	return domain.WindowSourceControlRandom
}

func (f *RandomFallback) Select(ctx context.Context, entityID string) (domain.EntityWindowSpec, error) {
	var pool []domain.EntityWindowSpec
	if f.pool != nil {
		p, err := f.pool(ctx)
		if err != nil {
			return domain.EntityWindowSpec{}, err
		}
		pool = p
	}
	if len(pool) == 0 {
		return domain.EntityWindowSpec{}, domain.ErrEmptyOverridePool
	}

	rng := rand.New(rand.NewPCG(uint64(f.seed), entityHash(entityID)))
	borrowed := pool[rng.IntN(len(pool))]

	slog.DebugContext(ctx, "borrowed override for control entity",
		slog.String("entity_id", entityID),
		slog.String("borrowed_from", borrowed.EntityID),
	)

	return domain.EntityWindowSpec{EntityID: entityID, Start: borrowed.Start, End: borrowed.End}, nil
}

func entityHash(entityID string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(entityID))
	return h.Sum64()
}
