package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/patient-window-scheduler/internal/domain"
	"github.com/KasumiMercury/patient-window-scheduler/internal/observability/tracing"
)

const (
	overrideKeyPrefix = "window:override:"
	overrideSetKey    = "window:overrides"

	fieldStart = "start"
	fieldEnd   = "end"
)

type overrideRepository struct {
	client *redis.Client
}

func NewOverrideRepository(client *redis.Client) domain.OverrideRepository {
	return &overrideRepository{
		client: client,
	}
}

func overrideKey(entityID string) string {
	return overrideKeyPrefix + entityID
}

// GetOverride returns domain.ErrOverrideNotFound when the entity has none and
// an error wrapping domain.ErrInvalidDate when the stored dates are corrupt.
func (r *overrideRepository) GetOverride(ctx context.Context, entityID string) (*domain.EntityWindowSpec, error) {
	key := overrideKey(entityID)

	ctx, span := tracing.StartRedisOperationSpan(ctx, "hgetall", key)
	defer span.End()

	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %w", ErrRedisConnection, err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrOverrideNotFound
	}

	spec, err := decodeOverride(entityID, fields)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &spec, nil
}

// ListOverrides returns every stored override. Entries whose dates cannot be
// read are left out of the pool.
func (r *overrideRepository) ListOverrides(ctx context.Context) ([]domain.EntityWindowSpec, error) {
	ctx, span := tracing.StartRedisOperationSpan(ctx, "smembers", overrideSetKey)
	defer span.End()

	ids, err := r.client.SMembers(ctx, overrideSetKey).Result()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %w", ErrRedisConnection, err)
	}
	if len(ids) == 0 {
		return []domain.EntityWindowSpec{}, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, overrideKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %w", ErrRedisConnection, err)
	}

	specs := make([]domain.EntityWindowSpec, 0, len(ids))
	for i, id := range ids {
		fields, err := cmds[i].Result()
		if err != nil || len(fields) == 0 {
			continue
		}
		spec, err := decodeOverride(id, fields)
		if err != nil {
			slog.WarnContext(ctx, "ignoring unreadable override in pool",
				slog.String("entity_id", id),
				slog.String("error", err.Error()),
			)
			continue
		}
		specs = append(specs, spec)
	}

	return specs, nil
}

func (r *overrideRepository) SaveOverride(ctx context.Context, spec domain.EntityWindowSpec) error {
	if spec.EntityID == "" {
		return fmt.Errorf("%w: entity id is required", ErrInvalidOverrideData)
	}
	if spec.Start.IsZero() || spec.End.IsZero() {
		return fmt.Errorf("%w: start and end are required", domain.ErrInvalidDate)
	}

	key := overrideKey(spec.EntityID)

	ctx, span := tracing.StartRedisOperationSpan(ctx, "save_override", key)
	defer span.End()

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, fieldStart, spec.Start.String(), fieldEnd, spec.End.String())
	pipe.SAdd(ctx, overrideSetKey, spec.EntityID)

	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: %w", ErrRedisConnection, err)
	}
	return nil
}

func (r *overrideRepository) DeleteOverride(ctx context.Context, entityID string) error {
	key := overrideKey(entityID)

	ctx, span := tracing.StartRedisOperationSpan(ctx, "delete_override", key)
	defer span.End()

	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, key)
	pipe.SRem(ctx, overrideSetKey, entityID)

	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: %w", ErrRedisConnection, err)
	}
	if del.Val() == 0 {
		return domain.ErrOverrideNotFound
	}
	return nil
}

func decodeOverride(entityID string, fields map[string]string) (domain.EntityWindowSpec, error) {
	start, err := domain.ParseCalendarDate(fields[fieldStart])
	if err != nil {
		return domain.EntityWindowSpec{}, &domain.DateError{Which: "start", Value: fields[fieldStart], Err: err}
	}
	end, err := domain.ParseCalendarDate(fields[fieldEnd])
	if err != nil {
		return domain.EntityWindowSpec{}, &domain.DateError{Which: "end", Value: fields[fieldEnd], Err: err}
	}
	return domain.EntityWindowSpec{EntityID: entityID, Start: start, End: end}, nil
}
