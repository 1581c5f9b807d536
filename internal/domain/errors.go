package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDate           = errors.New("invalid date")
	ErrInvalidInterval       = errors.New("invalid interval")
	ErrSchema                = errors.New("schema error")
	ErrEntitySkipped         = errors.New("entity skipped")
	ErrOverrideNotFound      = errors.New("window override not found")
	ErrEmptyOverridePool     = errors.New("window override pool is empty")
	ErrUnknownFallbackPolicy = errors.New("unknown control fallback policy")
)

// DateError reports which end of a date pair failed validation.
type DateError struct {
	Which string // "start" or "end"
	Value string
	Err   error
}

func (e *DateError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid %s date %s: %v", e.Which, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid %s date: %v", e.Which, e.Err)
}

func (e *DateError) Unwrap() error { return e.Err }

func (e *DateError) Is(target error) bool { return target == ErrInvalidDate }

// IntervalError reports a stepping interval that does not move time forward.
type IntervalError struct {
	Interval RelativeDuration
}

func (e *IntervalError) Error() string {
	return fmt.Sprintf("stepping interval %s must be strictly positive", e.Interval)
}

func (e *IntervalError) Is(target error) bool { return target == ErrInvalidInterval }

// SpanError reports a requested extent with a negative component.
type SpanError struct {
	Span Span
}

func (e *SpanError) Error() string {
	return fmt.Sprintf("span %dy%dm%dd must not be negative", e.Span.Years, e.Span.Months, e.Span.Days)
}

func (e *SpanError) Is(target error) bool { return target == ErrInvalidInterval }

// SchemaError reports a missing column in a record table.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("timestamp column %q not found", e.Column)
}

func (e *SchemaError) Is(target error) bool { return target == ErrSchema }

// SkipError marks an entity that could not be resolved. The batch continues.
type SkipError struct {
	EntityID string
	Reason   string
	Err      error
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("entity %s skipped (%s): %v", e.EntityID, e.Reason, e.Err)
}

func (e *SkipError) Unwrap() error { return e.Err }

func (e *SkipError) Is(target error) bool { return target == ErrEntitySkipped }

// Skip reasons.
const (
	SkipReasonInvalidOverride = "invalid_override"
	SkipReasonEmptyPool       = "empty_override_pool"
	SkipReasonUnknownPolicy   = "unknown_fallback_policy"
	SkipReasonRepository      = "override_lookup_failed"
	SkipReasonGeneration      = "generation_failed"
)
