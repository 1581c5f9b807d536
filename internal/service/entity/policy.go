// Package entity decides which window an entity gets: the shared global
// window, its own override, or a control fallback.
package entity

import (
	"github.com/KasumiMercury/patient-window-scheduler/internal/domain"
)

type FallbackMethod string

const (
	FallbackFull   FallbackMethod = "full"
	FallbackRandom FallbackMethod = "random"
)

// Policy is an immutable snapshot of the resolution settings for one run.
type Policy struct {
	Lookback bool
	Span     domain.Span
	Step     domain.RelativeDuration
	Bounds   domain.GlobalBounds
	Scoped   bool
	Fallback FallbackMethod
	Seed     int64
}
