package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/KasumiMercury/patient-window-scheduler/internal/domain"
	"github.com/KasumiMercury/patient-window-scheduler/internal/service/calendar"
	"github.com/KasumiMercury/patient-window-scheduler/internal/service/entity"
	"github.com/KasumiMercury/patient-window-scheduler/internal/service/sequence"
)

const (
	windowLookbackEnv   = "WINDOW_LOOKBACK"
	globalStartYearEnv  = "GLOBAL_START_YEAR"
	globalStartMonthEnv = "GLOBAL_START_MONTH"
	globalStartDayEnv   = "GLOBAL_START_DAY"
	globalEndYearEnv    = "GLOBAL_END_YEAR"
	globalEndMonthEnv   = "GLOBAL_END_MONTH"
	globalEndDayEnv     = "GLOBAL_END_DAY"
	individualWindowEnv = "INDIVIDUAL_PATIENT_WINDOW"
	controlsMethodEnv   = "INDIVIDUAL_PATIENT_WINDOW_CONTROLS_METHOD"
	verbosityEnv        = "VERBOSITY"
	spanYearsEnv        = "WINDOW_SPAN_YEARS"
	spanMonthsEnv       = "WINDOW_SPAN_MONTHS"
	spanDaysEnv         = "WINDOW_SPAN_DAYS"
	stepYearsEnv        = "WINDOW_STEP_YEARS"
	stepMonthsEnv       = "WINDOW_STEP_MONTHS"
	stepDaysEnv         = "WINDOW_STEP_DAYS"
	randomSeedEnv       = "WINDOW_RANDOM_SEED"
	maxIterationsEnv    = "WINDOW_MAX_ITERATIONS"

	defaultControlsMethod = entity.FallbackFull
	defaultStepDays       = 1
)

type WindowConfig struct {
	Lookback       bool
	Bounds         domain.GlobalBounds
	Scoped         bool
	ControlsMethod entity.FallbackMethod
	Verbosity      int
	Span           domain.Span
	Step           domain.RelativeDuration
	RandomSeed     int64
	MaxIterations  int
}

// LoadWindowConfig reads the windowing settings. Unset values fall back to
// defaults; malformed values are reported together.
func LoadWindowConfig() (*WindowConfig, error) {
	var errs []error

	intEnv := func(key string, def int) int {
		v, err := envInt(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}
	boolEnv := func(key string) bool {
		v, err := envBool(key)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}

	cfg := &WindowConfig{
		Lookback:       boolEnv(windowLookbackEnv),
		Scoped:         boolEnv(individualWindowEnv),
		ControlsMethod: entity.FallbackMethod(strings.ToLower(strings.TrimSpace(os.Getenv(controlsMethodEnv)))),
		Verbosity:      intEnv(verbosityEnv, 0),
		Span: domain.Span{
			Years:  intEnv(spanYearsEnv, 0),
			Months: intEnv(spanMonthsEnv, 0),
			Days:   intEnv(spanDaysEnv, 0),
		},
		Step: domain.RelativeDuration{
			Years:  intEnv(stepYearsEnv, 0),
			Months: intEnv(stepMonthsEnv, 0),
			Days:   intEnv(stepDaysEnv, defaultStepDays),
		},
		RandomSeed:    int64(intEnv(randomSeedEnv, 0)),
		MaxIterations: intEnv(maxIterationsEnv, sequence.DefaultMaxIterations),
	}

	if cfg.ControlsMethod == "" {
		cfg.ControlsMethod = defaultControlsMethod
	}

	bounds, err := loadBounds()
	if err != nil {
		errs = append(errs, err)
	}
	cfg.Bounds = bounds

	if len(errs) > 0 {
		return nil, fmt.Errorf("window configuration errors: %w", errors.Join(errs...))
	}

	return cfg, nil
}

// loadBounds defaults to the whole supported calendar when no bound is set.
func loadBounds() (domain.GlobalBounds, error) {
	keys := []string{
		globalStartYearEnv, globalStartMonthEnv, globalStartDayEnv,
		globalEndYearEnv, globalEndMonthEnv, globalEndDayEnv,
	}

	values := make([]string, len(keys))
	set := 0
	for i, k := range keys {
		values[i] = os.Getenv(k)
		if values[i] != "" {
			set++
		}
	}

	switch set {
	case 0:
		return domain.GlobalBounds{Start: domain.FirstCalendarDate(), End: domain.LastCalendarDate()}, nil
	case len(keys):
	default:
		return domain.GlobalBounds{}, ErrPartialBounds
	}

	dates, err := calendar.ValidateComponents(values[0], values[1], values[2], values[3], values[4], values[5])
	if err != nil {
		return domain.GlobalBounds{}, fmt.Errorf("global bounds: %w", err)
	}

	return domain.GlobalBounds{
		Start: domain.MinDate(dates.Start, dates.End),
		End:   domain.MaxDate(dates.Start, dates.End),
	}, nil
}

func (c *WindowConfig) Validate() error {
	var errs []error

	if c.ControlsMethod != entity.FallbackFull && c.ControlsMethod != entity.FallbackRandom {
		errs = append(errs, ErrUnknownControls)
	}
	if c.Span.IsNegative() {
		errs = append(errs, fmt.Errorf("WINDOW_SPAN_*: %w", &domain.SpanError{Span: c.Span}))
	}
	if !c.Step.IsPositive() {
		errs = append(errs, fmt.Errorf("WINDOW_STEP_* = %s: %w", c.Step, domain.ErrInvalidInterval))
	}
	if c.MaxIterations <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive: %w", maxIterationsEnv, ErrInvalidWindowValue))
	}

	return errors.Join(errs...)
}

// Policy returns the resolution snapshot for one run.
func (c *WindowConfig) Policy() entity.Policy {
	return entity.Policy{
		Lookback: c.Lookback,
		Span:     c.Span,
		Step:     c.Step,
		Bounds:   c.Bounds,
		Scoped:   c.Scoped,
		Fallback: c.ControlsMethod,
		Seed:     c.RandomSeed,
	}
}

func envInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def, fmt.Errorf("%s=%q: %w", key, raw, ErrInvalidWindowValue)
	}
	return v, nil
}

func envBool(key string) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s=%q: %w", key, raw, ErrInvalidWindowValue)
	}
	return v, nil
}
