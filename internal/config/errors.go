package config

import "errors"

var (
	ErrRedisAddrMissing   = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB     = errors.New("REDIS_DB must be a valid integer")
	ErrInvalidWindowValue = errors.New("invalid window configuration value")
	ErrPartialBounds      = errors.New("GLOBAL_START_* and GLOBAL_END_* must be set together")
	ErrUnknownControls    = errors.New("INDIVIDUAL_PATIENT_WINDOW_CONTROLS_METHOD must be full or random")
)
