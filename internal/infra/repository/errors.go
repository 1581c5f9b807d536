package repository

import "errors"

var (
	ErrRedisConnection     = errors.New("redis connection error")
	ErrInvalidOverrideData = errors.New("invalid override data")
)
