package config

import (
	"io"
	"time"
)

// TimeConfig reads integer values and scales them to a duration unit.
type TimeConfig interface {
	// GetSecond returns the value of key as a number of seconds.
	GetSecond(key string) time.Duration
	// GetMinute returns the value of key as a number of minutes.
	GetMinute(key string) time.Duration
	// GetHour returns the value of key as a number of hours.
	GetHour(key string) time.Duration
}

// Config is the read-only view over application configuration.
//
// Missing keys resolve to the zero value of the requested type; callers that
// need a default should set it in the configuration source.
type Config interface {
	io.Closer
	TimeConfig

	GetInt(key string) int
	GetInt32(key string) int32
	GetUint64(key string) uint64
	GetFloat64(key string) float64
	GetBool(key string) bool
	GetString(key string) string

	// GetArray splits a "<a>,<b>,..." value into trimmed, non-empty elements.
	GetArray(key string) []string
}
