// Package config reads application configuration from environment variables
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"careview/internal/platform/logger"
)

// Conf is a namespaced view over environment variables, e.g. Prefix("CARE_API_")
type Conf struct{ prefix string }

// New creates a root Conf with no prefix
func New() Conf { return Conf{} }

// Prefix creates a child Conf with p appended to the prefix
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) key(k string) string { return c.prefix + k }

func (c Conf) lookup(key string) string { return strings.TrimSpace(os.Getenv(c.key(key))) }

// MustString returns the value of key and panics when it is missing or blank
func (c Conf) MustString(key string) string {
	v := c.lookup(key)
	if v == "" {
		logger.Get().Panic().Str("key", c.key(key)).Msg("missing required env")
	}
	return v
}

// MayString returns the value of key or def when it is missing or blank
func (c Conf) MayString(key, def string) string {
	if v := c.lookup(key); v != "" {
		return v
	}
	return def
}

// MayInt returns key parsed as an int, or def when missing or invalid
func (c Conf) MayInt(key string, def int) int { return may(c, key, def, strconv.Atoi) }

// MayFloat64 returns key parsed as a float64, or def when missing or invalid
func (c Conf) MayFloat64(key string, def float64) float64 {
	return may(c, key, def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// MayBool returns key parsed with strconv.ParseBool, or def when missing or invalid
func (c Conf) MayBool(key string, def bool) bool { return may(c, key, def, strconv.ParseBool) }

// MayDuration returns key parsed as a time.Duration, or def when missing or invalid
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return may(c, key, def, time.ParseDuration)
}

// may parses key, logging and falling back to def on a bad value
func may[T any](c Conf, key string, def T, parse func(string) (T, error)) T {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Interface("default", def).
			Msg("invalid env value, using default")
		return def
	}
	return v
}
