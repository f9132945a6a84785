package careapi

import (
	"careview/internal/platform/config"
)

// FromConfig reads CARE_API_* values from process config/env
// BASE_URL is required and panics when missing, like every Must* read
func FromConfig(cfg config.Conf) Options {
	cc := cfg.Prefix("CARE_API_")
	return Options{
		BaseURL:    cc.MustString("BASE_URL"),
		Token:      cc.MayString("TOKEN", ""),
		UserAgent:  cc.MayString("UA", defaultUA),
		Timeout:    cc.MayDuration("TIMEOUT", defaultTimeout),
		MaxRetries: cc.MayInt("MAX_RETRIES", defaultMaxRetry),
		RetryBase:  cc.MayDuration("RETRY_BASE", defaultRetryBase),
		Rate:       cc.MayFloat64("RATE", 0),
		Burst:      cc.MayInt("BURST", 0),
		PingPath:   cc.MayString("PING_PATH", defaultPingPath),
	}
}
