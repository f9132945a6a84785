package careapi

import (
	"testing"
	"time"

	"careview/internal/platform/config"
)

func TestFromConfig_ReadsPrefixedEnv(t *testing.T) {
	t.Setenv("CARE_API_BASE_URL", "https://care.example.org/api/v1")
	t.Setenv("CARE_API_TOKEN", "tkn")
	t.Setenv("CARE_API_TIMEOUT", "3s")
	t.Setenv("CARE_API_RATE", "2.5")
	t.Setenv("CARE_API_BURST", "4")

	o := FromConfig(config.New())
	if o.BaseURL != "https://care.example.org/api/v1" || o.Token != "tkn" {
		t.Fatalf("opts = %+v", o)
	}
	if o.Timeout != 3*time.Second || o.Rate != 2.5 || o.Burst != 4 {
		t.Fatalf("opts = %+v", o)
	}
	if o.MaxRetries != defaultMaxRetry || o.RetryBase != defaultRetryBase || o.UserAgent != defaultUA {
		t.Fatalf("defaults not applied: %+v", o)
	}
}

func TestFromConfig_MissingBaseURLPanics(t *testing.T) {
	t.Setenv("CARE_API_BASE_URL", "")
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	_ = FromConfig(config.New())
}
