package logger

import (
	"bytes"
	"context"
	"testing"

	kit "careview/internal/platform/testkit"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		" INFO ":  zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.DebugLevel,
		"chatty":  zerolog.DebugLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

// Init runs once per process, so everything that depends on the root
// writer is asserted here
func TestInit_ChildLoggersCarryFields(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{
		Level:        "info",
		Format:       "json",
		Service:      "careview-api",
		Writer:       &buf,
		SampleEvery:  2,
		StaticFields: map[string]string{"build": "test"},
	})

	unsampled := func(l *Logger) *Logger {
		s := l.Sample(&zerolog.BasicSampler{N: 1})
		return &s
	}

	unsampled(Named("pager")).Info().Msg("named")

	ctx := WithRequest(context.Background(), "req-1", "org-7")
	unsampled(C(ctx)).Info().Msg("scoped")

	chiCtx := context.WithValue(context.Background(), chimw.RequestIDKey, "chi-9")
	unsampled(C(chiCtx)).Info().Msg("from chi")

	unsampled(Get()).Debug().Msg("below level")

	out := buf.String()
	for _, want := range []string{
		`"component":"pager"`,
		`"request_id":"req-1"`,
		`"owner_id":"org-7"`,
		`"request_id":"chi-9"`,
		`"service":"careview-api"`,
		`"build":"test"`,
	} {
		kit.MustContain(t, out, want)
	}
	if bytes.Contains(buf.Bytes(), []byte("below level")) {
		t.Fatalf("debug line written at info level")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("LOG_CALLER", "true")
	t.Setenv("LOG_SAMPLE_EVERY", "5")

	opt := FromEnv()
	if opt.Level != "warn" || opt.Format != "json" || opt.Service != "careview-api" {
		t.Fatalf("opts = %+v", opt)
	}
	if !opt.WithCaller || opt.SampleEvery != 5 {
		t.Fatalf("opts = %+v", opt)
	}
}
