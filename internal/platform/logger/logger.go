// Package logger is the process wide zerolog setup plus request scoped
// child loggers
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"careview/internal/platform/config/raw"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger is the project wide logging type
type Logger = zerolog.Logger

// Options configures the root logger
type Options struct {
	Level        string
	Format       string // console or json
	Service      string
	Component    string
	Writer       io.Writer
	WithCaller   bool
	SampleEvery  int
	StaticFields map[string]string
}

// FromEnv reads LOG_* through the logger free raw reader
func FromEnv() Options {
	rc := raw.New().Prefix("LOG_")
	return Options{
		Level:       rc.Get("LEVEL", "debug"),
		Format:      strings.ToLower(rc.Get("FORMAT", "console")),
		Service:     rc.Get("SERVICE", "careview-api"),
		Component:   rc.Get("COMPONENT", ""),
		WithCaller:  rc.GetBool("CALLER", false),
		SampleEvery: rc.GetInt("SAMPLE_EVERY", 0),
	}
}

var (
	once sync.Once
	root atomic.Pointer[Logger]
)

// Get returns the root logger, building it from env on first use
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	Init(FromEnv())
	return root.Load()
}

// Init builds the root logger. Only the first call has an effect
func Init(opt Options) {
	once.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano

		w := opt.Writer
		if w == nil {
			w = os.Stdout
		}
		if opt.Format == "console" {
			w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		}

		ctx := zerolog.New(w).Level(parseLevel(opt.Level)).With().Timestamp()
		if bi, ok := debug.ReadBuildInfo(); ok {
			ctx = ctx.Str("go_version", bi.GoVersion)
		}
		for k, v := range map[string]string{"service": opt.Service, "component": opt.Component} {
			if v != "" {
				ctx = ctx.Str(k, v)
			}
		}
		for k, v := range opt.StaticFields {
			ctx = ctx.Str(k, v)
		}
		if opt.WithCaller {
			ctx = ctx.Caller()
		}

		l := ctx.Logger()
		if opt.SampleEvery > 1 {
			l = l.Sample(&zerolog.BasicSampler{N: uint32(opt.SampleEvery)})
		}
		root.Store(&l)
	})
}

// parseLevel accepts zerolog level names plus "warning"; anything else is debug
func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.DebugLevel
	}
	return lvl
}

type ctxKey struct{ name string }

var (
	keyRequestID = ctxKey{"request_id"}
	keyOwnerID   = ctxKey{"owner_id"}
)

// WithRequest annotates ctx with request scoped fields for C
func WithRequest(ctx context.Context, reqID, ownerID string) context.Context {
	if reqID != "" {
		ctx = context.WithValue(ctx, keyRequestID, reqID)
	}
	if ownerID != "" {
		ctx = context.WithValue(ctx, keyOwnerID, ownerID)
	}
	return ctx
}

// C returns a child of the root logger carrying request_id and owner_id
// from ctx. The request id falls back to the one chi's RequestID set
func C(ctx context.Context) *Logger {
	b := Get().With()
	reqID, _ := ctx.Value(keyRequestID).(string)
	if reqID == "" {
		reqID = chimw.GetReqID(ctx)
	}
	if reqID != "" {
		b = b.Str("request_id", reqID)
	}
	if owner, _ := ctx.Value(keyOwnerID).(string); owner != "" {
		b = b.Str("owner_id", owner)
	}
	l := b.Logger()
	return &l
}

// Named returns a child of the root logger with a component field
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}
