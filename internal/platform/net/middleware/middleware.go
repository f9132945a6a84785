// Package middleware assembles the request pipeline in front of the API:
// chi's stock middleware, CORS, a zerolog access log and a panic guard that
// answers in the JSON envelope
package middleware

import (
	"compress/flate"
	"net/http"
	"runtime/debug"
	"time"

	perr "careview/internal/platform/errors"
	"careview/internal/platform/logger"
	phttp "careview/internal/platform/net/http"
	pstrings "careview/internal/platform/strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// Middleware is the net/http middleware shape chi uses
type Middleware = func(http.Handler) http.Handler

// Options tune Stack. Zero values take the defaults
type Options struct {
	// Timeout cancels request contexts, default 30s
	Timeout time.Duration
	// Slow logs requests at warn level once they take this long, default 500ms
	Slow time.Duration
	CORS CORSOptions
}

// Stack is the middleware every API request passes through, outermost first
func Stack(o Options) []Middleware {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.Slow <= 0 {
		o.Slow = 500 * time.Millisecond
	}
	// redirects are how list state moves, browsers must be able to read them
	o.CORS.ExposedHeaders = append(o.CORS.ExposedHeaders, "Location")

	return []Middleware{
		chimw.RequestID,
		chimw.RealIP,
		RecoverJSON,
		chimw.NoCache,
		AccessLog(o.Slow),
		CORS(o.CORS),
		chimw.NewCompressor(flate.BestSpeed).Handler,
		chimw.StripSlashes,
		chimw.Timeout(o.Timeout),
	}
}

// Heartbeat answers GET path with 200 before any routing. Load balancers
// probe it on the root mux, outside the versioned API
func Heartbeat(path string) Middleware { return chimw.Heartbeat(path) }

// CORSOptions is the part of go-chi/cors the API configures
type CORSOptions struct {
	AllowedOrigins   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// CORS allows the verbs the API serves and the headers it reads
func CORS(o CORSOptions) Middleware {
	return chicors.Handler(chicors.Options{
		AllowedOrigins:   o.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   pstrings.IfEmpty(o.AllowedHeaders, []string{"Accept", "Content-Type", "X-Request-ID"}),
		ExposedHeaders:   o.ExposedHeaders,
		AllowCredentials: o.AllowCredentials,
		MaxAge:           o.MaxAge,
	})
}

// AccessLog writes one line per request through the request scoped logger.
// Requests slower than slow log at warn
func AccessLog(slow time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			elapsed := time.Since(start)
			log := logger.C(r.Context())
			evt := log.Info()
			if slow > 0 && elapsed >= slow {
				evt = log.Warn()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if loc := ww.Header().Get("Location"); loc != "" {
				evt = evt.Str("location", loc)
			}
			evt.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("elapsed", elapsed).
				Msg("request done")
		})
	}
}

// RecoverJSON turns a panic into a 500 envelope and logs the stack
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil || v == http.ErrAbortHandler {
				if v != nil {
					panic(v)
				}
				return
			}
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")
			if id := chimw.GetReqID(r.Context()); id != "" {
				w.Header().Set("X-Request-ID", id)
			}
			phttp.RespondError(w, r, perr.PanicErrf("internal error"), nil)
		}()
		next.ServeHTTP(w, r)
	})
}
