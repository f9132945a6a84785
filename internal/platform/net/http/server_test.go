package http_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"careview/internal/platform/config"
	phttp "careview/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func get(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestRouter_RoutesGroupsAndParams(t *testing.T) {
	hooked := false
	srv := phttp.NewServer(config.New().Prefix("CORE_API_"), func(*chi.Mux) { hooked = true })
	if !hooked {
		t.Fatalf("option hook not called")
	}
	r := srv.Router()

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-Outer", "1")
			next.ServeHTTP(w, req)
		})
	})
	r.Route("/resources", func(sub phttp.Router) {
		sub.Get("/{id}/comments", func(w http.ResponseWriter, req *http.Request) {
			_, _ = io.WriteString(w, phttp.URLParam(req, "id"))
		})
		sub.Post("/{id}/comments", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusCreated)
		})
	})
	r.Group(func(g phttp.Router) {
		g.Handle("/health", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
	})

	mux := r.Mux()
	if rec := get(mux, http.MethodGet, "/resources/r-9/comments"); rec.Body.String() != "r-9" || rec.Header().Get("X-Outer") != "1" {
		t.Fatalf("get: body=%q headers=%v", rec.Body.String(), rec.Header())
	}
	if rec := get(mux, http.MethodPost, "/resources/r-9/comments"); rec.Code != http.StatusCreated {
		t.Fatalf("post: %d", rec.Code)
	}
	if rec := get(mux, http.MethodDelete, "/resources/r-9/comments"); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("delete: %d", rec.Code)
	}
	if rec := get(mux, http.MethodGet, "/health"); rec.Code != http.StatusNoContent {
		t.Fatalf("group: %d", rec.Code)
	}
}

func TestProfiler(t *testing.T) {
	on := phttp.NewServer(config.New()).Router()
	phttp.MountProfiler(on, "/debug", true)
	if rec := get(on.Mux(), http.MethodGet, "/debug/pprof/cmdline"); rec.Code != http.StatusOK {
		t.Fatalf("enabled: %d", rec.Code)
	}

	off := phttp.NewServer(config.New()).Router()
	phttp.MountProfiler(off, "/debug", false)
	if rec := get(off.Mux(), http.MethodGet, "/debug/pprof/"); rec.Code != http.StatusNotFound {
		t.Fatalf("disabled: %d", rec.Code)
	}
}

func TestServer_AddrFromConfig(t *testing.T) {
	if addr := phttp.NewServer(config.New().Prefix("CORE_API_")).Addr(); addr != ":4000" {
		t.Fatalf("default addr = %q", addr)
	}
	t.Setenv("CORE_API_PORT", ":12345")
	if addr := phttp.NewServer(config.New().Prefix("CORE_API_")).Addr(); addr != ":12345" {
		t.Fatalf("addr = %q", addr)
	}
}

func TestServer_RunShutdown(t *testing.T) {
	t.Setenv("CORE_API_PORT", "127.0.0.1:0")
	srv := phttp.NewServer(config.New().Prefix("CORE_API_"))

	done := make(chan error, 1)
	go func() { done <- srv.Run(context.Background()) }()
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not return")
	}
}

func TestServer_RunListenError(t *testing.T) {
	t.Setenv("CORE_API_PORT", "127.0.0.1:abc")
	if err := phttp.NewServer(config.New().Prefix("CORE_API_")).Run(context.Background()); err == nil {
		t.Fatalf("expected listen error")
	}
}
