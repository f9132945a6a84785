// Package httpkit is what module http packages import instead of the
// platform transport: handler adapters, response constructors, path params
// and the versioned API mount
package httpkit

import (
	"context"
	"net/http"
	"time"

	"careview/internal/platform/logger"
	pnet "careview/internal/platform/net"
	phttp "careview/internal/platform/net/http"
	"careview/internal/platform/net/http/bind"
	"careview/internal/platform/net/middleware"
)

type (
	// Response is a return style handler result
	Response = phttp.Response
	// Handler is the route handler type
	Handler = phttp.Handler
	// Router is the routing surface modules mount on
	Router = phttp.Router
)

// Handle adapts a return style handler
func Handle(fn func(*http.Request) Response) Handler { return phttp.Handle(fn) }

// Get mounts a read handler under GET. Its value is sent as 200 data and
// its error as the mapped error envelope
func Get(r Router, path string, fn func(*http.Request) (any, error)) {
	r.Get(path, Handle(func(req *http.Request) Response {
		out, err := fn(req)
		if err != nil {
			return Error(err)
		}
		return phttp.OK(out)
	}))
}

// Created is a 201 with data
func Created(data any) Response { return phttp.Created(data) }

// CreatedAt is a 201 with data and a Location header
func CreatedAt(location string, data any) Response { return phttp.CreatedAt(location, data) }

// SeeOther is a 303 to location
func SeeOther(location string) Response { return phttp.SeeOther(location) }

// Error maps err to its status and envelope
func Error(err error) Response { return phttp.Error(err) }

// ErrorWith is Error with detail echoed back as data
func ErrorWith(err error, detail any) Response { return phttp.ErrorWith(err, detail) }

// Decode reads r's JSON body into T. Validation is left to the caller,
// whose mutation controller reports it with the user facing messages
func Decode[T any](r *http.Request) (T, error) { return bind.DecodeJSON[T](r) }

// Param is the path parameter key, e.g. "id" in "/{id}/comments"
func Param(r *http.Request, key string) string { return phttp.URLParam(r, key) }

// Owner reads path parameter key as the owner of the list the request works
// on and returns r's context annotated with it, so request logs carry owner_id
func Owner(r *http.Request, key string) (context.Context, string) {
	id := Param(r, key)
	ctx := pnet.WithRequest(r.Context(), "", id)
	return logger.WithRequest(ctx, pnet.RequestID(ctx), id), id
}

// MountAPIV1 mounts a /api/v1 subrouter with mw and lets mount fill it
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route("/api/v1", func(api Router) {
		if len(mw) > 0 {
			api.Use(mw...)
		}
		mount(api)
	})
}

// CommonStack is the middleware in front of every versioned route
func CommonStack() []func(http.Handler) http.Handler {
	return middleware.Stack(middleware.Options{
		Timeout: 30 * time.Second,
		Slow:    500 * time.Millisecond,
	})
}
