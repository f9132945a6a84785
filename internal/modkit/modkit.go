// Package modkit wires API modules: the shared deps they are built from and
// a Base that carries name, prefix, middleware and route registration so a
// module only adds its service and ports
package modkit

import (
	"net/http"
	"slices"

	"careview/internal/modkit/httpkit"
	"careview/internal/modkit/module"
	str "careview/internal/platform/strings"
)

// Module is the contract every API module satisfies
type Module = module.Module

// Option configures a Base
type Option func(*Base)

// WithName names the module in logs, docs and the port registry
func WithName(name string) Option { return func(b *Base) { b.name = name } }

// WithPrefix mounts the module under prefix, e.g. "/resources"
func WithPrefix(prefix string) Option { return func(b *Base) { b.prefix = prefix } }

// WithMiddlewares adds middleware around every module route, in order
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Base) { b.mws = append(b.mws, mw...) }
}

// WithSwagger makes the module publish its OpenAPI paths
func WithSwagger(on bool) Option { return func(b *Base) { b.swaggerOn = on } }

// WithRegister mounts extra routes next to the module's own
func WithRegister(fn func(httpkit.Router)) Option {
	return func(b *Base) { b.extra = append(b.extra, fn) }
}

// Base is embedded by modules. Options given later override earlier ones,
// so a module passes its defaults first and the caller's options after
type Base struct {
	name      string
	prefix    string
	mws       []func(http.Handler) http.Handler
	swaggerOn bool
	routes    []func(httpkit.Router)
	extra     []func(httpkit.Router)
}

// Build applies opts in order
func Build(opts ...Option) Base {
	var b Base
	for _, o := range opts {
		o(&b)
	}
	return b
}

// Handle adds the module's own routes. They mount before WithRegister extras
func (b *Base) Handle(fn func(httpkit.Router)) { b.routes = append(b.routes, fn) }

// Name panics when the module was built without one
func (b Base) Name() string { return str.MustString(b.name, "module name") }

// Prefix panics unless it starts with "/"
func (b Base) Prefix() string { return str.MustPrefix(b.prefix) }

// SwaggerOn reports whether the module publishes docs
func (b Base) SwaggerOn() bool { return b.swaggerOn }

// Middlewares are the per module middleware, outermost first
func (b Base) Middlewares() []func(http.Handler) http.Handler {
	return append([]func(http.Handler) http.Handler(nil), b.mws...)
}

// MountRoutes mounts the module's routes under its prefix
func (b Base) MountRoutes(r httpkit.Router) {
	r.Route(b.Prefix(), func(sub httpkit.Router) {
		if len(b.mws) > 0 {
			sub.Use(b.mws...)
		}
		for _, fn := range slices.Concat(b.routes, b.extra) {
			fn(sub)
		}
	})
}
