// Package module wires resource comment sections into the API
package module

import (
	modkit "careview/internal/modkit"
	"careview/internal/modkit/httpkit"
	"careview/internal/modkit/swaggerkit"
	"careview/internal/services/api/comments/domain"
	commentshttp "careview/internal/services/api/comments/http"
	commentssvc "careview/internal/services/api/comments/service"
)

// Module is the comments module, mounted under /resources
type Module struct {
	modkit.Base
	ports Ports
}

// New constructs the comments module over deps.Care, which must be set
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	var up domain.Upstream
	if deps.Care != nil {
		up = deps.Care
	}
	return NewWith(deps, up, opts...)
}

// NewWith constructs the comments module over any care API implementation
func NewWith(deps modkit.Deps, up domain.Upstream, opts ...modkit.Option) modkit.Module {
	m := &Module{Base: modkit.Build(append([]modkit.Option{
		modkit.WithName("comments"),
		modkit.WithPrefix("/resources"),
	}, opts...)...)}

	svc := commentssvc.New(up, deps.CacheOrNew(), commentssvc.Options{
		Limit: deps.Cfg.Prefix("LIST_").MayInt("COMMENTS_LIMIT", commentssvc.DefaultLimit),
	})
	m.ports = Ports{Comments: svc}
	m.Handle(func(r httpkit.Router) { commentshttp.Register(r, svc) })

	if m.SwaggerOn() {
		swaggerkit.Register(m.Name(), docs(m.Prefix()))
	}
	return m
}
