// Package module wires the organization user directory into the API
package module

import (
	modkit "careview/internal/modkit"
	"careview/internal/modkit/httpkit"
	"careview/internal/modkit/swaggerkit"
	"careview/internal/services/api/orgusers/domain"
	orgusershttp "careview/internal/services/api/orgusers/http"
	orguserssvc "careview/internal/services/api/orgusers/service"
)

// Module is the directory module, mounted under /organizations
type Module struct {
	modkit.Base
	ports Ports
}

// New constructs the orgusers module over deps.Care, which must be set
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	var up domain.Upstream
	if deps.Care != nil {
		up = deps.Care
	}
	return NewWith(deps, up, opts...)
}

// NewWith constructs the orgusers module over any care API implementation
func NewWith(deps modkit.Deps, up domain.Upstream, opts ...modkit.Option) modkit.Module {
	m := &Module{Base: modkit.Build(append([]modkit.Option{
		modkit.WithName("orgusers"),
		modkit.WithPrefix("/organizations"),
	}, opts...)...)}

	svc := orguserssvc.New(up, deps.CacheOrNew(), orguserssvc.Options{
		Limit: deps.Cfg.Prefix("LIST_").MayInt("USERS_LIMIT", orguserssvc.DefaultLimit),
	})
	m.ports = Ports{Directory: svc}
	m.Handle(func(r httpkit.Router) { orgusershttp.Register(r, svc) })

	if m.SwaggerOn() {
		swaggerkit.Register(m.Name(), docs(m.Prefix()))
	}
	return m
}
