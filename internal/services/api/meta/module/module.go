// Package module wires the meta endpoints into the API
package module

import (
	"time"

	"careview/internal/core/version"
	modkit "careview/internal/modkit"
	"careview/internal/modkit/httpkit"
	"careview/internal/modkit/module"
	metahttp "careview/internal/services/api/meta/http"
)

// Module serves health, readiness, version and cache counters under /meta
type Module struct{ modkit.Base }

// New constructs the meta module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	m := &Module{Base: modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)}

	md := metahttp.Deps{
		ServiceName:  version.ServiceName,
		StartedAt:    time.Now(),
		Modules:      module.Names,
		ReadyTimeout: deps.Cfg.Prefix("CARE_API_").MayDuration("READY_TIMEOUT", 2*time.Second),
	}
	// typed nils must not reach the interface fields
	if deps.Care != nil {
		md.Care = deps.Care
	}
	if deps.Cache != nil {
		md.Cache = deps.Cache
	}
	m.Handle(func(r httpkit.Router) { metahttp.Register(r, md) })
	return m
}

// Ports is nil, nothing looks meta up
func (m *Module) Ports() any { return nil }
