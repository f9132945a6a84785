// Package http serves the operational endpoints under /meta: liveness,
// readiness against the care API, build info and list cache counters
package http

import (
	"context"
	"net/http"
	"time"

	"careview/internal/core/listcache"
	"careview/internal/core/version"
	"careview/internal/modkit/httpkit"
)

// Pinger is the care API client as far as readiness is concerned
type Pinger interface {
	Ping(context.Context) error
}

// CacheStats is the list cache as far as /cache is concerned
type CacheStats interface {
	Stats() listcache.Stats
}

// Deps feed the meta endpoints. Nil Care skips the upstream check, nil
// Cache reports zero counters and nil Modules lists none
type Deps struct {
	ServiceName  string
	StartedAt    time.Time
	Care         Pinger
	Cache        CacheStats
	Modules      func() []string
	ReadyTimeout time.Duration // default 2s
}

// Register mounts the meta routes on r
func Register(r httpkit.Router, d Deps) {
	if d.ReadyTimeout <= 0 {
		d.ReadyTimeout = 2 * time.Second
	}
	routes := map[string]func(*http.Request) (any, error){
		"/health":  d.health,
		"/ready":   d.ready,
		"/version": func(*http.Request) (any, error) { return version.Info(), nil },
		"/cache":   d.cache,
	}
	for path, fn := range routes {
		httpkit.Get(r, path, fn)
	}
}

// Health is the liveness payload
type Health struct {
	OK      bool     `json:"ok"      example:"true"`
	Service string   `json:"service" example:"careview-api"`
	Started string   `json:"started" example:"2026-10-01T13:00:00Z"`
	Uptime  int64    `json:"uptime"  example:"300"`
	Modules []string `json:"modules" example:"comments,meta,orgusers"`
}

// Check is one dependency of the readiness probe
type Check struct {
	Name   string `json:"name"            example:"care_api"`
	Status string `json:"status"          example:"ok" enums:"ok,fail,skipped"`
	Error  string `json:"error,omitempty" example:"context deadline exceeded"`
}

// Readiness is "ok" when every check passed, "degraded" when one was
// skipped and "fail" otherwise
type Readiness struct {
	Status string  `json:"status" example:"ok" enums:"ok,degraded,fail"`
	Checks []Check `json:"checks"`
	Now    string  `json:"now"    example:"2026-10-01T13:05:00Z"`
}

// @Summary Liveness, uptime and mounted modules
// @Tags Meta
// @Produce json
// @Success 200 {object} Health
// @Router /meta/health [get]
func (d Deps) health(*http.Request) (any, error) {
	out := Health{
		OK:      true,
		Service: d.ServiceName,
		Started: d.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(time.Since(d.StartedAt) / time.Second),
		Modules: []string{},
	}
	if d.Modules != nil {
		out.Modules = d.Modules()
	}
	return out, nil
}

// @Summary Readiness, pings the care API
// @Tags Meta
// @Produce json
// @Success 200 {object} Readiness
// @Router /meta/ready [get]
func (d Deps) ready(r *http.Request) (any, error) {
	care := Check{Name: "care_api", Status: "skipped"}
	if d.Care != nil {
		ctx, cancel := context.WithTimeout(r.Context(), d.ReadyTimeout)
		defer cancel()
		care.Status = "ok"
		if err := d.Care.Ping(ctx); err != nil {
			care.Status, care.Error = "fail", err.Error()
		}
	}

	status := map[string]string{"ok": "ok", "skipped": "degraded", "fail": "fail"}[care.Status]
	return Readiness{
		Status: status,
		Checks: []Check{care},
		Now:    time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// @Summary List cache counters
// @Tags Meta
// @Produce json
// @Success 200 {object} listcache.Stats
// @Router /meta/cache [get]
func (d Deps) cache(*http.Request) (any, error) {
	if d.Cache == nil {
		return listcache.Stats{}, nil
	}
	return d.Cache.Stats(), nil
}
