// Package api provides the HTTP API for the application
package api

import (
	"careview/internal/adapters/careapi"
	"careview/internal/core/listcache"
	"careview/internal/platform/config"
	"careview/internal/platform/logger"
	phttp "careview/internal/platform/net/http"

	"careview/internal/modkit"
	"careview/internal/modkit/httpkit"
	"careview/internal/modkit/module"
	"careview/internal/modkit/swaggerkit"

	commentsmod "careview/internal/services/api/comments/module"
	metamod "careview/internal/services/api/meta/module"
	orgusersmod "careview/internal/services/api/orgusers/module"
)

// Options are the API options
type Options struct {
	Config config.Conf
	Care   *careapi.Client
	// Cache is shared by every list module; nil creates one
	Cache          *listcache.Cache
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	cache := opt.Cache
	if cache == nil {
		lc := opt.Config.Prefix("LIST_")
		cache = listcache.New(
			lc.MayInt("CACHE_SIZE", listcache.DefaultSize),
			listcache.WithTTL(lc.MayDuration("CACHE_TTL", 0)),
		)
	}

	// shared deps for modules
	deps := modkit.Deps{
		Cfg:   opt.Config,
		Care:  opt.Care,
		Cache: cache,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	module.Reset()
	mods := []module.Module{
		metamod.New(deps),
		commentsmod.New(deps, modkit.WithSwagger(opt.EnableSwagger)),
		orgusersmod.New(deps, modkit.WithSwagger(opt.EnableSwagger)),
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		for _, m := range mods {
			// ports are looked up by module name, meta lists the names
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})

	// docs and pprof live outside the versioned API
	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
}
