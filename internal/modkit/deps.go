package modkit

import (
	"careview/internal/adapters/careapi"
	"careview/internal/core/listcache"
	"careview/internal/platform/config"
	"careview/internal/platform/logger"
)

// Deps are what every module is built from
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	// Care is the upstream care API client
	Care *careapi.Client
	// Cache is shared by every list so a write in one module can
	// invalidate pages read by another
	Cache *listcache.Cache
}

// CacheOrNew returns the shared cache, creating a private one when unset
func (d Deps) CacheOrNew() *listcache.Cache {
	if d.Cache != nil {
		return d.Cache
	}
	return listcache.New(listcache.DefaultSize)
}
