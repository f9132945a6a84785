// @title         careview API
// @version       0.1.0
// @description   Paginated, filterable views over care API lists with cache aware mutations

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"careview/internal/adapters/careapi"
	"careview/internal/platform/config"
	"careview/internal/platform/logger"
	phttp "careview/internal/platform/net/http"
	"careview/internal/platform/net/middleware"

	"careview/internal/services/api"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
)

func main() {
	// a local .env is optional, real env always wins
	envErr := godotenv.Load()

	root := config.New()
	apiCfg := root.Prefix("CORE_API_") // CORE_API_PORT, CORE_API_SWAGGER, ...

	// bring up logging early
	l := logger.Get()
	if envErr != nil && !os.IsNotExist(envErr) {
		l.Warn().Err(envErr).Msg("could not load .env")
	}

	// care API client (CARE_API_*)
	care, err := careapi.NewClient(careapi.FromConfig(root))
	if err != nil {
		l.Panic().Err(err).Msg("careapi.NewClient failed")
	}

	// http server (reads CORE_API_PORT), load balancers probe /health at the root
	srv := phttp.NewServer(apiCfg, func(m *chi.Mux) {
		m.Use(middleware.Heartbeat("/health"))
	})

	// mount our API, modules read LIST_* from the root view
	api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Care:           care,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), apiCfg.MayDuration("SHUTDOWN_GRACE", 10*time.Second))
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			l.Error().Err(err).Msg("http shutdown")
		}
	}()

	// run
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
	l.Info().Msg("bye")
}
