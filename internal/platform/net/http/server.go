package http

import (
	"context"
	"errors"
	"net"
	stdhttp "net/http"
	"time"

	"careview/internal/platform/config"
	"careview/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// Server owns the root chi mux and the http.Server in front of it
type Server struct {
	mux *chi.Mux
	srv *stdhttp.Server
}

// NewServer reads PORT (default ":4000") from cfg. opts get the root mux
// before anything else is mounted
func NewServer(cfg config.Conf, opts ...func(*chi.Mux)) *Server {
	m := chi.NewRouter()
	for _, o := range opts {
		o(m)
	}
	return &Server{
		mux: m,
		srv: &stdhttp.Server{
			Addr:              cfg.MayString("PORT", ":4000"),
			Handler:           m,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Router is the root mux as a Router
func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Addr is the configured listen address
func (s *Server) Addr() string { return s.srv.Addr }

// Run serves until Shutdown. Request contexts carry ctx's values but not
// its cancellation, Shutdown decides when in-flight requests end
func (s *Server) Run(ctx context.Context) error {
	base := context.WithoutCancel(ctx)
	s.srv.BaseContext = func(net.Listener) context.Context { return base }
	logger.Named("http").Info().Str("addr", s.srv.Addr).Msg("http listening")
	if err := s.srv.ListenAndServe(); !errors.Is(err, stdhttp.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx ends
func (s *Server) Shutdown(ctx context.Context) error { return s.srv.Shutdown(ctx) }
