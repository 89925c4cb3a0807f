// Package server is the JSON HTTP API behind the dashboard.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tempoflow-ai/tempoflow/internal/app"
	"github.com/tempoflow-ai/tempoflow/internal/config"
)

// DefaultOrigins are the dev-server origins allowed by CORS when none are
// configured.
var DefaultOrigins = []string{
	"http://localhost:5173",
	"http://127.0.0.1:5173",
	"http://localhost:3000",
}

// Options configures a Server.
type Options struct {
	Port           int
	AllowedOrigins []string
	Version        string
}

type Server struct {
	app      *app.Context
	store    config.Store
	settings atomic.Pointer[config.Settings]
	origins  map[string]struct{}
	version  string
	port     int
	server   *http.Server
}

// New builds a server over appCtx. Settings edits are written through store
// and take effect immediately.
func New(appCtx *app.Context, store config.Store, initial config.Settings, opts Options) *Server {
	if opts.Port == 0 {
		opts.Port = initial.Server.Port
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = DefaultOrigins
	}

	s := &Server{
		app:     appCtx,
		store:   store,
		origins: make(map[string]struct{}, len(opts.AllowedOrigins)),
		version: opts.Version,
		port:    opts.Port,
	}
	for _, o := range opts.AllowedOrigins {
		s.origins[o] = struct{}{}
	}
	s.ApplySettings(initial)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           s.registerRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.server.Handler }

// Addr is the listen address.
func (s *Server) Addr() string { return s.server.Addr }

// Settings returns the settings in effect.
func (s *Server) Settings() config.Settings { return *s.settings.Load() }

// ApplySettings swaps in new settings for subsequent requests. It is safe to
// call from a config watcher goroutine.
func (s *Server) ApplySettings(settings config.Settings) {
	settings = settings.Normalize()
	s.settings.Store(&settings)
}

func (s *Server) Start(wg *sync.WaitGroup, errChan chan<- error) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		slog.Info("API server listening", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
