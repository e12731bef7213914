// Package server wires the HTTP surface: page rendering, the JSON API,
// static assets, health, metrics, and the dev-mode reload socket.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/escuadron-404/sitio/internal/auth"
	"github.com/escuadron-404/sitio/internal/config"
	"github.com/escuadron-404/sitio/internal/contact"
	"github.com/escuadron-404/sitio/internal/content"
	siteerr "github.com/escuadron-404/sitio/internal/errors"
	"github.com/escuadron-404/sitio/internal/i18n"
	"github.com/escuadron-404/sitio/internal/livereload"
	"github.com/escuadron-404/sitio/internal/logfields"
	"github.com/escuadron-404/sitio/internal/metrics"
	"github.com/escuadron-404/sitio/internal/server/handlers"
	smw "github.com/escuadron-404/sitio/internal/server/middleware"
	"github.com/escuadron-404/sitio/internal/session"
	"github.com/escuadron-404/sitio/internal/theme"
)

// Options carries the collaborators the server serves.
type Options struct {
	Registry     *theme.Registry
	Resolver     *theme.Resolver
	Sessions     *session.Manager
	Aggregator   *content.Aggregator
	Dicts        *i18n.Store
	Pipeline     *contact.Pipeline
	AuthProvider auth.Provider
	Recorder     metrics.Recorder

	// MetricsHandler enables GET /metrics when non-nil.
	MetricsHandler http.Handler
	// LiveReloadHub enables the dev /ws endpoint when non-nil.
	LiveReloadHub *livereload.Hub
}

// Server manages the site's single HTTP listener.
type Server struct {
	cfg          *config.Config
	opts         Options
	httpServer   *http.Server
	errorAdapter *siteerr.HTTPErrorAdapter

	pageHandlers       *handlers.PageHandlers
	themeHandlers      *handlers.ThemeHandlers
	contactHandlers    *handlers.ContactHandlers
	authHandlers       *handlers.AuthHandlers
	monitoringHandlers *handlers.MonitoringHandlers

	// middleware chain
	mchain func(http.Handler) http.Handler
}

// New constructs the HTTP server wiring.
func New(cfg *config.Config, opts Options) *Server {
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}

	s := &Server{
		cfg:          cfg,
		opts:         opts,
		errorAdapter: siteerr.NewHTTPErrorAdapter(slog.Default()),
	}

	persist := theme.PersisterFunc(func(id theme.ID) {
		slog.Debug("theme preference persisted", logfields.Theme(string(id)))
	})

	s.pageHandlers = handlers.NewPageHandlers(opts.Resolver, opts.Registry, opts.Sessions,
		opts.Aggregator, opts.Dicts, persist, cfg.Server.Dev, cfg.Contact.TurnstileSiteKey,
		opts.Recorder)
	s.themeHandlers = handlers.NewThemeHandlers(opts.Registry, opts.Resolver, opts.Sessions,
		persist, opts.Recorder)
	s.contactHandlers = handlers.NewContactHandlers(opts.Pipeline, opts.Recorder)
	s.authHandlers = handlers.NewAuthHandlers(opts.AuthProvider)
	s.monitoringHandlers = handlers.NewMonitoringHandlers(opts.Registry, opts.Sessions)

	s.mchain = smw.Chain(slog.Default(), s.errorAdapter, opts.Recorder)
	return s
}

func (s *Server) buildMux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/theme", s.themeHandlers.HandleSwitch)
	mux.HandleFunc("/api/themes", s.themeHandlers.HandleList)
	mux.HandleFunc("/api/contact", s.contactHandlers.HandleSubmit)
	mux.HandleFunc("/api/login", s.authHandlers.HandleLogin)
	mux.HandleFunc("/healthz", s.monitoringHandlers.HandleHealthCheck)

	mux.Handle("/static/", http.StripPrefix("/static/",
		http.FileServer(http.Dir(s.cfg.Server.StaticDir))))

	if s.opts.MetricsHandler != nil {
		mux.Handle("/metrics", s.opts.MetricsHandler)
	}
	if s.cfg.Server.Dev && s.opts.LiveReloadHub != nil {
		mux.Handle("/ws", s.opts.LiveReloadHub.Handler())
	}

	// The page handler owns the remaining path space: "/" redirects to the
	// preferred locale, "/{locale}" renders, anything else is a 404.
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			s.pageHandlers.HandleIndex(w, r)
			return
		}
		s.pageHandlers.HandlePage(w, r)
	})
	return mux
}

// Start binds the listener and begins serving. Binding happens before the
// serve goroutine starts so startup failures surface synchronously.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("http startup failed on %s: %w", addr, err)
	}

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.mchain(s.buildMux()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("http server error", logfields.Error(err))
		}
	}()

	slog.Info("HTTP server started",
		slog.String("addr", addr),
		slog.Bool("dev", s.cfg.Server.Dev),
		slog.Bool("metrics", s.opts.MetricsHandler != nil))
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	slog.Info("HTTP server stopped")
	return nil
}
